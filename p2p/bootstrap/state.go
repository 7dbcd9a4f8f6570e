package bootstrap

import (
	"github.com/sirupsen/logrus"

	"tezgo/domain/chain"
	"tezgo/infrastructure/encoding"
)

// Phase enumerates the bootstrap dialogue. Finish and UnknownChain are
// terminal.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseAskedRemoteBranch
	PhaseReceivedRemoteBranch
	PhaseFinish
	PhaseUnknownChain
)

// State asks the peer for its current branch, answers the peer's
// symmetric request with the local genesis, validates chain identity,
// then walks the peer's history backward and persists the result. Each
// Run call performs one transition.
type State struct {
	phase    Phase
	chainID  chain.ChainID
	conn     Connection
	store    HeaderStore
	sync     *SyncBlockHeaders
	onHeader func()
	logger   logrus.FieldLogger
}

func NewState(conn Connection, chainID chain.ChainID, store HeaderStore, logger logrus.FieldLogger) *State {
	return &State{
		phase:   PhaseInitial,
		chainID: chainID,
		conn:    conn,
		store:   store,
		logger:  logger,
	}
}

// WithHeaderHook registers a callback fired once per header appended to
// the downloaded chain.
func (s *State) WithHeaderHook(onHeader func()) *State {
	s.onHeader = onHeader
	return s
}

func (s *State) Phase() Phase {
	return s.phase
}

func (s *State) Terminal() bool {
	return s.phase == PhaseFinish || s.phase == PhaseUnknownChain
}

// Run advances the dialogue by one transition.
func (s *State) Run() error {
	switch s.phase {
	case PhaseInitial:
		request := encoding.Envelope(&encoding.GetCurrentBranchMessage{ChainID: s.chainID})
		if err := s.conn.Write(request); err != nil {
			return err
		}
		s.phase = PhaseAskedRemoteBranch

	case PhaseAskedRemoteBranch:
		envelope, err := s.conn.Read()
		if err != nil {
			return err
		}
		return s.handleBranchEnvelope(envelope)

	case PhaseReceivedRemoteBranch:
		if err := s.sync.Run(s.conn, s.logger); err != nil {
			return err
		}
		if err := s.store.Persist(s.sync.Headers()); err != nil {
			return err
		}
		s.logger.WithField("headers", len(s.sync.Headers())).Info("header chain persisted")
		s.phase = PhaseFinish

	case PhaseFinish, PhaseUnknownChain:
		// terminal
	}
	return nil
}

// handleBranchEnvelope inspects each sub-message; when no terminal
// sub-message is seen the phase stays AskedRemoteBranch and the caller
// re-reads.
func (s *State) handleBranchEnvelope(envelope *encoding.PeerMessageResponse) error {
	for _, message := range envelope.Messages {
		switch m := message.(type) {
		case *encoding.GetCurrentBranchMessage:
			if m.ChainID != s.chainID {
				s.logger.WithField("chain_id", m.ChainID).Warn("ignoring current-branch request for foreign chain")
				continue
			}
			reply := encoding.Envelope(&encoding.CurrentBranchMessage{
				ChainID: s.chainID,
				Branch: encoding.CurrentBranch{
					CurrentHead: chain.GenesisBlockHeader(),
				},
			})
			if err := s.conn.Write(reply); err != nil {
				return err
			}

		case *encoding.CurrentBranchMessage:
			if m.ChainID != s.chainID {
				s.logger.WithFields(logrus.Fields{
					"chain_id": m.ChainID,
					"expected": s.chainID,
				}).Info("peer follows an unknown chain")
				s.phase = PhaseUnknownChain
				return nil
			}
			sync, err := NewSyncBlockHeaders(m.Branch, s.onHeader)
			if err != nil {
				return err
			}
			s.sync = sync
			s.logger.WithField("head_level", m.Branch.CurrentHead.Level).Info("received remote branch")
			s.phase = PhaseReceivedRemoteBranch
			return nil

		default:
			s.warnIgnored(envelope, message)
		}
	}
	return nil
}

// warnIgnored classifies a sub-message the dialogue does not act on via
// the Requests/Responses views before logging it away.
func (s *State) warnIgnored(envelope *encoding.PeerMessageResponse, message encoding.PeerMessage) {
	kind := "unclassified"
	for _, request := range Requests(envelope) {
		if request == message {
			kind = "request"
			break
		}
	}
	if kind == "unclassified" {
		for _, response := range Responses(envelope) {
			if response == message {
				kind = "response"
				break
			}
		}
	}
	s.logger.WithFields(logrus.Fields{
		"tag":  message.Tag(),
		"kind": kind,
	}).Warn("ignoring peer sub-message")
}
