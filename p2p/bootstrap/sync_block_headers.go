package bootstrap

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tezgo/domain/chain"
	"tezgo/infrastructure/encoding"
)

// SyncBlockHeaders walks the peer's history backward from a known remote
// ancestor, collecting block headers head-side first until level 0.
type SyncBlockHeaders struct {
	remoteBranch encoding.CurrentBranch
	headers      []chain.BlockHeader
	onHeader     func()
}

// NewSyncBlockHeaders seeds the walk from a received branch. The history
// lists successive predecessors; index len−2 selects a known remote
// ancestor to start from.
func NewSyncBlockHeaders(remoteBranch encoding.CurrentBranch, onHeader func()) (*SyncBlockHeaders, error) {
	if len(remoteBranch.History) < 2 {
		return nil, fmt.Errorf("remote branch history of %d entries is too short to seed the walk", len(remoteBranch.History))
	}
	return &SyncBlockHeaders{
		remoteBranch: remoteBranch,
		onHeader:     onHeader,
	}, nil
}

// Headers returns the collected chain, head side first, genesis last.
func (s *SyncBlockHeaders) Headers() []chain.BlockHeader {
	return s.headers
}

// Run requests one header at a time and follows predecessor links until
// a level-0 header arrives. A header whose predecessor equals the hash
// just requested is the peer echoing our request key; it is skipped so
// progress stays strictly backward.
func (s *SyncBlockHeaders) Run(connection Connection, logger logrus.FieldLogger) error {
	last := s.remoteBranch.History[len(s.remoteBranch.History)-2]
	for {
		request := encoding.Envelope(&encoding.GetBlockHeadersMessage{Hashes: []chain.BlockHash{last}})
		if err := connection.Write(request); err != nil {
			return err
		}
		envelope, err := connection.Read()
		if err != nil {
			return err
		}
		if len(envelope.Messages) == 0 {
			continue
		}

		header, ok := envelope.Messages[0].(*encoding.BlockHeaderMessage)
		if !ok {
			continue
		}
		h := header.Header
		if h.Predecessor == last {
			continue
		}

		s.headers = append(s.headers, h)
		if s.onHeader != nil {
			s.onHeader()
		}
		logger.WithFields(logrus.Fields{
			"level":       h.Level,
			"predecessor": h.Predecessor,
		}).Debug("fetched block header")

		if h.Level == 0 {
			return nil
		}
		last = h.Predecessor
	}
}
