package p2p

import (
	"github.com/sirupsen/logrus"

	"tezgo/application"
	"tezgo/domain/chain"
	"tezgo/infrastructure/cryptography/tezbox"
	"tezgo/infrastructure/encoding"
	"tezgo/p2p/bootstrap"
)

// SocketPhase enumerates the life of one peer socket.
type SocketPhase int

const (
	SocketConnecting SocketPhase = iota
	SocketHandshake
	SocketBootstrapping
	SocketFinish
)

// Config carries everything one outbound socket needs besides the peer
// address: identity, chain constants, the header store and the optional
// telemetry.
type Config struct {
	Identity  *tezbox.Identity
	ChainName string
	ChainID   chain.ChainID
	Store     bootstrap.HeaderStore
	Telemetry *Telemetry
}

// SocketState owns the TCP stream and sequences connect, handshake and
// bootstrap. The stream lives exactly as long as the non-terminal
// states; transitions move its ownership.
type SocketState struct {
	phase      SocketPhase
	connection application.Connection
	config     Config

	stream    application.ConnectionAdapter
	handshake *HandshakeState
	bootstrap *bootstrap.State
}

// NewOutgoingSocketState prepares a socket that will dial through
// connection and bootstrap against the configured chain.
func NewOutgoingSocketState(connection application.Connection, config Config) *SocketState {
	return &SocketState{
		phase:      SocketConnecting,
		connection: connection,
		config:     config,
	}
}

func (s *SocketState) Phase() SocketPhase {
	return s.phase
}

// Close releases the stream if a non-terminal state still owns it.
func (s *SocketState) Close() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	return err
}

// Run advances the socket by one transition.
func (s *SocketState) Run(logger logrus.FieldLogger) error {
	switch s.phase {
	case SocketConnecting:
		stream, err := s.connection.Establish()
		if err != nil {
			return ioError(err)
		}
		logger.Info("connected")
		s.stream = stream
		s.handshake = NewHandshake(s.config.Identity, s.config.ChainName, s.config.Telemetry)
		s.phase = SocketHandshake

	case SocketHandshake:
		if err := s.handshake.Run(logger, s.stream); err != nil {
			return err
		}
		ackConn, ack, done := s.handshake.Finished()
		if !done {
			return nil
		}
		logger.Info("complete handshake")
		s.advancePastHandshake(logger, ackConn, ack)

	case SocketBootstrapping:
		if err := s.bootstrap.Run(); err != nil {
			return err
		}
		if s.bootstrap.Terminal() {
			s.finish()
		}

	case SocketFinish:
		// terminal
	}
	return nil
}

func (s *SocketState) advancePastHandshake(logger logrus.FieldLogger, ackConn *TrustedConnection[*encoding.AckMessage], ack *encoding.AckMessage) {
	switch ack.Kind {
	case encoding.AckKindAck:
		logger.Info("ready to bootstrap")
		peerConn := Transmute(ackConn, encoding.DecodePeerMessageResponse, "peer")
		s.bootstrap = bootstrap.NewState(peerConn, s.config.ChainID, s.config.Store, logger)
		if s.config.Telemetry != nil && s.config.Telemetry.Metrics != nil {
			headersFetched := s.config.Telemetry.Metrics.HeadersFetched
			s.bootstrap.WithHeaderHook(headersFetched.Inc)
		}
		s.phase = SocketBootstrapping

	case encoding.AckKindNack:
		logger.WithFields(logrus.Fields{
			"motive":          ack.Motive,
			"potential_peers": ack.PotentialPeers,
		}).Debug("peer refused the session")
		s.finish()

	case encoding.AckKindNackV0:
		s.finish()
	}
}

func (s *SocketState) finish() {
	_ = s.Close()
	s.handshake = nil
	s.bootstrap = nil
	s.phase = SocketFinish
}
