package p2p

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"tezgo/application"
)

// Socket is one outbound peer session, driven to a terminal state.
type Socket struct {
	state    *SocketState
	shutdown chan struct{}
}

// Shutdown asks a socket to stop between transitions. In-flight I/O is
// not interrupted; cancel the context for that.
type Shutdown struct {
	once sync.Once
	ch   chan struct{}
}

func (s *Shutdown) Shutdown() {
	s.once.Do(func() { close(s.ch) })
}

// Outgoing builds a socket that dials through connection and its
// shutdown handle.
func Outgoing(connection application.Connection, config Config) (*Socket, *Shutdown) {
	shutdown := &Shutdown{ch: make(chan struct{})}
	return &Socket{
		state:    NewOutgoingSocketState(connection, config),
		shutdown: shutdown.ch,
	}, shutdown
}

// Run drives the socket until a terminal state, a shutdown signal, a
// cancelled context, or an error. The stream is always released.
func (s *Socket) Run(ctx context.Context, logger logrus.FieldLogger) error {
	defer func() { _ = s.state.Close() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdown:
			return nil
		default:
		}

		if err := s.state.Run(logger); err != nil {
			return err
		}
		if s.state.Phase() == SocketFinish {
			return nil
		}
	}
}
