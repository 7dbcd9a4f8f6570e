package p2p

import (
	"github.com/sirupsen/logrus"

	"tezgo/application"
)

// TrustedConnection binds a stream, a decipher session and a reassembler
// into a typed duplex channel for one message family. It exclusively
// owns the stream and the decipher state; the logger is a shared handle.
type TrustedConnection[M application.BinaryMessage] struct {
	reader   *ReadMessageState[M]
	decipher *DecipherState
	stream   application.ConnectionAdapter
	logger   logrus.FieldLogger
	family   string
}

func NewTrustedConnection[M application.BinaryMessage](
	stream application.ConnectionAdapter,
	decipher *DecipherState,
	decode func([]byte) (M, error),
	family string,
	logger logrus.FieldLogger,
) *TrustedConnection[M] {
	return &TrustedConnection[M]{
		reader:   NewReadMessageState(decode),
		decipher: decipher,
		stream:   stream,
		logger:   logger,
		family:   family,
	}
}

// Read pumps the reassembler until it yields one whole message.
func (c *TrustedConnection[M]) Read() (M, error) {
	for {
		message, ok, err := c.reader.ReadMessage(c.logger, c.stream, c.decipher)
		if err != nil {
			var zero M
			return zero, err
		}
		if ok {
			c.decipher.telemetry.messageRead(c.family)
			return message, nil
		}
	}
}

func (c *TrustedConnection[M]) Write(message M) error {
	return c.WriteBatch([]M{message})
}

// WriteBatch emits all messages in one coalesced stream write.
func (c *TrustedConnection[M]) WriteBatch(messages []M) error {
	c.logger.Debugf("-> %+v", messages)
	batch := make([]application.BinaryMessage, len(messages))
	for i, message := range messages {
		batch[i] = message
	}
	if err := c.decipher.WriteMessage(c.stream, batch); err != nil {
		return err
	}
	for range messages {
		c.decipher.telemetry.messageWritten(c.family)
	}
	return nil
}

// Transmute consumes a connection and rebinds its stream and decipher
// state to a new message family with a fresh reassembler. Sound only at
// a message boundary, when the previous reassembler holds no bytes.
func Transmute[M2, M1 application.BinaryMessage](
	c *TrustedConnection[M1],
	decode func([]byte) (M2, error),
	family string,
) *TrustedConnection[M2] {
	return NewTrustedConnection(c.stream, c.decipher, decode, family, c.logger)
}
