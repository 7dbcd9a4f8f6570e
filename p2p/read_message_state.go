package p2p

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"tezgo/infrastructure/encoding"
)

type readPhase int

const (
	// no buffered bytes; next action is pulling a chunk
	readEmpty readPhase = iota
	// buffered bytes of unknown sufficiency; next action is a decode attempt
	readUnknown
	// the decoder declared how many bytes are still missing
	readBuffering
	// a fully decoded message is ready to be surfaced
	readHasMessage
)

// ReadMessageState reassembles one message of type M from a stream of
// decrypted chunks. The decoder is the authority on "need more bytes":
// it reports a shortfall with *encoding.Underflow and the state machine
// pulls chunks until the buffer suffices.
type ReadMessageState[M any] struct {
	phase     readPhase
	buffer    []byte
	remaining int
	message   M
	decode    func([]byte) (M, error)
}

// NewReadMessageState starts in Unknown with an empty buffer, so the
// first decode attempt immediately reports the decoder's declared need.
func NewReadMessageState[M any](decode func([]byte) (M, error)) *ReadMessageState[M] {
	return &ReadMessageState[M]{
		phase:  readUnknown,
		decode: decode,
	}
}

// ReadMessage performs one transition. When a whole message is ready it
// is returned with ok=true and the state resets to Empty; otherwise the
// caller loops.
func (s *ReadMessageState[M]) ReadMessage(logger logrus.FieldLogger, stream io.Reader, decipher *DecipherState) (M, bool, error) {
	var zero M
	if s.phase == readHasMessage {
		message := s.message
		s.message = zero
		s.phase = readEmpty
		logger.Debugf("message: %+v", message)
		return message, true, nil
	}
	if err := s.run(stream, decipher); err != nil {
		return zero, false, err
	}
	return zero, false, nil
}

func (s *ReadMessageState[M]) run(stream io.Reader, decipher *DecipherState) error {
	switch s.phase {
	case readEmpty:
		data, err := decipher.ReadChunk(stream)
		if err != nil {
			return err
		}
		// not known yet whether this suffices
		s.buffer = data
		s.phase = readUnknown

	case readUnknown:
		message, err := s.decode(s.buffer)
		var underflow *encoding.Underflow
		switch {
		case err == nil:
			s.message = message
			s.buffer = nil
			s.phase = readHasMessage
		case errors.As(err, &underflow):
			s.remaining = underflow.Bytes
			s.phase = readBuffering
		default:
			return decodingError(err)
		}

	case readBuffering:
		chunk, err := decipher.ReadChunk(stream)
		if err != nil {
			return err
		}
		s.buffer = append(s.buffer, chunk...)
		if len(chunk) >= s.remaining {
			s.remaining = 0
			s.phase = readUnknown
		} else {
			s.remaining -= len(chunk)
		}

	case readHasMessage:
		// surfaced by ReadMessage
	}
	return nil
}
