package p2p

import (
	"io"

	"tezgo/application"
	"tezgo/infrastructure/cryptography/tezbox"
	"tezgo/infrastructure/network"
)

// ContentLengthMax is the largest plaintext fitting one chunk after the
// box overhead.
const ContentLengthMax = network.MaxChunkLength - tezbox.BoxZeroBytes

// DecipherState owns one symmetric session: the decipher capability, the
// role flag, and the two per-direction chunk counters. The counters are
// disjoint resources; a counter advances by exactly one per chunk
// enciphered or deciphered in its direction, and never on failure.
type DecipherState struct {
	decipher          application.Decipher
	initiator         bool
	initiatorsCounter uint64
	respondersCounter uint64
	telemetry         *Telemetry
}

// NewDecipherState wraps the outcome of key agreement. initiator is true
// for the side that opened the TCP connection.
func NewDecipherState(decipher application.Decipher, initiator bool) *DecipherState {
	return &DecipherState{
		decipher:  decipher,
		initiator: initiator,
	}
}

// WithTelemetry attaches the socket's instrumentation.
func (s *DecipherState) WithTelemetry(t *Telemetry) *DecipherState {
	s.telemetry = t
	return s
}

// Encrypt produces one ciphertext chunk from plaintext using the
// role-appropriate nonce addition and the current outgoing counter.
func (s *DecipherState) Encrypt(plaintext []byte) (network.BinaryChunk, error) {
	addition, counter := s.outgoing()
	ciphertext, err := s.decipher.Encrypt(plaintext, addition)
	if err != nil {
		return network.BinaryChunk{}, encryptionError(err)
	}
	chunk, err := network.NewBinaryChunk(ciphertext)
	if err != nil {
		return network.BinaryChunk{}, chunkError(err)
	}
	*counter++
	s.telemetry.chunkSent(len(chunk.Raw()), len(plaintext))
	return chunk, nil
}

// Decrypt opens one ciphertext chunk body using the incoming counter.
func (s *DecipherState) Decrypt(ciphertext []byte) ([]byte, error) {
	addition, counter := s.incoming()
	plaintext, err := s.decipher.Decrypt(ciphertext, addition)
	if err != nil {
		return nil, decryptionError(err)
	}
	*counter++
	s.telemetry.chunkReceived(network.ChunkHeaderLength + len(ciphertext))
	return plaintext, nil
}

// WriteMessage encodes each message, splits each encoding into segments
// of at most ContentLengthMax, encrypts every segment to a chunk and
// issues the concatenation as a single stream write. Message order and
// segment order are preserved; no sentinel separates messages.
func (s *DecipherState) WriteMessage(stream io.Writer, messages []application.BinaryMessage) error {
	var chunks []byte
	for _, message := range messages {
		bytes, err := message.MarshalBinary()
		if err != nil {
			return ErrEncoding
		}
		for len(bytes) > 0 {
			segment := bytes
			if len(segment) > ContentLengthMax {
				segment = segment[:ContentLengthMax]
			}
			bytes = bytes[len(segment):]

			chunk, err := s.Encrypt(segment)
			if err != nil {
				return err
			}
			chunks = append(chunks, chunk.Raw()...)
		}
	}
	if _, err := stream.Write(chunks); err != nil {
		return ioError(err)
	}
	return nil
}

// ReadChunk reads one framed chunk from the stream and returns its
// plaintext.
func (s *DecipherState) ReadChunk(stream io.Reader) ([]byte, error) {
	chunk, err := network.ReadBinaryChunk(stream)
	if err != nil {
		return nil, ioError(err)
	}
	return s.Decrypt(chunk.Content())
}

// The initiator enciphers under Initiator(n) and deciphers under
// Responder(n); the responder mirrors.

func (s *DecipherState) outgoing() (application.NonceAddition, *uint64) {
	if s.initiator {
		return application.NonceAddition{Direction: application.NonceInitiator, Counter: s.initiatorsCounter}, &s.initiatorsCounter
	}
	return application.NonceAddition{Direction: application.NonceResponder, Counter: s.respondersCounter}, &s.respondersCounter
}

func (s *DecipherState) incoming() (application.NonceAddition, *uint64) {
	if s.initiator {
		return application.NonceAddition{Direction: application.NonceResponder, Counter: s.respondersCounter}, &s.respondersCounter
	}
	return application.NonceAddition{Direction: application.NonceInitiator, Counter: s.initiatorsCounter}, &s.initiatorsCounter
}
