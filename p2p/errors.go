// Package p2p drives one outbound peer socket: the enciphered session
// with its per-direction counters, the message reassembler, the
// handshake, and the supervising state machine. Every error here is
// fatal to the socket; there is no retry and no partial recovery.
package p2p

import (
	"errors"
	"fmt"
)

// The socket error taxonomy. Wrapped causes stay reachable through
// errors.Is/errors.As.
var (
	ErrIO         = errors.New("io error")
	ErrEncoding   = errors.New("encoding error")
	ErrDecoding   = errors.New("decoding error")
	ErrWrongPow   = errors.New("wrong proof of work")
	ErrEncryption = errors.New("encryption error")
	ErrDecryption = errors.New("decryption error")
	ErrChunk      = errors.New("chunk error")
)

func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func encryptionError(err error) error {
	return fmt.Errorf("%w: %w", ErrEncryption, err)
}

func decryptionError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecryption, err)
}

func chunkError(err error) error {
	return fmt.Errorf("%w: %w", ErrChunk, err)
}

func decodingError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecoding, err)
}
