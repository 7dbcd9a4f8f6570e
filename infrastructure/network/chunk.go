// Package network carries the transport pieces under the protocol core:
// TCP dialing, the connection adapter, peer address validation and the
// length-prefixed chunk framing.
package network

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// ChunkHeaderLength is the size of the big-endian length prefix.
	ChunkHeaderLength = 2
	// MaxChunkLength is the largest ciphertext body one chunk can carry.
	MaxChunkLength = 0xFFFF
)

// BinaryChunk is one wire frame: a 16-bit big-endian length prefix
// followed by that many bytes of ciphertext. A zero-length chunk is valid
// framing.
type BinaryChunk struct {
	raw []byte
}

// NewBinaryChunk frames content into a chunk.
func NewBinaryChunk(content []byte) (BinaryChunk, error) {
	if len(content) > MaxChunkLength {
		return BinaryChunk{}, fmt.Errorf("content of %d bytes exceeds chunk capacity %d", len(content), MaxChunkLength)
	}
	raw := make([]byte, ChunkHeaderLength+len(content))
	binary.BigEndian.PutUint16(raw, uint16(len(content)))
	copy(raw[ChunkHeaderLength:], content)
	return BinaryChunk{raw: raw}, nil
}

// Raw returns the full wire bytes, length prefix included.
func (c BinaryChunk) Raw() []byte {
	return c.raw
}

// Content returns the ciphertext body without the prefix.
func (c BinaryChunk) Content() []byte {
	return c.raw[ChunkHeaderLength:]
}

// ReadBinaryChunk reads exactly one framed chunk from r. Any short read
// surfaces as an error from io.ReadFull.
func ReadBinaryChunk(r io.Reader) (BinaryChunk, error) {
	var sizeBuf [ChunkHeaderLength]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return BinaryChunk{}, err
	}
	size := binary.BigEndian.Uint16(sizeBuf[:])

	raw := make([]byte, ChunkHeaderLength+int(size))
	copy(raw, sizeBuf[:])
	if _, err := io.ReadFull(r, raw[ChunkHeaderLength:]); err != nil {
		return BinaryChunk{}, err
	}
	return BinaryChunk{raw: raw}, nil
}
