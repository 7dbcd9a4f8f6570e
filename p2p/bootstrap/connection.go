// Package bootstrap exchanges chain-head information with an
// authenticated peer and walks its history backward, fetching block
// headers until genesis, then persists the assembled chain.
package bootstrap

import (
	"fmt"
	"os"

	"tezgo/domain/chain"
	"tezgo/infrastructure/encoding"
)

// Connection is the typed duplex channel the bootstrap dialogue runs
// over; a trusted connection carrying peer envelopes satisfies it.
type Connection interface {
	Read() (*encoding.PeerMessageResponse, error)
	Write(message *encoding.PeerMessageResponse) error
}

// HeaderStore persists the downloaded header chain.
type HeaderStore interface {
	Persist(headers []chain.BlockHeader) error
}

// FileStore writes the framed header list to a single file.
type FileStore struct {
	Path string
}

func (s *FileStore) Persist(headers []chain.BlockHeader) error {
	data, err := (&encoding.Chain{Headers: headers}).MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode header chain: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("persist header chain: %w", err)
	}
	return nil
}
