// Package tezbox implements the NaCl-box side of a peer session: the
// long-term identity, proof-of-work stamp verification, and the key
// agreement that turns a pair of connection-message chunks into a
// Decipher capability.
package tezbox

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

const (
	PublicKeyLength = 32
	SecretKeyLength = 32
	PowStampLength  = 24
)

// Identity is the local peer's long-term key material. Loaded once at
// startup; immutable for the lifetime of a socket.
type Identity struct {
	PeerID           string
	PublicKey        [PublicKeyLength]byte
	SecretKey        [SecretKeyLength]byte
	ProofOfWorkStamp [PowStampLength]byte
}

type identityDocument struct {
	PeerID           string `json:"peer_id"`
	PublicKey        string `json:"public_key"`
	SecretKey        string `json:"secret_key"`
	ProofOfWorkStamp string `json:"proof_of_work_stamp"`
}

// LoadIdentity reads and validates an identity JSON document from path.
func LoadIdentity(path string) (*Identity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}
	return ParseIdentity(raw)
}

// ParseIdentity validates a raw identity JSON document.
func ParseIdentity(raw []byte) (*Identity, error) {
	var doc identityDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse identity: %w", err)
	}

	id := &Identity{PeerID: doc.PeerID}
	if err := decodeHexInto(id.PublicKey[:], doc.PublicKey, "public_key"); err != nil {
		return nil, err
	}
	if err := decodeHexInto(id.SecretKey[:], doc.SecretKey, "secret_key"); err != nil {
		return nil, err
	}
	if err := decodeHexInto(id.ProofOfWorkStamp[:], doc.ProofOfWorkStamp, "proof_of_work_stamp"); err != nil {
		return nil, err
	}
	return id, nil
}

// DefaultIdentity returns the identity embedded in the binary, used when
// no identity file is configured.
func DefaultIdentity() *Identity {
	id, err := ParseIdentity([]byte(defaultIdentityJSON))
	if err != nil {
		panic("embedded identity is malformed: " + err.Error())
	}
	return id
}

const defaultIdentityJSON = `{
	"peer_id": "idtJunqYgD1M6r6o2qvGpiD5xKZWRu",
	"public_key": "7e8108e598b056b52cb430ee0e5e7ffd080b1b6bd9c9ad17dd9c44e2ced7fd75",
	"secret_key": "a9f36be41dd4cfec7ec1e4a134d660254006e0ce16ae272f10dbc19a3097adcf",
	"proof_of_work_stamp": "79eb7e72262e067a7e4e65fedacef484be52a35de686d1c8"
}`

func decodeHexInto(dst []byte, src, field string) error {
	raw, err := hex.DecodeString(src)
	if err != nil {
		return fmt.Errorf("identity %s: %w", field, err)
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("identity %s: got %d bytes, want %d", field, len(raw), len(dst))
	}
	copy(dst, raw)
	return nil
}
