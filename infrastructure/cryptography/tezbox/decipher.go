package tezbox

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/box"

	"tezgo/application"
	"tezgo/infrastructure/encoding"
	"tezgo/infrastructure/network"
)

// BoxZeroBytes is the NaCl zero-padding convention of crypto_box; the
// largest plaintext fitting one chunk leaves this much headroom.
const BoxZeroBytes = 32

// ErrDecryptionFailed reports an AEAD authentication failure.
var ErrDecryptionFailed = errors.New("box open failed")

// Decipher is the symmetric session derived from a connection-message
// exchange. It is stateless per call: the nonce comes entirely from the
// NonceAddition, so a failed call leaves nothing to undo.
type Decipher struct {
	sharedKey      [32]byte
	initiatorNonce [encoding.NonceLength]byte
	responderNonce [encoding.NonceLength]byte
}

// Decipher runs key agreement over the two full wire-level connection
// chunks, initiator first. The local identity must have authored one of
// them; the other side's public key is taken from the opposite chunk.
func (id *Identity) Decipher(initiatorChunk, responderChunk network.BinaryChunk) (*Decipher, error) {
	initiator, err := encoding.DecodeConnectionMessage(initiatorChunk.Content())
	if err != nil {
		return nil, fmt.Errorf("initiator connection message: %w", err)
	}
	responder, err := encoding.DecodeConnectionMessage(responderChunk.Content())
	if err != nil {
		return nil, fmt.Errorf("responder connection message: %w", err)
	}

	var peerKey [PublicKeyLength]byte
	switch {
	case bytes.Equal(initiator.PublicKey[:], id.PublicKey[:]):
		peerKey = responder.PublicKey
	case bytes.Equal(responder.PublicKey[:], id.PublicKey[:]):
		peerKey = initiator.PublicKey
	default:
		return nil, errors.New("neither connection message carries the local public key")
	}

	d := &Decipher{}
	box.Precompute(&d.sharedKey, &peerKey, &id.SecretKey)

	// Both sides hash the same transcript, so both derive the same pair
	// of direction base nonces.
	digest := blake2b.Sum512(append(append([]byte(nil), initiatorChunk.Raw()...), responderChunk.Raw()...))
	copy(d.initiatorNonce[:], digest[:encoding.NonceLength])
	copy(d.responderNonce[:], digest[encoding.NonceLength:2*encoding.NonceLength])
	return d, nil
}

// Encrypt seals plaintext under the nonce selected by n.
func (d *Decipher) Encrypt(plaintext []byte, n application.NonceAddition) ([]byte, error) {
	nonce := d.nonceFor(n)
	return box.SealAfterPrecomputation(nil, plaintext, &nonce, &d.sharedKey), nil
}

// Decrypt opens ciphertext under the nonce selected by n.
func (d *Decipher) Decrypt(ciphertext []byte, n application.NonceAddition) ([]byte, error) {
	nonce := d.nonceFor(n)
	plaintext, ok := box.OpenAfterPrecomputation(nil, ciphertext, &nonce, &d.sharedKey)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// nonceFor advances the direction's base nonce by the counter, big-endian
// with carry propagating leftward.
func (d *Decipher) nonceFor(n application.NonceAddition) [24]byte {
	nonce := d.initiatorNonce
	if n.Direction == application.NonceResponder {
		nonce = d.responderNonce
	}

	counter := n.Counter
	for i := len(nonce) - 1; i >= 0 && counter > 0; i-- {
		sum := uint64(nonce[i]) + (counter & 0xff)
		nonce[i] = byte(sum)
		counter = (counter >> 8) + (sum >> 8)
	}
	return nonce
}
