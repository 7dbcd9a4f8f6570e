package tezbox

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"

	"tezgo/application"
	"tezgo/infrastructure/encoding"
	"tezgo/infrastructure/network"
)

func generateIdentity(t *testing.T) *Identity {
	t.Helper()
	public, secret, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &Identity{
		PublicKey: *public,
		SecretKey: *secret,
	}
}

func connectionChunk(t *testing.T, id *Identity) network.BinaryChunk {
	t.Helper()
	message := &encoding.ConnectionMessage{
		PublicKey:        id.PublicKey,
		ProofOfWorkStamp: id.ProofOfWorkStamp,
		Versions:         []encoding.NetworkVersion{{ChainName: "TEST_CHAIN", P2PVersion: 1}},
	}
	raw, err := message.MarshalBinary()
	require.NoError(t, err)
	chunk, err := network.NewBinaryChunk(raw)
	require.NoError(t, err)
	return chunk
}

func sessionPair(t *testing.T) (*Decipher, *Decipher) {
	t.Helper()
	initiator := generateIdentity(t)
	responder := generateIdentity(t)
	initiatorChunk := connectionChunk(t, initiator)
	responderChunk := connectionChunk(t, responder)

	initiatorSession, err := initiator.Decipher(initiatorChunk, responderChunk)
	require.NoError(t, err)
	responderSession, err := responder.Decipher(initiatorChunk, responderChunk)
	require.NoError(t, err)
	return initiatorSession, responderSession
}

func TestDecipher_RoundTripBothDirections(t *testing.T) {
	initiatorSession, responderSession := sessionPair(t)

	outbound := application.NonceAddition{Direction: application.NonceInitiator, Counter: 0}
	ciphertext, err := initiatorSession.Encrypt([]byte("toward the responder"), outbound)
	require.NoError(t, err)
	plaintext, err := responderSession.Decrypt(ciphertext, outbound)
	require.NoError(t, err)
	assert.Equal(t, []byte("toward the responder"), plaintext)

	inbound := application.NonceAddition{Direction: application.NonceResponder, Counter: 0}
	ciphertext, err = responderSession.Encrypt([]byte("toward the initiator"), inbound)
	require.NoError(t, err)
	plaintext, err = initiatorSession.Decrypt(ciphertext, inbound)
	require.NoError(t, err)
	assert.Equal(t, []byte("toward the initiator"), plaintext)
}

func TestDecipher_CounterSelectsDistinctNonces(t *testing.T) {
	initiatorSession, responderSession := sessionPair(t)

	first, err := initiatorSession.Encrypt([]byte("same payload"), application.NonceAddition{Direction: application.NonceInitiator, Counter: 0})
	require.NoError(t, err)
	second, err := initiatorSession.Encrypt([]byte("same payload"), application.NonceAddition{Direction: application.NonceInitiator, Counter: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// a chunk enciphered under counter 1 does not open under counter 0
	_, err = responderSession.Decrypt(second, application.NonceAddition{Direction: application.NonceInitiator, Counter: 0})
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecipher_DirectionsAreIndependent(t *testing.T) {
	initiatorSession, responderSession := sessionPair(t)

	ciphertext, err := initiatorSession.Encrypt([]byte("payload"), application.NonceAddition{Direction: application.NonceInitiator, Counter: 7})
	require.NoError(t, err)

	_, err = responderSession.Decrypt(ciphertext, application.NonceAddition{Direction: application.NonceResponder, Counter: 7})
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecipher_TamperedCiphertextFails(t *testing.T) {
	initiatorSession, responderSession := sessionPair(t)

	n := application.NonceAddition{Direction: application.NonceInitiator, Counter: 0}
	ciphertext, err := initiatorSession.Encrypt([]byte("payload"), n)
	require.NoError(t, err)

	ciphertext[0] ^= 0x01
	_, err = responderSession.Decrypt(ciphertext, n)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecipher_RejectsForeignChunks(t *testing.T) {
	alice := generateIdentity(t)
	bob := generateIdentity(t)
	carol := generateIdentity(t)

	_, err := carol.Decipher(connectionChunk(t, alice), connectionChunk(t, bob))
	assert.Error(t, err)
}

func TestNonceFor_CarryPropagates(t *testing.T) {
	d := &Decipher{}
	for i := range d.initiatorNonce {
		d.initiatorNonce[i] = 0xff
	}

	nonce := d.nonceFor(application.NonceAddition{Direction: application.NonceInitiator, Counter: 1})
	for _, b := range nonce {
		assert.Equal(t, byte(0x00), b)
	}

	// base nonce is untouched
	assert.Equal(t, byte(0xff), d.initiatorNonce[0])
}
