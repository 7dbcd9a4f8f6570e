package p2p

import (
	"crypto/rand"
	"io"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"

	"tezgo/infrastructure/cryptography/tezbox"
	"tezgo/infrastructure/encoding"
	"tezgo/infrastructure/network"
)

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func generateIdentity(t *testing.T) *tezbox.Identity {
	t.Helper()
	public, secret, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &tezbox.Identity{
		PublicKey: *public,
		SecretKey: *secret,
	}
}

func connectionChunk(t *testing.T, identity *tezbox.Identity) network.BinaryChunk {
	t.Helper()
	message := &encoding.ConnectionMessage{
		PublicKey:        identity.PublicKey,
		ProofOfWorkStamp: identity.ProofOfWorkStamp,
		Versions:         []encoding.NetworkVersion{{ChainName: "TEST_CHAIN", P2PVersion: 1}},
	}
	raw, err := message.MarshalBinary()
	require.NoError(t, err)
	chunk, err := network.NewBinaryChunk(raw)
	require.NoError(t, err)
	return chunk
}

// sessionPair builds an initiator-side and a responder-side decipher
// state over the same simulated connection exchange.
func sessionPair(t *testing.T) (*DecipherState, *DecipherState) {
	t.Helper()
	initiator := generateIdentity(t)
	responder := generateIdentity(t)
	initiatorChunk := connectionChunk(t, initiator)
	responderChunk := connectionChunk(t, responder)

	initiatorSession, err := initiator.Decipher(initiatorChunk, responderChunk)
	require.NoError(t, err)
	responderSession, err := responder.Decipher(initiatorChunk, responderChunk)
	require.NoError(t, err)
	return NewDecipherState(initiatorSession, true), NewDecipherState(responderSession, false)
}

// pipePair is an in-memory duplex transport.
func pipePair() (*network.TcpAdapter, *network.TcpAdapter) {
	clientConn, serverConn := net.Pipe()
	return &network.TcpAdapter{Conn: clientConn}, &network.TcpAdapter{Conn: serverConn}
}
