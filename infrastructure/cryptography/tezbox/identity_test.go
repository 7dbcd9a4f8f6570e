package tezbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity([]byte(defaultIdentityJSON))
	require.NoError(t, err)
	assert.Equal(t, "idtJunqYgD1M6r6o2qvGpiD5xKZWRu", id.PeerID)
	assert.Equal(t, byte(0x7e), id.PublicKey[0])
	assert.Equal(t, byte(0xa9), id.SecretKey[0])
	assert.Equal(t, byte(0x79), id.ProofOfWorkStamp[0])
}

func TestParseIdentity_BadHex(t *testing.T) {
	_, err := ParseIdentity([]byte(`{"public_key": "zz"}`))
	assert.Error(t, err)
}

func TestParseIdentity_WrongLength(t *testing.T) {
	_, err := ParseIdentity([]byte(`{"public_key": "7e81"}`))
	assert.Error(t, err)
}

func TestLoadIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte(defaultIdentityJSON), 0o600))

	id, err := LoadIdentity(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultIdentity(), id)
}

func TestLoadIdentity_Missing(t *testing.T) {
	_, err := LoadIdentity(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
