package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAckMessage_RoundTrip(t *testing.T) {
	cases := []*AckMessage{
		Ack(),
		{Kind: AckKindNackV0},
		{Kind: AckKindNack, Motive: 3, PotentialPeers: []string{"1.2.3.4:9732", "5.6.7.8:9732"}},
		{Kind: AckKindNack},
	}
	for _, m := range cases {
		raw, err := m.MarshalBinary()
		require.NoError(t, err, m.Kind)

		decoded, err := DecodeAckMessage(raw)
		require.NoError(t, err, m.Kind)
		assert.Equal(t, m, decoded)
	}
}

func TestAckMessage_UnknownTag(t *testing.T) {
	_, err := DecodeAckMessage([]byte{0x42})
	assert.Error(t, err)
}

func TestMetadataMessage_RoundTrip(t *testing.T) {
	for _, m := range []*MetadataMessage{
		{},
		{DisableMempool: true},
		{DisableMempool: true, PrivateNode: true},
	} {
		raw, err := m.MarshalBinary()
		require.NoError(t, err)
		assert.Len(t, raw, 2)

		decoded, err := DecodeMetadataMessage(raw)
		require.NoError(t, err)
		assert.Equal(t, m, decoded)
	}
}
