package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tezgo/domain/chain"
	"tezgo/infrastructure/encoding"
)

func TestRequestsAndResponses_SplitEnvelope(t *testing.T) {
	branchRequest := &encoding.GetCurrentBranchMessage{ChainID: testChainID}
	headersRequest := &encoding.GetBlockHeadersMessage{Hashes: []chain.BlockHash{hash(0x01)}}
	header := &encoding.BlockHeaderMessage{Header: headerAt(0, hash(0x00))}
	operation := &encoding.UnsupportedMessage{MessageTag: encoding.TagOperation, Body: []byte{0x01}}
	deactivate := &encoding.UnsupportedMessage{MessageTag: encoding.TagDeactivate}

	envelope := encoding.Envelope(branchRequest, header, headersRequest, operation, deactivate)

	requests := Requests(envelope)
	require.Len(t, requests, 2)
	assert.Same(t, encoding.PeerMessage(branchRequest), requests[0])
	assert.Same(t, encoding.PeerMessage(headersRequest), requests[1])

	responses := Responses(envelope)
	require.Len(t, responses, 2)
	assert.Same(t, encoding.PeerMessage(header), responses[0])
	assert.Same(t, encoding.PeerMessage(operation), responses[1])
}

func TestRequestsAndResponses_EmptyEnvelope(t *testing.T) {
	envelope := encoding.Envelope()
	assert.Empty(t, Requests(envelope))
	assert.Empty(t, Responses(envelope))
}
