package bootstrap

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tezgo/domain/chain"
	"tezgo/infrastructure/encoding"
)

var testChainID = chain.ChainID{0x9c, 0xae, 0xca, 0xb9}

func hash(b byte) chain.BlockHash {
	var h chain.BlockHash
	h[0] = b
	return h
}

func headerAt(level int32, predecessor chain.BlockHash) chain.BlockHeader {
	return chain.BlockHeader{
		Level:       level,
		Predecessor: predecessor,
		Timestamp:   1574946133,
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// scriptedConn serves canned envelopes and records everything written.
// A respond hook, when set, computes the next incoming envelope from the
// latest write.
type scriptedConn struct {
	incoming []*encoding.PeerMessageResponse
	written  []*encoding.PeerMessageResponse
	respond  func(*encoding.PeerMessageResponse) *encoding.PeerMessageResponse
}

func (c *scriptedConn) Read() (*encoding.PeerMessageResponse, error) {
	if len(c.incoming) == 0 {
		return nil, io.EOF
	}
	next := c.incoming[0]
	c.incoming = c.incoming[1:]
	return next, nil
}

func (c *scriptedConn) Write(message *encoding.PeerMessageResponse) error {
	c.written = append(c.written, message)
	if c.respond != nil {
		if reply := c.respond(message); reply != nil {
			c.incoming = append(c.incoming, reply)
		}
	}
	return nil
}

// memStore captures persisted headers.
type memStore struct {
	headers  []chain.BlockHeader
	persists int
}

func (s *memStore) Persist(headers []chain.BlockHeader) error {
	s.headers = headers
	s.persists++
	return nil
}

func branchEnvelope(id chain.ChainID, headLevel int32, history ...chain.BlockHash) *encoding.PeerMessageResponse {
	return encoding.Envelope(&encoding.CurrentBranchMessage{
		ChainID: id,
		Branch: encoding.CurrentBranch{
			CurrentHead: headerAt(headLevel, history[len(history)-1]),
			History:     history,
		},
	})
}

func TestState_AsksForBranchFirst(t *testing.T) {
	conn := &scriptedConn{}
	state := NewState(conn, testChainID, &memStore{}, discardLogger())

	require.NoError(t, state.Run())
	assert.Equal(t, PhaseAskedRemoteBranch, state.Phase())
	require.Len(t, conn.written, 1)
	request, ok := conn.written[0].Messages[0].(*encoding.GetCurrentBranchMessage)
	require.True(t, ok)
	assert.Equal(t, testChainID, request.ChainID)
}

func TestState_AnswersSymmetricBranchRequest(t *testing.T) {
	// the peer asks before answering; we reply with genesis and keep waiting
	conn := &scriptedConn{
		incoming: []*encoding.PeerMessageResponse{
			encoding.Envelope(&encoding.GetCurrentBranchMessage{ChainID: testChainID}),
			branchEnvelope(testChainID, 2, hash(0x02), hash(0x01), hash(0x00)),
		},
	}
	state := NewState(conn, testChainID, &memStore{}, discardLogger())

	require.NoError(t, state.Run()) // Initial: sends our request
	require.NoError(t, state.Run()) // peer's request arrives
	assert.Equal(t, PhaseAskedRemoteBranch, state.Phase())

	require.Len(t, conn.written, 2)
	reply, ok := conn.written[1].Messages[0].(*encoding.CurrentBranchMessage)
	require.True(t, ok)
	assert.Equal(t, testChainID, reply.ChainID)
	assert.Equal(t, int32(0), reply.Branch.CurrentHead.Level)
	assert.Empty(t, reply.Branch.History)

	require.NoError(t, state.Run()) // peer's branch arrives
	assert.Equal(t, PhaseReceivedRemoteBranch, state.Phase())
}

func TestState_UnknownChainIsTerminal(t *testing.T) {
	conn := &scriptedConn{
		incoming: []*encoding.PeerMessageResponse{
			branchEnvelope(chain.ChainID{0xde, 0xad, 0xbe, 0xef}, 2, hash(0x02), hash(0x01), hash(0x00)),
		},
	}
	state := NewState(conn, testChainID, &memStore{}, discardLogger())

	require.NoError(t, state.Run())
	require.NoError(t, state.Run())
	assert.Equal(t, PhaseUnknownChain, state.Phase())
	assert.True(t, state.Terminal())

	// terminal states self-loop
	require.NoError(t, state.Run())
	assert.Equal(t, PhaseUnknownChain, state.Phase())
}

func TestState_IgnoresUnrelatedSubMessages(t *testing.T) {
	conn := &scriptedConn{
		incoming: []*encoding.PeerMessageResponse{
			encoding.Envelope(
				&encoding.UnsupportedMessage{MessageTag: encoding.TagCurrentHead, Body: []byte{0x01}},
				&encoding.UnsupportedMessage{MessageTag: encoding.TagGetOperations},
				&encoding.UnsupportedMessage{MessageTag: encoding.TagDeactivate},
			),
			branchEnvelope(testChainID, 2, hash(0x02), hash(0x01), hash(0x00)),
		},
	}
	logger, hook := logrustest.NewNullLogger()
	state := NewState(conn, testChainID, &memStore{}, logger)

	require.NoError(t, state.Run())
	require.NoError(t, state.Run()) // only ignorable content: stays asking
	assert.Equal(t, PhaseAskedRemoteBranch, state.Phase())

	// each ignored sub-message is warned with its request/response kind
	var kinds []string
	for _, entry := range hook.Entries {
		if entry.Level == logrus.WarnLevel {
			kinds = append(kinds, entry.Data["kind"].(string))
		}
	}
	assert.Equal(t, []string{"response", "request", "unclassified"}, kinds)

	require.NoError(t, state.Run())
	assert.Equal(t, PhaseReceivedRemoteBranch, state.Phase())
}

// headerServer simulates a peer serving a contiguous chain downward.
func headerServer(headers map[chain.BlockHash]chain.BlockHeader) func(*encoding.PeerMessageResponse) *encoding.PeerMessageResponse {
	return func(request *encoding.PeerMessageResponse) *encoding.PeerMessageResponse {
		get, ok := request.Messages[0].(*encoding.GetBlockHeadersMessage)
		if !ok {
			return nil
		}
		header, ok := headers[get.Hashes[0]]
		if !ok {
			return nil
		}
		return encoding.Envelope(&encoding.BlockHeaderMessage{Header: header})
	}
}

func TestState_WalkTerminatesAtGenesis(t *testing.T) {
	// history [h4 h3 h2 h1 h0]: the walk seeds from index len−2
	hashes := []chain.BlockHash{hash(0x04), hash(0x03), hash(0x02), hash(0x01), hash(0x00)}
	headers := map[chain.BlockHash]chain.BlockHeader{}
	for i := 0; i < len(hashes)-1; i++ {
		level := int32(len(hashes) - 1 - i)
		headers[hashes[i]] = headerAt(level, hashes[i+1])
	}
	headers[hashes[len(hashes)-1]] = headerAt(0, hash(0xee))

	store := &memStore{}
	conn := &scriptedConn{respond: headerServer(headers)}
	fetched := 0
	state := NewState(conn, testChainID, store, discardLogger()).WithHeaderHook(func() { fetched++ })

	conn.incoming = []*encoding.PeerMessageResponse{branchEnvelope(testChainID, 4, hashes...)}
	require.NoError(t, state.Run())
	require.NoError(t, state.Run())
	require.Equal(t, PhaseReceivedRemoteBranch, state.Phase())

	require.NoError(t, state.Run())
	assert.Equal(t, PhaseFinish, state.Phase())
	assert.True(t, state.Terminal())

	// seed is history[len−2] = h1 at level 1, so the chain is [1, 0]
	require.Equal(t, 2, len(store.headers))
	assert.Equal(t, 1, store.persists)
	assert.Equal(t, 2, fetched)
	assert.Equal(t, int32(1), store.headers[0].Level)
	assert.Equal(t, int32(0), store.headers[1].Level)
	for i := 0; i < len(store.headers)-1; i++ {
		assert.Equal(t, store.headers[i].Predecessor, hashForHeader(t, headers, store.headers[i+1]))
	}
}

// hashForHeader resolves a header back to the hash the server keyed it by.
func hashForHeader(t *testing.T, headers map[chain.BlockHash]chain.BlockHeader, header chain.BlockHeader) chain.BlockHash {
	t.Helper()
	for h, candidate := range headers {
		if candidate.Level == header.Level && candidate.Predecessor == header.Predecessor {
			return h
		}
	}
	t.Fatalf("header at level %d not found", header.Level)
	return chain.BlockHash{}
}

func TestState_ShortHistoryFails(t *testing.T) {
	conn := &scriptedConn{
		incoming: []*encoding.PeerMessageResponse{
			branchEnvelope(testChainID, 1, hash(0x01)),
		},
	}
	state := NewState(conn, testChainID, &memStore{}, discardLogger())

	require.NoError(t, state.Run())
	assert.Error(t, state.Run())
}
