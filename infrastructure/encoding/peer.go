package encoding

import (
	"fmt"

	"tezgo/domain/chain"
)

// Sub-message tags of the peer envelope.
const (
	TagGetCurrentBranch            uint16 = 0x10
	TagCurrentBranch               uint16 = 0x11
	TagDeactivate                  uint16 = 0x12
	TagGetCurrentHead              uint16 = 0x13
	TagCurrentHead                 uint16 = 0x14
	TagGetBlockHeaders             uint16 = 0x20
	TagBlockHeader                 uint16 = 0x21
	TagGetOperations               uint16 = 0x30
	TagOperation                   uint16 = 0x31
	TagGetProtocols                uint16 = 0x40
	TagProtocol                    uint16 = 0x41
	TagGetOperationHashesForBlocks uint16 = 0x60
	TagOperationHashesForBlock     uint16 = 0x61
	TagGetOperationsForBlocks      uint16 = 0x62
	TagOperationsForBlocks         uint16 = 0x63
)

// PeerMessage is one typed sub-message of a peer envelope.
type PeerMessage interface {
	Tag() uint16
	marshalBody() ([]byte, error)
}

// PeerMessageResponse is the envelope exchanged after the handshake. One
// envelope wraps one or more tagged sub-messages; each sub-message body is
// length-prefixed so unmodeled tags stay skippable.
type PeerMessageResponse struct {
	Messages []PeerMessage
}

// Envelope wraps sub-messages into one envelope.
func Envelope(messages ...PeerMessage) *PeerMessageResponse {
	return &PeerMessageResponse{Messages: messages}
}

func (m *PeerMessageResponse) MarshalBinary() ([]byte, error) {
	inner := &writer{}
	for _, sub := range m.Messages {
		body, err := sub.marshalBody()
		if err != nil {
			return nil, err
		}
		inner.writeUint16(sub.Tag())
		inner.writeDynamic(body)
	}
	w := &writer{}
	w.writeDynamic(inner.buf)
	return w.buf, nil
}

// DecodePeerMessageResponse decodes one envelope from buf. A short buffer
// yields *Underflow with the exact shortfall.
func DecodePeerMessageResponse(buf []byte) (*PeerMessageResponse, error) {
	r := newReader(buf)
	inner, err := r.readDynamic()
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}

	m := &PeerMessageResponse{}
	ir := newReader(inner)
	for ir.remaining() > 0 {
		tag, err := ir.readUint16()
		if err != nil {
			return nil, fmt.Errorf("sub-message tag: %w", err)
		}
		body, err := ir.readDynamic()
		if err != nil {
			return nil, fmt.Errorf("sub-message body: %w", err)
		}
		sub, err := decodePeerMessage(tag, body)
		if err != nil {
			return nil, err
		}
		m.Messages = append(m.Messages, sub)
	}
	return m, nil
}

func decodePeerMessage(tag uint16, body []byte) (PeerMessage, error) {
	switch tag {
	case TagGetCurrentBranch:
		return decodeGetCurrentBranch(body)
	case TagCurrentBranch:
		return decodeCurrentBranch(body)
	case TagGetBlockHeaders:
		return decodeGetBlockHeaders(body)
	case TagBlockHeader:
		return decodeBlockHeaderMessage(body)
	default:
		return &UnsupportedMessage{MessageTag: tag, Body: body}, nil
	}
}

// GetCurrentBranchMessage asks the peer for its current branch on a chain.
type GetCurrentBranchMessage struct {
	ChainID chain.ChainID
}

func (m *GetCurrentBranchMessage) Tag() uint16 { return TagGetCurrentBranch }

func (m *GetCurrentBranchMessage) marshalBody() ([]byte, error) {
	return append([]byte(nil), m.ChainID[:]...), nil
}

func decodeGetCurrentBranch(body []byte) (*GetCurrentBranchMessage, error) {
	r := newReader(body)
	id, err := r.readBytes(4)
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}
	m := &GetCurrentBranchMessage{}
	copy(m.ChainID[:], id)
	return m, nil
}

// CurrentBranch is a head block header plus a short history of
// predecessor hashes, most recent first.
type CurrentBranch struct {
	CurrentHead chain.BlockHeader
	History     []chain.BlockHash
}

// CurrentBranchMessage announces the peer's current branch on a chain.
type CurrentBranchMessage struct {
	ChainID chain.ChainID
	Branch  CurrentBranch
}

func (m *CurrentBranchMessage) Tag() uint16 { return TagCurrentBranch }

func (m *CurrentBranchMessage) marshalBody() ([]byte, error) {
	w := &writer{}
	w.writeBytes(m.ChainID[:])
	head := &writer{}
	marshalBlockHeader(head, &m.Branch.CurrentHead)
	w.writeDynamic(head.buf)
	for _, h := range m.Branch.History {
		w.writeBytes(h[:])
	}
	return w.buf, nil
}

func decodeCurrentBranch(body []byte) (*CurrentBranchMessage, error) {
	r := newReader(body)
	m := &CurrentBranchMessage{}
	id, err := r.readBytes(4)
	if err != nil {
		return nil, err
	}
	copy(m.ChainID[:], id)

	headBytes, err := r.readDynamic()
	if err != nil {
		return nil, err
	}
	hr := newReader(headBytes)
	if m.Branch.CurrentHead, err = unmarshalBlockHeader(hr); err != nil {
		return nil, err
	}
	if err := hr.expectEnd(); err != nil {
		return nil, err
	}

	if r.remaining()%BlockHashLength != 0 {
		return nil, fmt.Errorf("current branch history is %d bytes, not a whole number of hashes", r.remaining())
	}
	for r.remaining() > 0 {
		raw, err := r.readBytes(BlockHashLength)
		if err != nil {
			return nil, err
		}
		var h chain.BlockHash
		copy(h[:], raw)
		m.Branch.History = append(m.Branch.History, h)
	}
	return m, nil
}

// GetBlockHeadersMessage requests the headers named by Hashes.
type GetBlockHeadersMessage struct {
	Hashes []chain.BlockHash
}

func (m *GetBlockHeadersMessage) Tag() uint16 { return TagGetBlockHeaders }

func (m *GetBlockHeadersMessage) marshalBody() ([]byte, error) {
	hashes := &writer{}
	for _, h := range m.Hashes {
		hashes.writeBytes(h[:])
	}
	w := &writer{}
	w.writeDynamic(hashes.buf)
	return w.buf, nil
}

func decodeGetBlockHeaders(body []byte) (*GetBlockHeadersMessage, error) {
	r := newReader(body)
	hashBytes, err := r.readDynamic()
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}
	if len(hashBytes)%BlockHashLength != 0 {
		return nil, fmt.Errorf("block hash list is %d bytes, not a whole number of hashes", len(hashBytes))
	}
	m := &GetBlockHeadersMessage{}
	hr := newReader(hashBytes)
	for hr.remaining() > 0 {
		raw, _ := hr.readBytes(BlockHashLength)
		var h chain.BlockHash
		copy(h[:], raw)
		m.Hashes = append(m.Hashes, h)
	}
	return m, nil
}

// BlockHeaderMessage carries one requested block header.
type BlockHeaderMessage struct {
	Header chain.BlockHeader
}

func (m *BlockHeaderMessage) Tag() uint16 { return TagBlockHeader }

func (m *BlockHeaderMessage) marshalBody() ([]byte, error) {
	one := &writer{}
	marshalBlockHeader(one, &m.Header)
	w := &writer{}
	w.writeDynamic(one.buf)
	return w.buf, nil
}

func decodeBlockHeaderMessage(body []byte) (*BlockHeaderMessage, error) {
	r := newReader(body)
	headerBytes, err := r.readDynamic()
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}
	hr := newReader(headerBytes)
	m := &BlockHeaderMessage{}
	if m.Header, err = unmarshalBlockHeader(hr); err != nil {
		return nil, err
	}
	if err := hr.expectEnd(); err != nil {
		return nil, err
	}
	return m, nil
}

// UnsupportedMessage preserves a sub-message this node does not model.
// The bootstrap layer ignores these with a warning.
type UnsupportedMessage struct {
	MessageTag uint16
	Body       []byte
}

func (m *UnsupportedMessage) Tag() uint16 { return m.MessageTag }

func (m *UnsupportedMessage) marshalBody() ([]byte, error) {
	return m.Body, nil
}
