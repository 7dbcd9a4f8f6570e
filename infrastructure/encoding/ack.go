package encoding

import "fmt"

// AckKind discriminates the three acknowledge outcomes.
type AckKind uint8

const (
	AckKindAck AckKind = iota
	AckKindNack
	AckKindNackV0
)

const (
	ackTagAck    = 0x00
	ackTagNack   = 0x01
	ackTagNackV0 = 0xff
)

func (k AckKind) String() string {
	switch k {
	case AckKindAck:
		return "ack"
	case AckKindNack:
		return "nack"
	default:
		return "nack-v0"
	}
}

// AckMessage closes the handshake: the peer either accepts the session or
// refuses it, optionally pointing at alternative peers.
type AckMessage struct {
	Kind           AckKind
	Motive         uint16
	PotentialPeers []string
}

// Ack builds an accepting acknowledge message.
func Ack() *AckMessage {
	return &AckMessage{Kind: AckKindAck}
}

func (m *AckMessage) MarshalBinary() ([]byte, error) {
	w := &writer{}
	switch m.Kind {
	case AckKindAck:
		w.writeByte(ackTagAck)
	case AckKindNackV0:
		w.writeByte(ackTagNackV0)
	case AckKindNack:
		w.writeByte(ackTagNack)
		w.writeUint16(m.Motive)
		peers := &writer{}
		for _, p := range m.PotentialPeers {
			peers.writeDynamic([]byte(p))
		}
		w.writeDynamic(peers.buf)
	default:
		return nil, fmt.Errorf("unknown ack kind %d", m.Kind)
	}
	return w.buf, nil
}

// DecodeAckMessage decodes one acknowledge message from buf.
func DecodeAckMessage(buf []byte) (*AckMessage, error) {
	r := newReader(buf)
	tag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	m := &AckMessage{}
	switch tag {
	case ackTagAck:
		m.Kind = AckKindAck
	case ackTagNackV0:
		m.Kind = AckKindNackV0
	case ackTagNack:
		m.Kind = AckKindNack
		if m.Motive, err = r.readUint16(); err != nil {
			return nil, err
		}
		peerBytes, err := r.readDynamic()
		if err != nil {
			return nil, err
		}
		pr := newReader(peerBytes)
		for pr.remaining() > 0 {
			p, err := pr.readDynamic()
			if err != nil {
				return nil, fmt.Errorf("potential peer: %w", err)
			}
			m.PotentialPeers = append(m.PotentialPeers, string(p))
		}
	default:
		return nil, fmt.Errorf("unknown ack tag 0x%02x", tag)
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}
	return m, nil
}
