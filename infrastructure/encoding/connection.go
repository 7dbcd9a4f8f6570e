package encoding

import "fmt"

const (
	PublicKeyLength = 32
	PowStampLength  = 24
	NonceLength     = 24
)

// NetworkVersion announces one supported protocol version of a chain.
type NetworkVersion struct {
	ChainName            string
	DistributedDBVersion uint16
	P2PVersion           uint16
}

// ConnectionMessage is the first frame of a session, exchanged in
// cleartext. The raw wire bytes of both sides feed key agreement, so the
// representation here is definitive.
type ConnectionMessage struct {
	Port             uint16
	PublicKey        [PublicKeyLength]byte
	ProofOfWorkStamp [PowStampLength]byte
	MessageNonce     [NonceLength]byte
	Versions         []NetworkVersion
}

func (m *ConnectionMessage) MarshalBinary() ([]byte, error) {
	w := &writer{}
	w.writeUint16(m.Port)
	w.writeBytes(m.PublicKey[:])
	w.writeBytes(m.ProofOfWorkStamp[:])
	w.writeBytes(m.MessageNonce[:])

	versions := &writer{}
	for _, v := range m.Versions {
		versions.writeDynamic([]byte(v.ChainName))
		versions.writeUint16(v.DistributedDBVersion)
		versions.writeUint16(v.P2PVersion)
	}
	w.writeDynamic(versions.buf)
	return w.buf, nil
}

// DecodeConnectionMessage decodes one connection message from buf.
// A short buffer yields *Underflow.
func DecodeConnectionMessage(buf []byte) (*ConnectionMessage, error) {
	r := newReader(buf)
	m := &ConnectionMessage{}

	var err error
	if m.Port, err = r.readUint16(); err != nil {
		return nil, err
	}
	pk, err := r.readBytes(PublicKeyLength)
	if err != nil {
		return nil, err
	}
	copy(m.PublicKey[:], pk)
	pow, err := r.readBytes(PowStampLength)
	if err != nil {
		return nil, err
	}
	copy(m.ProofOfWorkStamp[:], pow)
	nonce, err := r.readBytes(NonceLength)
	if err != nil {
		return nil, err
	}
	copy(m.MessageNonce[:], nonce)

	versionBytes, err := r.readDynamic()
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}

	vr := newReader(versionBytes)
	for vr.remaining() > 0 {
		name, err := vr.readDynamic()
		if err != nil {
			return nil, fmt.Errorf("version name: %w", err)
		}
		ddb, err := vr.readUint16()
		if err != nil {
			return nil, fmt.Errorf("version ddb: %w", err)
		}
		p2p, err := vr.readUint16()
		if err != nil {
			return nil, fmt.Errorf("version p2p: %w", err)
		}
		m.Versions = append(m.Versions, NetworkVersion{
			ChainName:            string(name),
			DistributedDBVersion: ddb,
			P2PVersion:           p2p,
		})
	}
	return m, nil
}
