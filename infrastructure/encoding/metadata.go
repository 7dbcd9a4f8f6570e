package encoding

// MetadataMessage carries the two post-handshake capability flags.
type MetadataMessage struct {
	DisableMempool bool
	PrivateNode    bool
}

func (m *MetadataMessage) MarshalBinary() ([]byte, error) {
	return []byte{encodeBool(m.DisableMempool), encodeBool(m.PrivateNode)}, nil
}

// DecodeMetadataMessage decodes one metadata message from buf.
func DecodeMetadataMessage(buf []byte) (*MetadataMessage, error) {
	r := newReader(buf)
	disable, err := r.readByte()
	if err != nil {
		return nil, err
	}
	private, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}
	return &MetadataMessage{
		DisableMempool: disable != 0,
		PrivateNode:    private != 0,
	}, nil
}

func encodeBool(b bool) byte {
	if b {
		return 0xff
	}
	return 0x00
}
