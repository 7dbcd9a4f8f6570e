package encoding

import (
	"tezgo/domain/chain"
)

const BlockHashLength = 32

func marshalBlockHeader(w *writer, h *chain.BlockHeader) {
	w.writeUint32(uint32(h.Level))
	w.writeByte(h.Proto)
	w.writeBytes(h.Predecessor[:])
	w.writeUint64(uint64(h.Timestamp))
	w.writeByte(h.ValidationPass)
	w.writeBytes(h.OperationsHash[:])
	fitness := &writer{}
	for _, f := range h.Fitness {
		fitness.writeDynamic(f)
	}
	w.writeDynamic(fitness.buf)
	w.writeBytes(h.Context[:])
	w.writeDynamic(h.ProtocolData)
}

func unmarshalBlockHeader(r *reader) (chain.BlockHeader, error) {
	var h chain.BlockHeader

	level, err := r.readUint32()
	if err != nil {
		return h, err
	}
	h.Level = int32(level)
	if h.Proto, err = r.readByte(); err != nil {
		return h, err
	}
	pred, err := r.readBytes(BlockHashLength)
	if err != nil {
		return h, err
	}
	copy(h.Predecessor[:], pred)
	ts, err := r.readUint64()
	if err != nil {
		return h, err
	}
	h.Timestamp = int64(ts)
	if h.ValidationPass, err = r.readByte(); err != nil {
		return h, err
	}
	ops, err := r.readBytes(BlockHashLength)
	if err != nil {
		return h, err
	}
	copy(h.OperationsHash[:], ops)

	fitnessBytes, err := r.readDynamic()
	if err != nil {
		return h, err
	}
	fr := newReader(fitnessBytes)
	for fr.remaining() > 0 {
		f, err := fr.readDynamic()
		if err != nil {
			return h, err
		}
		h.Fitness = append(h.Fitness, f)
	}

	ctx, err := r.readBytes(BlockHashLength)
	if err != nil {
		return h, err
	}
	copy(h.Context[:], ctx)
	if h.ProtocolData, err = r.readDynamic(); err != nil {
		return h, err
	}
	return h, nil
}

// Chain is the persisted output of the header walk: the ordered headers
// downloaded from the peer, head first, genesis last.
type Chain struct {
	Headers []chain.BlockHeader
}

func (c *Chain) MarshalBinary() ([]byte, error) {
	headers := &writer{}
	for i := range c.Headers {
		one := &writer{}
		marshalBlockHeader(one, &c.Headers[i])
		headers.writeDynamic(one.buf)
	}
	w := &writer{}
	w.writeDynamic(headers.buf)
	return w.buf, nil
}

// DecodeChain decodes a persisted header chain.
func DecodeChain(buf []byte) (*Chain, error) {
	r := newReader(buf)
	listBytes, err := r.readDynamic()
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}
	c := &Chain{}
	lr := newReader(listBytes)
	for lr.remaining() > 0 {
		one, err := lr.readDynamic()
		if err != nil {
			return nil, err
		}
		or := newReader(one)
		h, err := unmarshalBlockHeader(or)
		if err != nil {
			return nil, err
		}
		if err := or.expectEnd(); err != nil {
			return nil, err
		}
		c.Headers = append(c.Headers, h)
	}
	return c, nil
}
