// Package encoding implements the binary representation of every message
// the peer protocol exchanges. Decoders report a shortfall of input with
// *Underflow so a caller buffering a fragmented stream knows exactly how
// many bytes are still missing.
package encoding

import (
	"encoding/binary"
	"fmt"
)

// Underflow reports that decoding needs Bytes more input than it was given.
type Underflow struct {
	Bytes int
}

func (u *Underflow) Error() string {
	return fmt.Sprintf("underflow: need %d more bytes", u.Bytes)
}

// reader walks a byte buffer and converts shortfalls into *Underflow.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) need(n int) error {
	if r.remaining() < n {
		return &Underflow{Bytes: n - r.remaining()}
	}
	return nil
}

func (r *reader) readByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) readUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) readUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) readUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

func (r *reader) readBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:])
	r.off += n
	return out, nil
}

// readDynamic reads a u32-BE-length-prefixed blob.
func (r *reader) readDynamic() ([]byte, error) {
	size, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	return r.readBytes(int(size))
}

// expectEnd fails when decoded input leaves trailing bytes. One buffer is
// one message.
func (r *reader) expectEnd() error {
	if r.remaining() != 0 {
		return fmt.Errorf("%d trailing bytes after message", r.remaining())
	}
	return nil
}

// writer accumulates the big-endian representation of one message.
type writer struct {
	buf []byte
}

func (w *writer) writeByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *writer) writeUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *writer) writeUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *writer) writeUint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *writer) writeBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// writeDynamic writes a u32-BE-length-prefixed blob.
func (w *writer) writeDynamic(b []byte) {
	w.writeUint32(uint32(len(b)))
	w.writeBytes(b)
}
