// Package canon implements the deterministic binary encoding every
// derivation input and output is reduced to before hashing or persisting.
//
// Rules (spec 4.1):
//   - primitive integers are little-endian, fixed width;
//   - variable-length items (strings, byte slices, sequences) are prefixed
//     by a 64-bit unsigned length;
//   - enum variants are tagged by a stable ordinal assigned in declaration
//     order;
//   - sets and maps are encoded as sorted sequences of their element
//     encodings;
//   - floating point and platform-dependent types never appear.
package canon

import (
	"encoding/binary"
	"fmt"
)

// Writer accumulates a canonical encoding into a growable byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer, optionally pre-sizing its buffer.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// PutUint8 appends a single byte.
func (w *Writer) PutUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// PutUint32 appends a fixed-width little-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutUint64 appends a fixed-width little-endian uint64.
func (w *Writer) PutUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// PutBool appends a single byte: 1 for true, 0 for false.
func (w *Writer) PutBool(v bool) {
	if v {
		w.PutUint8(1)
	} else {
		w.PutUint8(0)
	}
}

// PutBytes appends a u64 length prefix followed by the raw bytes.
func (w *Writer) PutBytes(b []byte) {
	w.PutUint64(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// PutString appends a u64 length prefix followed by the UTF-8 bytes.
func (w *Writer) PutString(s string) {
	w.PutBytes([]byte(s))
}

// PutFixed appends raw fixed-width bytes verbatim (e.g. a Hash/Id), with no
// length prefix — the caller's field is already a known, fixed size.
func (w *Writer) PutFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutTag appends an enum ordinal, assigned in declaration order starting
// at zero.
func (w *Writer) PutTag(ordinal uint8) {
	w.PutUint8(ordinal)
}

// PutSeqLen appends a u64 sequence length prefix ahead of elements the
// caller then encodes itself, one after another (sorted first, for a set
// or map).
func (w *Writer) PutSeqLen(n int) {
	w.PutUint64(uint64(n))
}

// Reader consumes a canonical encoding produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many bytes are left to consume.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("canon: short buffer: need %d bytes, have %d", n, r.Remaining())
	}
	return nil
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// Uint32 reads a fixed-width little-endian uint32.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// Uint64 reads a fixed-width little-endian uint64.
func (r *Reader) Uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// Bool reads a single byte and interprets it as a boolean; any nonzero
// value decodes as true.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Bytes reads a u64-length-prefixed byte slice.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint64()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return out, nil
}

// String reads a u64-length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Fixed reads exactly n raw bytes with no length prefix.
func (r *Reader) Fixed(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Tag reads an enum ordinal byte.
func (r *Reader) Tag() (uint8, error) {
	return r.Uint8()
}

// SeqLen reads a u64 sequence length prefix.
func (r *Reader) SeqLen() (int, error) {
	n, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
