package schema

import (
	"fmt"
	"time"

	"github.com/zyncd/zyncd/wire"
	"github.com/zyncd/zyncd/zyncerr"
)

// Field is one decoded tape entry: the descriptor it was read against
// plus its raw value bytes (empty means "absent").
type Field struct {
	Descriptor Descriptor
	raw        []byte
}

// Present reports whether the field carried a non-zero-length value.
func (f Field) Present() bool { return len(f.raw) > 0 }

// Bytes returns the raw value bytes.
func (f Field) Bytes() []byte { return f.raw }

// String decodes a UTF8 or BARRAY field.
func (f Field) String() string { return string(f.raw) }

// Uint decodes a little-endian unsigned integer field (WORD, ULONG,
// UCHAR, BIT), sized by however many bytes were actually present.
func (f Field) Uint() uint64 {
	var v uint64
	for i, b := range f.raw {
		v |= uint64(b) << (8 * uint(i))
	}
	return v
}

// Time decodes a TIME field as a packed date-time.
func (f Field) Time() (time.Time, error) {
	if len(f.raw) < 5 {
		return time.Time{}, fmt.Errorf("%w: TIME field shorter than 5 bytes", zyncerr.ErrProtocolViolation)
	}
	var p wire.PackedDateTime
	copy(p[:], f.raw[:5])
	return wire.Unpack(p)
}

// Reader walks a tape payload one descriptor at a time, in schema
// order. It is the cursor abstraction design note §9 calls for in place
// of raw pointer/length arithmetic: every Next call checks its own
// remaining length and fails structurally on a short read.
type Reader struct {
	schema Schema
	buf    []byte
	pos    int
}

// NewReader returns a Reader over tape for schema.
func NewReader(s Schema, tape []byte) *Reader {
	return &Reader{schema: s, buf: tape}
}

// Next pops the value for the next descriptor in schema order.
func (r *Reader) Next() (Field, error) {
	if r.pos >= len(r.schema.Descriptors) {
		return Field{}, fmt.Errorf("%w: tape read past end of schema", zyncerr.ErrProtocolViolation)
	}
	d := r.schema.Descriptors[r.pos]
	r.pos++

	if len(r.buf) < 4 {
		return Field{}, fmt.Errorf("%w: tape truncated reading %s length", zyncerr.ErrProtocolViolation, d)
	}
	n := int(wire.Uint32(r.buf))
	r.buf = r.buf[4:]
	if len(r.buf) < n {
		return Field{}, fmt.Errorf("%w: tape truncated reading %s value (want %d, have %d)", zyncerr.ErrProtocolViolation, d, n, len(r.buf))
	}
	val := r.buf[:n]
	r.buf = r.buf[n:]
	return Field{Descriptor: d, raw: val}, nil
}

// Skip advances past the next descriptor without interpreting its
// value, still consuming the 4-byte length prefix and its bytes; the
// cursor moves exactly as it does for Next.
func (r *Reader) Skip() error {
	_, err := r.Next()
	return err
}

// Done reports whether every schema descriptor has been read.
func (r *Reader) Done() bool { return r.pos >= len(r.schema.Descriptors) }

// ReadAll reads every remaining field into a map keyed by abbreviation.
func (r *Reader) ReadAll() (map[string]Field, error) {
	out := make(map[string]Field, len(r.schema.Descriptors)-r.pos)
	for !r.Done() {
		f, err := r.Next()
		if err != nil {
			return nil, err
		}
		out[f.Descriptor.String()] = f
	}
	return out, nil
}

// Writer builds a tape payload field by field, in schema order.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// WriteBytes appends a length-prefixed raw value.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = wire.AppendUint32(w.buf, uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteString appends a length-prefixed UTF8/BARRAY value.
func (w *Writer) WriteString(s string) { w.WriteBytes([]byte(s)) }

// WriteUint appends a length-prefixed little-endian integer using size
// bytes (1 for UCHAR/BIT, 2 for WORD, 4 for ULONG).
func (w *Writer) WriteUint(v uint64, size int) {
	b := make([]byte, size)
	for i := 0; i < size; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	w.WriteBytes(b)
}

// WriteTime appends a length-prefixed packed date-time.
func (w *Writer) WriteTime(t time.Time) {
	p := wire.Pack(t)
	w.WriteBytes(p[:])
}

// WriteAbsent appends a zero-length field, as REDT must be when REND=0.
func (w *Writer) WriteAbsent() {
	w.buf = wire.AppendUint32(w.buf, 0)
}

// Bytes returns the assembled tape.
func (w *Writer) Bytes() []byte { return w.buf }
