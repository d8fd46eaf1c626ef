package domain

import (
	"encoding/binary"
	"errors"
)

// maxFieldLength bounds a single length-prefixed field so a forged length cannot
// trigger a large allocation.
const maxFieldLength = 16 << 20

var errTruncated = errors.New("truncated field")

// AppendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Format: [length (4 bytes)] + [data (length bytes)]
// Panics if data length exceeds the field limit.
func AppendLengthPrefixed(buf []byte, data []byte) []byte {
	if len(data) > maxFieldLength {
		panic("data length exceeds length-prefixed field limit")
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

// FieldReader consumes fixed-size and length-prefixed fields from a byte slice.
//
// The first failure is sticky: every later read returns zero values and Err
// reports the failure, so callers check once after reading a whole structure.
type FieldReader struct {
	buf []byte
	off int
	err error
}

// NewFieldReader creates a FieldReader over data. The slice is not copied.
func NewFieldReader(data []byte) *FieldReader {
	return &FieldReader{buf: data}
}

func (r *FieldReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.buf)-r.off {
		r.err = errTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// Bytes reads exactly n raw bytes.
func (r *FieldReader) Bytes(n int) []byte {
	return r.take(n)
}

// Uint8 reads a single byte.
func (r *FieldReader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Uint32 reads a 4-byte big-endian integer.
func (r *FieldReader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// LengthPrefixed reads a field written by AppendLengthPrefixed. The returned slice
// aliases the underlying buffer.
func (r *FieldReader) LengthPrefixed() []byte {
	n := r.Uint32()
	if r.err != nil {
		return nil
	}
	if n > maxFieldLength {
		r.err = errTruncated
		return nil
	}
	return r.take(int(n))
}

// Offset returns the number of bytes consumed so far.
func (r *FieldReader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *FieldReader) Remaining() int {
	return len(r.buf) - r.off
}

// Err returns the first read failure, if any.
func (r *FieldReader) Err() error {
	return r.err
}
