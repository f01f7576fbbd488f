// Package compact implements the compact index, the variable-length signed
// integer encoding used for array counts, name and object references and tags
// throughout engine package files.
//
// Layout of an encoded value (little-endian bit order within each byte):
//
//	byte 0:    [7] sign  [6] more  [5:0] magnitude bits 0-5
//	bytes 1-3: [7] more  [6:0] next 7 magnitude bits
//	byte 4:    [7:0] remaining magnitude bits (no continuation)
//
// Small magnitudes (< 64) take a single byte. The fifth byte completes a
// 32-bit magnitude, so an encoding is never longer than MaxLen bytes.
package compact

import (
	"errors"
	"io"
	"math"
)

// MaxLen is the maximum encoded length of a compact index in bytes.
const MaxLen = 5

const (
	signBit   = 0x80
	firstMore = 0x40
	firstMask = 0x3f
	nextMore  = 0x80
	nextMask  = 0x7f

	// the fifth byte only holds what is left of a 32-bit magnitude after 6+3*7 bits
	lastLimit = 1 << (32 - 6 - 3*7)
)

// Sentinel errors for compact index decoding.
var (
	// ErrTruncated is returned when the input ends inside an encoded value.
	ErrTruncated = errors.New("compact: truncated index")

	// ErrOverflow is returned when an encoded value does not fit a 32-bit index.
	ErrOverflow = errors.New("compact: index overflows 32 bits")
)

func magnitude(v int32) uint32 {
	if v < 0 {
		return uint32(-int64(v))
	}
	return uint32(v)
}

// Len returns the number of bytes Append would emit for v.
func Len(v int32) int {
	m := magnitude(v) >> 6
	n := 1
	for m != 0 && n < MaxLen {
		n++
		if n == MaxLen {
			break
		}
		m >>= 7
	}
	return n
}

// Append appends the minimal encoding of v to dst and returns the extended slice.
func Append(dst []byte, v int32) []byte {
	m := magnitude(v)

	b := byte(m & firstMask)
	if v < 0 {
		b |= signBit
	}
	m >>= 6
	if m != 0 {
		b |= firstMore
	}
	dst = append(dst, b)

	for i := 1; m != 0; i++ {
		if i == MaxLen-1 {
			dst = append(dst, byte(m))
			break
		}
		b = byte(m & nextMask)
		m >>= 7
		if m != 0 {
			b |= nextMore
		}
		dst = append(dst, b)
	}
	return dst
}

// Put encodes v into buf and returns the number of bytes written.
// It panics if buf is too small; a buffer of MaxLen bytes always suffices.
func Put(buf []byte, v int32) int {
	var tmp [MaxLen]byte
	enc := Append(tmp[:0], v)
	if len(buf) < len(enc) {
		panic("compact: buffer too small")
	}
	return copy(buf, enc)
}

// Decode decodes a compact index from the start of b. It returns the value and
// the number of bytes consumed.
func Decode(b []byte) (int32, int, error) {
	r := sliceReader{b: b}
	v, err := Read(&r)
	if errors.Is(err, io.EOF) {
		err = ErrTruncated
	}
	return v, r.off, err
}

// Read decodes a compact index from r, consuming exactly the encoded bytes.
//
// An io.EOF before the first byte is returned as is; an end of input after
// the first byte is reported as ErrTruncated.
func Read(r io.ByteReader) (int32, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	neg := b&signBit != 0
	m := uint32(b & firstMask)
	more := b&firstMore != 0
	shift := uint(6)

	for i := 1; more; i++ {
		b, err = r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrTruncated
			}
			return 0, err
		}
		if i == MaxLen-1 {
			if b >= lastLimit {
				return 0, ErrOverflow
			}
			m |= uint32(b) << shift
			break
		}
		m |= uint32(b&nextMask) << shift
		shift += 7
		more = b&nextMore != 0
	}

	if neg {
		if m > 1<<31 {
			return 0, ErrOverflow
		}
		return int32(-int64(m)), nil
	}
	if m > math.MaxInt32 {
		return 0, ErrOverflow
	}
	return int32(m), nil
}

type sliceReader struct {
	b   []byte
	off int
}

func (r *sliceReader) ReadByte() (byte, error) {
	if r.off >= len(r.b) {
		return 0, io.EOF
	}
	c := r.b[r.off]
	r.off++
	return c, nil
}
