package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/meigma/upkg/compact"
)

// Package files are little-endian on every platform. The helpers below
// convert explicitly, so they behave the same on big-endian hosts.
var le = binary.LittleEndian

// Byte streams one unsigned byte.
func Byte(ar Archive, v *uint8) error {
	var b [1]byte
	b[0] = *v
	if err := ar.Serialize(b[:]); err != nil {
		return err
	}
	*v = b[0]
	return nil
}

// Int8 streams one signed byte.
func Int8(ar Archive, v *int8) error {
	u := uint8(*v)
	if err := Byte(ar, &u); err != nil {
		return err
	}
	*v = int8(u)
	return nil
}

// Uint16 streams a little-endian 16-bit unsigned integer.
func Uint16(ar Archive, v *uint16) error {
	var b [2]byte
	if !ar.IsLoading() {
		le.PutUint16(b[:], *v)
	}
	if err := ar.Serialize(b[:]); err != nil {
		return err
	}
	*v = le.Uint16(b[:])
	return nil
}

// Int16 streams a little-endian 16-bit signed integer.
func Int16(ar Archive, v *int16) error {
	u := uint16(*v)
	if err := Uint16(ar, &u); err != nil {
		return err
	}
	*v = int16(u)
	return nil
}

// Uint32 streams a little-endian 32-bit unsigned integer.
func Uint32(ar Archive, v *uint32) error {
	var b [4]byte
	if !ar.IsLoading() {
		le.PutUint32(b[:], *v)
	}
	if err := ar.Serialize(b[:]); err != nil {
		return err
	}
	*v = le.Uint32(b[:])
	return nil
}

// Int32 streams a little-endian 32-bit signed integer.
func Int32(ar Archive, v *int32) error {
	u := uint32(*v)
	if err := Uint32(ar, &u); err != nil {
		return err
	}
	*v = int32(u)
	return nil
}

// Float32 streams a little-endian IEEE-754 single precision float.
func Float32(ar Archive, v *float32) error {
	u := math.Float32bits(*v)
	if err := Uint32(ar, &u); err != nil {
		return err
	}
	*v = math.Float32frombits(u)
	return nil
}

// Bool streams a boolean stored as a 32-bit integer. Any nonzero value loads as true.
func Bool(ar Archive, v *bool) error {
	var u uint32
	if *v {
		u = 1
	}
	if err := Uint32(ar, &u); err != nil {
		return err
	}
	*v = u != 0
	return nil
}

// Index streams a compact index.
func Index(ar Archive, v *int32) error {
	if !ar.IsLoading() {
		var buf [compact.MaxLen]byte
		n := compact.Put(buf[:], *v)
		return ar.Serialize(buf[:n])
	}

	start := ar.Pos()
	got, err := compact.Read(archiveByteReader{ar})
	if err != nil {
		if arErr := ar.Err(); arErr != nil {
			return arErr
		}
		return ar.Fail("index", start, fmt.Errorf("%w: %w", ErrFormat, err))
	}
	*v = got
	return nil
}

// FixedChars streams a character field of exactly n bytes. On load the value
// ends at the first NUL; on save it is truncated or NUL-padded to n bytes.
func FixedChars(ar Archive, s *string, n int) error {
	buf := make([]byte, n)
	if !ar.IsLoading() {
		copy(buf, *s)
	}
	if err := ar.Serialize(buf); err != nil {
		return err
	}
	if ar.IsLoading() {
		if i := bytes.IndexByte(buf, 0); i >= 0 {
			buf = buf[:i]
		}
		*s = string(buf)
	}
	return nil
}

type archiveByteReader struct {
	ar Archive
}

func (r archiveByteReader) ReadByte() (byte, error) {
	var b [1]byte
	err := r.ar.Serialize(b[:])
	return b[0], err
}

// Printf writes formatted text to a saving archive. No length prefix or
// terminator is added.
func Printf(ar Archive, format string, args ...any) error {
	if ar.IsLoading() {
		return ErrNotSaving
	}
	return ar.Serialize(fmt.Appendf(nil, format, args...))
}
