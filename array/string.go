package array

import (
	"bytes"

	"github.com/meigma/upkg/archive"
)

// String is a byte array holding NUL-terminated text. The count on the wire
// includes the terminator; an empty string is written as count 0.
type String struct {
	Array[byte]
}

// NewString returns s with its terminator appended.
func NewString(s string) *String {
	str := &String{}
	str.Set(s)
	return str
}

// Set replaces the contents with s plus a terminator, or with nothing when
// s is empty.
func (s *String) Set(v string) {
	s.Empty(0)
	if v == "" {
		return
	}
	s.items = append(s.items, v...)
	s.items = append(s.items, 0)
}

// String returns the text up to the first NUL.
func (s *String) String() string {
	b := s.items
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Serialize streams the count followed by all bytes in a single transfer.
func (s *String) Serialize(ar archive.Archive) error {
	n, err := serializeCount(ar, len(s.items), 1)
	if err != nil {
		return err
	}
	if ar.IsLoading() {
		s.Empty(n)
		s.Add(n)
	}
	return ar.Serialize(s.items)
}
