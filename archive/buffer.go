package archive

import (
	"fmt"
	"io"
)

// Buffer is an in-memory archive. A loading Buffer reads a fixed slice; a
// saving Buffer grows as it is written and supports seeking back to patch
// earlier bytes.
type Buffer struct {
	stream
	mem *memMedium
}

type memMedium struct {
	data []byte
	off  int64
}

func (m *memMedium) transfer(p []byte, loading bool) (int, error) {
	if loading {
		if m.off >= int64(len(m.data)) {
			return 0, io.EOF
		}
		n := copy(p, m.data[m.off:])
		m.off += int64(n)
		if n < len(p) {
			return n, io.ErrUnexpectedEOF
		}
		return n, nil
	}
	end := m.off + int64(len(p))
	if end > int64(len(m.data)) {
		if end > int64(cap(m.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(m.data))))
			copy(grown, m.data)
			m.data = grown
		} else {
			m.data = m.data[:end]
		}
	}
	n := copy(m.data[m.off:], p)
	m.off += int64(n)
	return n, nil
}

func (m *memMedium) seek(abs int64) (int64, error) {
	if abs < 0 {
		return m.off, fmt.Errorf("negative offset %d", abs)
	}
	m.off = abs
	return m.off, nil
}

func (m *memMedium) size() (int64, error) {
	return int64(len(m.data)), nil
}

// NewReader returns a loading archive over data. The slice is retained;
// callers must not modify it while the archive is in use.
func NewReader(data []byte, opts ...Option) *Buffer {
	cfg := newConfig(opts)
	mem := &memMedium{data: data, off: cfg.offset}
	return &Buffer{stream: newStream(mem, true, cfg), mem: mem}
}

// NewWriter returns an empty saving archive.
func NewWriter(opts ...Option) *Buffer {
	cfg := newConfig(opts)
	mem := &memMedium{off: cfg.offset}
	return &Buffer{stream: newStream(mem, false, cfg), mem: mem}
}

// Bytes returns the archive contents. For a writer this is everything
// written so far, including bytes past the current position.
func (b *Buffer) Bytes() []byte {
	return b.mem.data
}

// Len returns the length of the archive contents.
func (b *Buffer) Len() int {
	return len(b.mem.data)
}

var _ Archive = (*Buffer)(nil)
