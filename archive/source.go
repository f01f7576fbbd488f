package archive

import "io"

// Source is a read-only archive over a ByteSource, such as a memory-mapped
// file, an HTTP range source or a block-cached wrapper of either.
type Source struct {
	stream
	src ByteSource
}

type sourceMedium struct {
	src ByteSource
	off int64
}

func (m *sourceMedium) transfer(p []byte, loading bool) (int, error) {
	if !loading {
		return 0, ErrReadOnly
	}
	n, err := m.src.ReadAt(p, m.off)
	m.off += int64(n)
	if n == len(p) {
		return n, nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

func (m *sourceMedium) seek(abs int64) (int64, error) {
	m.off = abs
	return m.off, nil
}

func (m *sourceMedium) size() (int64, error) {
	return m.src.Size(), nil
}

// NewSource returns a loading archive reading from src.
func NewSource(src ByteSource, opts ...Option) *Source {
	cfg := newConfig(opts)
	m := &sourceMedium{src: src, off: cfg.offset}
	return &Source{stream: newStream(m, true, cfg), src: src}
}

// ByteSource returns the underlying source.
func (s *Source) ByteSource() ByteSource {
	return s.src
}

var _ Archive = (*Source)(nil)
