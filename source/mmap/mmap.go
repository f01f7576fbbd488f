// Package mmap provides a memory-mapped ByteSource for local package files.
// On platforms without mmap support the file is read into memory instead.
package mmap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/meigma/upkg/source"
)

// ErrTooLarge is returned when a file does not fit in the address space.
var ErrTooLarge = errors.New("mmap: file exceeds address space")

// File is a read-only view of a file's contents. It is safe for concurrent
// use; Close waits for in-flight reads.
type File struct {
	mu       sync.RWMutex
	data     []byte
	mapped   bool
	closed   bool
	sourceID string
}

// Open maps the file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mmap: stat %s: %w", path, err)
	}
	data, mapped, err := mapFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("mmap: map %s: %w", path, err)
	}
	return &File{data: data, mapped: mapped, sourceID: source.FileID(path, info)}, nil
}

// ReadAt implements io.ReaderAt.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, os.ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("read at %d: negative offset", off)
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the mapped length.
func (m *File) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.data))
}

// SourceID identifies the file the same way source.File does, so both
// share cache entries.
func (m *File) SourceID() string {
	return m.sourceID
}

// Close releases the mapping. It is safe to call more than once.
func (m *File) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	if !m.mapped {
		return nil
	}
	if err := unmap(data); err != nil {
		return fmt.Errorf("mmap: unmap: %w", err)
	}
	return nil
}

var _ source.ByteSource = (*File)(nil)
