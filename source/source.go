// Package source provides random-access byte sources that loading archives
// can read package files from.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ByteSource provides random access to package bytes.
//
// Implementations exist for local files, memory-mapped files and HTTP range
// requests. SourceID must return a stable identifier for the underlying
// content; it keys shared block caches.
type ByteSource interface {
	io.ReaderAt
	Size() int64
	SourceID() string
}

// File is a ByteSource over an open *os.File.
// os.File has ReadAt but not Size, so the size is cached when opened.
type File struct {
	file     *os.File
	size     int64
	sourceID string
}

// OpenFile opens the file at path for random access.
// The returned File must be closed to release the handle.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	src, err := NewFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// NewFile wraps an open file. The caller keeps ownership of f unless Close
// is called on the returned File.
func NewFile(f *os.File) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source file: %w", err)
	}
	return &File{file: f, size: info.Size(), sourceID: FileID(f.Name(), info)}, nil
}

// ReadAt implements io.ReaderAt.
func (s *File) ReadAt(p []byte, off int64) (int, error) {
	return s.file.ReadAt(p, off)
}

// Size returns the file size captured at open time.
func (s *File) Size() int64 {
	return s.size
}

// SourceID identifies the file by absolute path, size and modification time.
func (s *File) SourceID() string {
	return s.sourceID
}

// Close closes the underlying file.
func (s *File) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// FileID returns the source identifier of a local file: its absolute path,
// size and modification time.
func FileID(path string, info os.FileInfo) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return fmt.Sprintf("file:%s:%d:%d", absPath, info.Size(), info.ModTime().UnixNano())
}

// Bytes is a ByteSource over an in-memory slice.
type Bytes struct {
	data     []byte
	sourceID string
}

// NewBytes returns a ByteSource backed by data, identified by id.
func NewBytes(data []byte, id string) *Bytes {
	return &Bytes{data: data, sourceID: id}
}

// ReadAt implements io.ReaderAt over the backing slice.
func (b *Bytes) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("read at %d: negative offset", off)
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the length of the backing slice.
func (b *Bytes) Size() int64 {
	return int64(len(b.data))
}

// SourceID returns the identifier given to NewBytes.
func (b *Bytes) SourceID() string {
	return b.sourceID
}

// Interface compliance.
var (
	_ ByteSource = (*File)(nil)
	_ ByteSource = (*Bytes)(nil)
)
