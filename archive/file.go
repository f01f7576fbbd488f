package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// File is an archive backed by a seekable file. It owns the file handle;
// Close must be called to release it.
type File struct {
	stream
	f *os.File
}

// fileMedium uses the file's own cursor, so Seek can verify where the
// operating system actually left it.
type fileMedium struct {
	f *os.File
}

func (m fileMedium) transfer(p []byte, loading bool) (int, error) {
	if loading {
		return io.ReadFull(m.f, p)
	}
	return m.f.Write(p)
}

func (m fileMedium) seek(abs int64) (int64, error) {
	if _, err := m.f.Seek(abs, io.SeekStart); err != nil {
		return 0, err
	}
	return m.f.Seek(0, io.SeekCurrent)
}

func (m fileMedium) size() (int64, error) {
	cur, err := m.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := m.f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := m.f.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}

// OpenFile opens the package file at path for loading.
func OpenFile(path string, opts ...Option) (*File, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	a, err := NewFile(f, true, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return a, nil
}

// CreateFile creates (or truncates) the file at path for saving.
func CreateFile(path string, opts ...Option) (*File, error) {
	f, err := os.Create(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrIO, path, err)
	}
	a, err := NewFile(f, false, opts...)
	if err != nil {
		f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return a, nil
}

// NewFile wraps an open file. The archive takes ownership of f.
//
// The initial position is derived from the file's cursor. With
// WithPositionOffset, a cursor before the offset is moved to position 0.
func NewFile(f *os.File, loading bool, opts ...Option) (*File, error) {
	if f == nil {
		return nil, errors.New("archive: file is nil")
	}
	cfg := newConfig(opts)
	a := &File{
		stream: newStream(fileMedium{f: f}, loading, cfg),
		f:      f,
	}
	cur, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, f.Name(), err)
	}
	a.pos = cur - cfg.offset
	if a.pos < 0 {
		if err := a.Seek(0); err != nil {
			return nil, err
		}
	}
	a.log().Debug("archive opened", "path", f.Name(), "loading", loading, "offset", cfg.offset)
	return a, nil
}

// Name returns the name of the underlying file.
func (a *File) Name() string {
	if a.f == nil {
		return ""
	}
	return a.f.Name()
}

// Close releases the file handle. It is safe to call more than once.
func (a *File) Close() error {
	if a.f == nil {
		return nil
	}
	var err error
	if !a.loading {
		err = a.f.Sync()
	}
	if cerr := a.f.Close(); err == nil {
		err = cerr
	}
	a.f = nil
	a.m = closedMedium{}
	return err
}

// closedMedium fails every operation after Close.
type closedMedium struct{}

func (closedMedium) transfer([]byte, bool) (int, error) { return 0, os.ErrClosed }
func (closedMedium) seek(int64) (int64, error)          { return 0, os.ErrClosed }
func (closedMedium) size() (int64, error)               { return 0, os.ErrClosed }

// Interface compliance.
var (
	_ Archive                    = (*File)(nil)
	_ interface{ Close() error } = (*File)(nil)
)
