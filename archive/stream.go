package archive

import (
	"fmt"
	"log/slog"

	"github.com/meigma/upkg/internal/sizing"
)

// medium is the raw storage behind an archive. transfer and seek operate on
// the medium's own cursor in absolute offsets.
type medium interface {
	// transfer reads into p (loading) or writes p (saving) at the cursor and
	// returns the number of bytes moved.
	transfer(p []byte, loading bool) (int, error)

	// seek moves the cursor to abs and returns the offset the medium
	// actually reports afterwards.
	seek(abs int64) (int64, error)

	// size returns the medium length without moving the cursor.
	size() (int64, error)
}

// stream implements Archive on top of a medium. Concrete archives embed it.
type stream struct {
	m        medium
	loading  bool
	format   Format
	offset   int64
	pos      int64
	stopper  int64
	err      error
	logger   *slog.Logger
	hook     ReferenceHook
	resolver Resolver
}

func newStream(m medium, loading bool, cfg config) stream {
	return stream{
		m:        m,
		loading:  loading,
		format:   cfg.format,
		offset:   cfg.offset,
		logger:   cfg.logger,
		hook:     cfg.hook,
		resolver: cfg.resolver,
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (s *stream) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.logger
}

func (s *stream) fail(op string, offset int64, err error) error {
	e := &Error{Op: op, Offset: offset, Err: err}
	s.err = e
	s.log().Debug("archive failed", "op", op, "offset", offset, "error", err)
	return e
}

// Serialize implements Archive.
func (s *stream) Serialize(p []byte) error {
	if s.err != nil {
		return s.err
	}
	start := s.pos
	end, ok := sizing.AddInt64(start, int64(len(p)))
	if !ok {
		return s.fail("serialize", start, fmt.Errorf("%w: position overflow", ErrBounds))
	}
	if s.stopper > 0 && end > s.stopper {
		return s.fail("serialize", start,
			fmt.Errorf("%w: %d bytes would end at %d, stopper at %d", ErrStopper, len(p), end, s.stopper))
	}
	if len(p) == 0 {
		return nil
	}

	n, err := s.m.transfer(p, s.loading)
	s.pos += int64(n)
	if n != len(p) {
		if err == nil {
			err = fmt.Errorf("%w: %d of %d bytes", ErrShortTransfer, n, len(p))
		} else {
			err = fmt.Errorf("%w: %d of %d bytes: %w", ErrShortTransfer, n, len(p), err)
		}
		return s.fail("serialize", start, err)
	}
	return nil
}

// Seek implements Archive.
func (s *stream) Seek(pos int64) error {
	if s.err != nil {
		return s.err
	}
	abs, ok := sizing.AddInt64(pos, s.offset)
	if !ok {
		return s.fail("seek", s.pos, fmt.Errorf("%w: cannot seek to %d", ErrBounds, pos))
	}
	actual, err := s.m.seek(abs)
	if err != nil {
		return s.fail("seek", s.pos, fmt.Errorf("%w: seek to %d: %w", ErrIO, pos, err))
	}
	from := s.pos
	s.pos = actual - s.offset
	if s.pos != pos {
		return s.fail("seek", from, fmt.Errorf("%w: requested %d, medium at %d", ErrSeekMismatch, pos, s.pos))
	}
	s.log().Debug("archive seek", "from", from, "to", pos)
	return nil
}

// IsEOF implements Archive.
func (s *stream) IsEOF() (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if !s.loading {
		return false, ErrNotLoading
	}
	size, err := s.m.size()
	if err != nil {
		return false, s.fail("eof", s.pos, fmt.Errorf("%w: %w", ErrIO, err))
	}
	return s.pos+s.offset >= size, nil
}

// Pos implements Archive.
func (s *stream) Pos() int64 {
	return s.pos
}

// IsLoading implements Archive.
func (s *stream) IsLoading() bool {
	return s.loading
}

// Format implements Archive.
func (s *stream) Format() *Format {
	return &s.format
}

// Stopper implements Archive.
func (s *stream) Stopper() int64 {
	return s.stopper
}

// SetStopper implements Archive.
func (s *stream) SetStopper(pos int64) {
	if pos < 0 {
		pos = 0
	}
	s.stopper = pos
	s.log().Debug("archive stopper", "pos", s.pos, "stopper", pos)
}

// Remaining implements Archive. On loading archives the stopper never
// extends the limit past the end of the medium.
func (s *stream) Remaining() (int64, bool) {
	limit := s.stopper
	known := limit > 0
	if s.loading {
		if size, err := s.m.size(); err == nil {
			if end := size - s.offset; !known || end < limit {
				limit = end
			}
			known = true
		}
	}
	if !known {
		return 0, false
	}
	return max(limit-s.pos, 0), true
}

// Fail implements Archive.
func (s *stream) Fail(op string, offset int64, err error) error {
	if s.err != nil {
		return s.err
	}
	return s.fail(op, offset, err)
}

// Err implements Archive.
func (s *stream) Err() error {
	return s.err
}
