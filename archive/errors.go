package archive

import (
	"errors"
	"fmt"
)

// Error classes. Every fatal archive error wraps exactly one of these, so
// callers can decide how to report a failed session with errors.Is.
var (
	// ErrIO is returned when the underlying medium cannot complete an operation.
	ErrIO = errors.New("archive: i/o fault")

	// ErrBounds is returned when an operation would leave the permitted region.
	ErrBounds = errors.New("archive: bounds violation")

	// ErrFormat is returned when the stream contradicts the wire format.
	ErrFormat = errors.New("archive: format violation")
)

// Specific failures, each wrapping its class.
var (
	// ErrShortTransfer is returned when fewer bytes than requested were read or written.
	ErrShortTransfer = fmt.Errorf("%w: short transfer", ErrIO)

	// ErrSeekMismatch is returned when the medium did not land on the requested offset.
	ErrSeekMismatch = fmt.Errorf("%w: seek position mismatch", ErrIO)

	// ErrStopper is returned when a transfer would cross the active stopper.
	ErrStopper = fmt.Errorf("%w: transfer crosses stopper", ErrBounds)

	// ErrBadHeader is returned when a fixed record header holds an unexpected value.
	ErrBadHeader = fmt.Errorf("%w: unexpected record header", ErrFormat)
)

// Usage errors. These are returned when the archive is driven in a way its
// direction or medium does not support.
var (
	// ErrNotLoading is returned by load-only operations on a saving archive.
	ErrNotLoading = errors.New("archive: operation requires a loading archive")

	// ErrNotSaving is returned by save-only operations on a loading archive.
	ErrNotSaving = errors.New("archive: operation requires a saving archive")

	// ErrReadOnly is returned when writing to a medium that only supports reads.
	ErrReadOnly = errors.New("archive: read-only medium")
)

// Error records a fatal archive failure and where in the stream it happened.
type Error struct {
	// Op names the failed operation ("serialize", "seek", "index", ...).
	Op string

	// Offset is the archive position at which the operation started.
	Offset int64

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("archive: %s at offset %d (0x%x): %v", e.Op, e.Offset, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
