package upkg

import (
	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/array"
	"github.com/meigma/upkg/compact"
)

// Error classes re-exported from archive.
var (
	// ErrIO is returned when the underlying medium cannot complete an operation.
	ErrIO = archive.ErrIO

	// ErrBounds is returned when an operation would leave the permitted region.
	ErrBounds = archive.ErrBounds

	// ErrFormat is returned when the stream contradicts the wire format.
	ErrFormat = archive.ErrFormat
)

// Specific errors re-exported from archive.
var (
	// ErrShortTransfer is returned when fewer bytes than requested were moved.
	ErrShortTransfer = archive.ErrShortTransfer

	// ErrSeekMismatch is returned when a seek lands somewhere other than requested.
	ErrSeekMismatch = archive.ErrSeekMismatch

	// ErrStopper is returned when a transfer would cross the stopper.
	ErrStopper = archive.ErrStopper

	// ErrNotLoading is returned by load-only operations on a saving archive.
	ErrNotLoading = archive.ErrNotLoading

	// ErrNotSaving is returned by save-only operations on a loading archive.
	ErrNotSaving = archive.ErrNotSaving
)

// Errors re-exported from array and compact.
var (
	// ErrNegativeCount is returned when a stream declares a negative element count.
	ErrNegativeCount = array.ErrNegativeCount

	// ErrCountTooLarge is returned when a declared element count cannot be backed.
	ErrCountTooLarge = array.ErrCountTooLarge

	// ErrBadSkip is returned when a lazy array's skip position is behind the cursor.
	ErrBadSkip = array.ErrBadSkip

	// ErrLazyMismatch is returned when a lazy array does not end at its skip position.
	ErrLazyMismatch = array.ErrLazyMismatch

	// ErrIndexOverflow is returned when a compact index does not fit 32 bits.
	ErrIndexOverflow = compact.ErrOverflow
)
