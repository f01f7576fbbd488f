package array

import (
	"errors"
	"fmt"

	"github.com/meigma/upkg/archive"
)

var (
	// ErrNegativeCount is returned when a stream declares a negative element count.
	ErrNegativeCount = fmt.Errorf("%w: negative element count", archive.ErrFormat)

	// ErrCountTooLarge is returned when a declared element count exceeds the
	// configured limit or the bytes left in the stream.
	ErrCountTooLarge = fmt.Errorf("%w: element count too large", archive.ErrBounds)

	// ErrBadSkip is returned when a lazy array's skip position does not lie
	// ahead of the cursor.
	ErrBadSkip = fmt.Errorf("%w: lazy skip position not ahead of cursor", archive.ErrFormat)

	// ErrLazyMismatch is returned when a lazy array does not end at its
	// recorded skip position.
	ErrLazyMismatch = fmt.Errorf("%w: lazy array does not end at skip position", archive.ErrFormat)

	// ErrSkipUnavailable is returned by SkipLazy for format versions whose
	// lazy arrays carry no skip position.
	ErrSkipUnavailable = errors.New("array: format version has no lazy skip position")
)
