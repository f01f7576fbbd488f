package array

import (
	"fmt"
	"math"

	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/internal/sizing"
)

// Codec streams one element through an archive in the archive's direction.
type Codec[T any] func(ar archive.Archive, v *T) error

// Of returns a Codec for element types whose pointer implements
// archive.Serializer.
func Of[T any, P interface {
	*T
	archive.Serializer
}]() Codec[T] {
	return func(ar archive.Archive, v *T) error {
		return P(v).Serialize(ar)
	}
}

// serializeCount streams the element count of a container holding n
// elements. On load it returns the validated count read from the stream.
// minSize is the smallest number of bytes one element occupies on the wire.
func serializeCount(ar archive.Archive, n int, minSize int64) (int, error) {
	start := ar.Pos()
	var c int32
	if !ar.IsLoading() {
		if n > math.MaxInt32 {
			return 0, ar.Fail("array count", start, fmt.Errorf("%w: %d elements", ErrCountTooLarge, n))
		}
		c = int32(n)
	}
	if err := archive.Index(ar, &c); err != nil {
		return 0, err
	}
	if !ar.IsLoading() {
		return n, nil
	}
	if err := checkCount(ar, start, int64(c), minSize); err != nil {
		return 0, err
	}
	return int(c), nil
}

// checkCount rejects counts the stream cannot back.
func checkCount(ar archive.Archive, start, count, minSize int64) error {
	if count < 0 {
		return ar.Fail("array count", start, fmt.Errorf("%w: %d", ErrNegativeCount, count))
	}
	if limit := ar.Format().MaxArrayCount; limit > 0 && count > int64(limit) {
		return ar.Fail("array count", start,
			fmt.Errorf("%w: %d exceeds limit %d", ErrCountTooLarge, count, limit))
	}
	if minSize < 1 {
		minSize = 1
	}
	if rem, ok := ar.Remaining(); ok && !sizing.FitsCount(count, minSize, rem) {
		return ar.Fail("array count", start,
			fmt.Errorf("%w: %d elements of at least %d bytes, %d bytes left", ErrCountTooLarge, count, minSize, rem))
	}
	return nil
}

func elementError(i int, err error) error {
	return fmt.Errorf("array element %d: %w", i, err)
}
