package array

import (
	"fmt"
	"math"

	"github.com/meigma/upkg/archive"
)

// VerLazyArraySkip is the first format version whose lazy arrays record a
// skip position.
const VerLazyArraySkip = 62

// Lazy is an Array whose serialized form can be skipped without decoding.
// From VerLazyArraySkip on, the count is preceded by the int32 archive
// position just past the last element.
type Lazy[T any] struct {
	Array[T]
	skip int64
}

// SkipPos returns the skip position read by the last load, or written by the
// last save. It is 0 for versions without the marker.
func (l *Lazy[T]) SkipPos() int64 { return l.skip }

// Serialize streams the lazy array with codec. On load a nonzero skip
// position must equal the position where the elements end.
func (l *Lazy[T]) Serialize(ar archive.Archive, codec Codec[T]) error {
	return l.serialize(ar, codec, 1)
}

// SerializeFixed is Serialize for elements of a known wire width.
func (l *Lazy[T]) SerializeFixed(ar archive.Archive, codec Codec[T], width int) error {
	return l.serialize(ar, codec, int64(width))
}

func (l *Lazy[T]) serialize(ar archive.Archive, codec Codec[T], minSize int64) error {
	l.skip = 0
	if ar.Format().Version < VerLazyArraySkip {
		return l.Array.serialize(ar, codec, minSize)
	}
	start := ar.Pos()
	var skip int32
	if err := archive.Int32(ar, &skip); err != nil {
		return err
	}
	if err := l.Array.serialize(ar, codec, minSize); err != nil {
		return err
	}
	end := ar.Pos()
	if ar.IsLoading() {
		l.skip = int64(skip)
		if skip != 0 && l.skip != end {
			return ar.Fail("lazy array", start,
				fmt.Errorf("%w: recorded %d, elements end at %d", ErrLazyMismatch, skip, end))
		}
		return nil
	}
	return l.patchSkip(ar, start, end)
}

// patchSkip rewrites the placeholder at start with end. Positions past the
// int32 range keep the zero placeholder, which loaders accept.
func (l *Lazy[T]) patchSkip(ar archive.Archive, start, end int64) error {
	if end > math.MaxInt32 {
		return nil
	}
	if err := ar.Seek(start); err != nil {
		return err
	}
	skip := int32(end)
	if err := archive.Int32(ar, &skip); err != nil {
		return err
	}
	if err := ar.Seek(end); err != nil {
		return err
	}
	l.skip = end
	return nil
}

// SkipLazy jumps over a lazy array on a loading archive without decoding it.
// It reads the recorded skip position, requires it to lie strictly ahead of
// the cursor, and seeks there.
func SkipLazy(ar archive.Archive) error {
	if !ar.IsLoading() {
		return archive.ErrNotLoading
	}
	if ar.Format().Version < VerLazyArraySkip {
		return ErrSkipUnavailable
	}
	start := ar.Pos()
	var skip int32
	if err := archive.Int32(ar, &skip); err != nil {
		return err
	}
	if int64(skip) <= ar.Pos() {
		return ar.Fail("skip lazy array", start,
			fmt.Errorf("%w: skip %d, cursor %d", ErrBadSkip, skip, ar.Pos()))
	}
	return ar.Seek(int64(skip))
}
