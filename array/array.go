package array

import (
	"fmt"
	"iter"
	"slices"

	"github.com/meigma/upkg/archive"
)

// Array is a growable sequence of T. New elements start as the zero value
// and removed slots are cleared so they release what they referenced.
//
// The zero value is an empty array ready to use. An Array must not be copied
// after first use.
type Array[T any] struct {
	_     noCopy
	items []T
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return len(a.items) }

// Cap returns the number of elements the array holds without reallocating.
func (a *Array[T]) Cap() int { return cap(a.items) }

// At returns element i. It panics if i is out of range.
func (a *Array[T]) At(i int) T { return a.items[i] }

// Ptr returns a pointer to element i, valid until the array is next resized.
func (a *Array[T]) Ptr(i int) *T { return &a.items[i] }

// Set replaces element i.
func (a *Array[T]) Set(i int, v T) { a.items[i] = v }

// Items returns the elements as a slice sharing the array's storage.
func (a *Array[T]) Items() []T { return a.items }

// All iterates over index/element pairs.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return slices.All(a.items)
}

// Add appends count zero elements and returns the index of the first.
func (a *Array[T]) Add(count int) int {
	first := len(a.items)
	a.Insert(first, count)
	return first
}

// AddItem appends v and returns its index.
func (a *Array[T]) AddItem(v T) int {
	a.items = append(a.items, v)
	return len(a.items) - 1
}

// New appends a zero element and returns a pointer to it.
func (a *Array[T]) New() *T {
	return &a.items[a.Add(1)]
}

// Insert opens count zero elements at index, moving later elements up.
// It panics if index is outside [0, Len()] or count is negative.
func (a *Array[T]) Insert(index, count int) {
	if index < 0 || index > len(a.items) || count < 0 {
		panic(fmt.Sprintf("array: insert %d at %d out of range [0:%d]", count, index, len(a.items)))
	}
	if count == 0 {
		return
	}
	a.items = slices.Insert(a.items, index, make([]T, count)...)
}

// InsertItem inserts v at index.
func (a *Array[T]) InsertItem(index int, v T) {
	a.items = slices.Insert(a.items, index, v)
}

// Remove deletes count elements starting at index. Capacity is kept.
// It panics if the range is out of bounds.
func (a *Array[T]) Remove(index, count int) {
	if index < 0 || count < 0 || index+count > len(a.items) {
		panic(fmt.Sprintf("array: remove %d at %d out of range [0:%d]", count, index, len(a.items)))
	}
	a.items = slices.Delete(a.items, index, index+count)
}

// Empty discards all elements and their storage, then reserves room for
// count elements.
func (a *Array[T]) Empty(count int) {
	clear(a.items)
	a.items = make([]T, 0, max(count, 0))
}

// Clone returns a shallow copy with its own storage.
func (a *Array[T]) Clone() *Array[T] {
	return &Array[T]{items: slices.Clone(a.items)}
}

// Copy replaces the contents of dst with the elements of src converted by conv.
func Copy[D, S any](dst *Array[D], src *Array[S], conv func(S) D) {
	dst.Empty(src.Len())
	for _, v := range src.items {
		dst.items = append(dst.items, conv(v))
	}
}

// Serialize streams the count followed by every element through codec.
//
// On load the array is emptied first. Each element is appended as the zero
// value immediately before codec decodes into it, so a failure leaves only
// fully decoded elements behind.
func (a *Array[T]) Serialize(ar archive.Archive, codec Codec[T]) error {
	return a.serialize(ar, codec, 1)
}

// SerializeFixed is Serialize for elements that always occupy width bytes
// on the wire. The width lets a loading archive reject impossible counts
// exactly.
func (a *Array[T]) SerializeFixed(ar archive.Archive, codec Codec[T], width int) error {
	return a.serialize(ar, codec, int64(width))
}

func (a *Array[T]) serialize(ar archive.Archive, codec Codec[T], minSize int64) error {
	n, err := serializeCount(ar, len(a.items), minSize)
	if err != nil {
		return err
	}
	if !ar.IsLoading() {
		for i := range a.items {
			if err := codec(ar, &a.items[i]); err != nil {
				return elementError(i, err)
			}
		}
		return nil
	}
	a.Empty(n)
	for i := range n {
		if err := codec(ar, a.New()); err != nil {
			a.Remove(i, 1)
			return elementError(i, err)
		}
	}
	return nil
}
