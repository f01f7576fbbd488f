package array

import (
	"fmt"
	"slices"

	"github.com/meigma/upkg/archive"
)

// Generic is a growable array of fixed-width raw elements. It knows nothing
// about element types; slots are zero bytes when created and callers decode
// into them with Serialize.
type Generic struct {
	_     noCopy
	width int
	data  []byte
}

// NewGeneric returns an empty array of width-byte elements.
// It panics if width is not positive.
func NewGeneric(width int) *Generic {
	if width <= 0 {
		panic(fmt.Sprintf("array: invalid element width %d", width))
	}
	return &Generic{width: width}
}

// Width returns the element width in bytes.
func (g *Generic) Width() int { return g.width }

// Len returns the number of elements.
func (g *Generic) Len() int { return len(g.data) / g.width }

// Cap returns the number of elements the array holds without reallocating.
func (g *Generic) Cap() int { return cap(g.data) / g.width }

// Bytes returns the raw element storage, Len()*Width() bytes long.
func (g *Generic) Bytes() []byte { return g.data }

// Slot returns the storage of element i. It panics if i is out of range.
func (g *Generic) Slot(i int) []byte {
	if i < 0 || i >= g.Len() {
		panic(fmt.Sprintf("array: slot %d out of range [0:%d]", i, g.Len()))
	}
	off := i * g.width
	return g.data[off : off+g.width : off+g.width]
}

// Add appends count zeroed elements and returns the index of the first.
func (g *Generic) Add(count int) int {
	first := g.Len()
	g.Insert(first, count)
	return first
}

// Insert opens count zeroed elements at index, moving later elements up.
// It panics if index is outside [0, Len()] or count is negative.
func (g *Generic) Insert(index, count int) {
	if index < 0 || index > g.Len() || count < 0 {
		panic(fmt.Sprintf("array: insert %d at %d out of range [0:%d]", count, index, g.Len()))
	}
	if count == 0 {
		return
	}
	off := index * g.width
	n := count * g.width
	g.data = slices.Grow(g.data, n)
	g.data = g.data[:len(g.data)+n]
	copy(g.data[off+n:], g.data[off:len(g.data)-n])
	clear(g.data[off : off+n])
}

// Remove deletes count elements starting at index, moving later elements
// down. Capacity is kept. It panics if the range is out of bounds.
func (g *Generic) Remove(index, count int) {
	if index < 0 || count < 0 || index+count > g.Len() {
		panic(fmt.Sprintf("array: remove %d at %d out of range [0:%d]", count, index, g.Len()))
	}
	off := index * g.width
	n := count * g.width
	end := len(g.data) - n
	copy(g.data[off:], g.data[off+n:])
	clear(g.data[end:])
	g.data = g.data[:end]
}

// Empty discards all elements and their storage, then reserves room for
// count elements.
func (g *Generic) Empty(count int) {
	if count < 0 {
		count = 0
	}
	g.data = make([]byte, 0, count*g.width)
}

// Serialize streams the count followed by each element through fn. On load
// the array is emptied and every element is created zeroed right before fn
// decodes into it.
func (g *Generic) Serialize(ar archive.Archive, fn func(ar archive.Archive, slot []byte) error) error {
	n, err := serializeCount(ar, g.Len(), 1)
	if err != nil {
		return err
	}
	if ar.IsLoading() {
		g.Empty(n)
		for i := range n {
			if err := fn(ar, g.Slot(g.Add(1))); err != nil {
				g.Remove(i, 1)
				return elementError(i, err)
			}
		}
		return nil
	}
	for i := range n {
		if err := fn(ar, g.Slot(i)); err != nil {
			return elementError(i, err)
		}
	}
	return nil
}

// SerializeRaw streams the count followed by the whole payload in a single
// transfer. The element bytes are moved as stored, so it only suits
// byte-order independent payloads.
func (g *Generic) SerializeRaw(ar archive.Archive) error {
	n, err := serializeCount(ar, g.Len(), int64(g.width))
	if err != nil {
		return err
	}
	if ar.IsLoading() {
		g.Empty(n)
		g.Add(n)
	}
	return ar.Serialize(g.data)
}

// noCopy may be embedded into structs which must not be copied after first
// use; go vet's copylocks check reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
