// Package array implements the growable containers of the package format:
// a raw fixed-width Generic array, the typed Array, the skippable Lazy array
// and the NUL-terminated String.
//
// All containers share one wire shape, a compact index element count followed
// by the elements:
//
//	[idx count][elem]*
//
// Lazy arrays prefix it with the absolute position just past the array so a
// reader can jump over elements it does not need:
//
//	[int32 skip][idx count][elem]*
//
// # Untrusted counts
//
// Counts read from a package are checked before any storage is allocated.
// A negative count is a format violation (ErrNegativeCount). A count above
// archive.Format.MaxArrayCount, or one that cannot fit in the bytes left
// before the stopper or the end of the medium, is a bounds violation
// (ErrCountTooLarge). SerializeFixed tightens the second check using the
// exact element width.
//
// # Element codecs
//
// A Codec streams a single element. The typed helpers in package archive
// already have the right shape:
//
//	var scores array.Array[int32]
//	err := scores.Serialize(ar, archive.Int32)
//
// Types implementing archive.Serializer are adapted with Of:
//
//	var verts array.Array[geom.Vector]
//	err := verts.SerializeFixed(ar, array.Of[geom.Vector](), 12)
//
// Containers are not safe for concurrent use and must not be copied after
// first use; use Clone.
package array
