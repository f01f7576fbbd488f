package archive

import "github.com/meigma/upkg/source"

// DefaultVersion is the format version an archive assumes until the loader
// has read the real one from a package header. It is larger than any shipped
// version so every version-gated field is present by default.
const DefaultVersion int32 = 99999

// Engine generations. Version values at or above these thresholds come from
// second and third generation packages.
const (
	VerPackageV2 int32 = 100
	VerPackageV3 int32 = 180
)

// IndexNone marks an absent name or object reference.
const IndexNone = -1

// DefaultMaxArrayCount caps the element count an array may declare on load.
const DefaultMaxArrayCount = 1 << 24

// ByteSource provides random access to package bytes.
type ByteSource = source.ByteSource

// Format holds the version switches that select an on-disk layout variant.
// The loader typically updates Version and LicenseeVersion after reading a
// package header.
type Format struct {
	Version         int32
	LicenseeVersion int32
	Titles          Titles

	// MaxArrayCount limits element counts read from the stream.
	// Values <= 0 disable the limit.
	MaxArrayCount int
}

// Archive is a position-tracked, bidirectional binary stream.
//
// Its direction is fixed at construction: a loading archive fills values
// from the medium, a saving archive writes them. Typed helpers such as
// Int32 and Index are built on Serialize and work in both directions.
//
// The first fatal failure poisons the archive; every later operation
// returns the same *Error. Archives are not safe for concurrent use.
type Archive interface {
	// Serialize transfers len(p) bytes between p and the medium and
	// advances Pos by len(p).
	Serialize(p []byte) error

	// Seek moves to an absolute archive position.
	Seek(pos int64) error

	// IsEOF reports whether the cursor is at the end of the medium.
	// It is only valid on loading archives.
	IsEOF() (bool, error)

	// Pos returns the current archive position.
	Pos() int64

	// IsLoading reports whether the archive reads from its medium.
	IsLoading() bool

	// Format returns the mutable version switches of the archive.
	Format() *Format

	// Stopper returns the active upper bound, or 0 when none is set.
	Stopper() int64

	// SetStopper bounds all later transfers to end at or before pos.
	// A pos <= 0 removes the bound.
	SetStopper(pos int64)

	// Remaining returns the number of bytes that may still be read before
	// the stopper or the end of the medium, whichever comes first. ok is
	// false when unknown.
	Remaining() (n int64, ok bool)

	// SerializeName streams a name table reference.
	SerializeName(n *NameIndex) error

	// SerializeObject streams an object table reference.
	SerializeObject(o *ObjectIndex) error

	// Fail poisons the archive with a structural error found by a caller
	// and returns it positioned at offset.
	Fail(op string, offset int64, err error) error

	// Err returns the error that poisoned the archive, if any.
	Err() error
}

// Serializer is implemented by values that stream themselves through an archive.
type Serializer interface {
	Serialize(ar Archive) error
}

// IsStopper reports whether ar is positioned exactly at its stopper.
func IsStopper(ar Archive) bool {
	return ar.Stopper() == ar.Pos()
}
