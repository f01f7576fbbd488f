package upkg

import "github.com/meigma/upkg/archive"

// Re-export archive types for public API.
type (
	// Archive is a position-tracked, bidirectional binary stream.
	Archive = archive.Archive

	// Format holds the version switches of an archive.
	Format = archive.Format

	// Error records a fatal archive failure and its position.
	Error = archive.Error

	// NameIndex is an index into a package's name table.
	NameIndex = archive.NameIndex

	// ObjectIndex is an index into a package's object tables.
	ObjectIndex = archive.ObjectIndex

	// Titles selects per-title format deviations.
	Titles = archive.Titles
)

// DefaultVersion is the format version archives assume until told otherwise.
const DefaultVersion = archive.DefaultVersion

// IndexNone marks an absent name or object reference.
const IndexNone = archive.IndexNone
