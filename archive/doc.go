// Package archive implements the versioned binary archive that engine
// package files are read and written through.
//
// An Archive is a position-tracked cursor over a medium with a fixed
// direction. The same serialization code handles both directions: helpers
// take a pointer, fill it when loading and read it when saving.
//
//	ar, err := archive.OpenFile("Engine.u", archive.WithVersion(69))
//	if err != nil {
//	    return err
//	}
//	defer ar.Close()
//
//	var tag uint32
//	var count int32
//	if err := archive.Uint32(ar, &tag); err != nil {
//	    return err
//	}
//	if err := archive.Index(ar, &count); err != nil {
//	    return err
//	}
//
// Three media are provided: File (a seekable *os.File), Buffer (memory) and
// Source (any ByteSource, read-only). All share the same stopper, position
// and error behavior.
//
// # Failures
//
// Every failure is fatal for the session. The first error is returned as an
// *Error carrying the operation and stream offset, and the archive keeps
// returning it afterwards. Errors wrap one of ErrIO, ErrBounds or ErrFormat.
//
// # References
//
// Name and object references are carried as compact indices. Package
// loaders that own the lookup tables can embed a concrete archive and
// redefine SerializeName or SerializeObject; the Name and Object helpers
// dispatch through the Archive interface and pick up the override.
package archive
