// Package upkg reads and writes the binary layer of Unreal-engine style
// package files: a versioned, bidirectional archive plus the container and
// primitive codecs built on it.
//
// This package provides convenience entry points that pick a byte source for
// a location and hand back a ready archive. The building blocks live in
// subpackages:
//
//   - [archive]: the Archive interface, file/memory/source archives and typed
//     primitive streaming
//   - [compact]: the compact index codec
//   - [array]: generic, typed, lazy arrays and strings
//   - [geom]: math payloads
//   - [source], [cache]: byte sources and an in-memory block cache
//
// # Quick Start
//
// Read a local package header:
//
//	pkg, err := upkg.Open(ctx, "Engine.u")
//	if err != nil {
//	    return err
//	}
//	defer pkg.Close()
//
//	var tag uint32
//	var version uint16
//	_ = archive.Uint32(pkg, &tag)
//	_ = archive.Uint16(pkg, &version)
//	if err := pkg.Err(); err != nil {
//	    return err
//	}
//	pkg.Format().Version = int32(version)
//
// Remote files are read with HTTP range requests through a shared block cache:
//
//	blocks, _ := cache.NewBlockCache(256)
//	pkg, err := upkg.Open(ctx, "https://example.com/maps/DM-Deck.ut2",
//	    upkg.WithBlockCache(blocks),
//	)
//
// # Failures
//
// Every fatal failure is an [*archive.Error] wrapping one of [ErrIO],
// [ErrBounds] or [ErrFormat]. The first one poisons the archive.
package upkg
