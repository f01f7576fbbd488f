// Package cache provides an in-memory block cache for byte sources.
//
// Archives read package files a few bytes at a time. Over a remote or slow
// source each of those reads would be a round trip; wrapping the source in a
// BlockCache turns them into whole-block fetches that later reads hit in
// memory.
package cache

import (
	"io"

	"github.com/meigma/upkg/source"
)

// RangeReader provides range reads for block fetches.
// Sources implementing it are fetched with ReadRange instead of ReadAt.
type RangeReader interface {
	// ReadRange returns a ReadCloser for reading length bytes starting at off.
	// The caller is responsible for closing the returned ReadCloser.
	ReadRange(off, length int64) (io.ReadCloser, error)
}

// DefaultBlockSize is the default block size.
const DefaultBlockSize int64 = 64 << 10

// DefaultMaxBlocksPerRead caps cached blocks per ReadAt so large sequential
// reads bypass the cache.
const DefaultMaxBlocksPerRead = 4

// WrapConfig controls how a source is wrapped.
type WrapConfig struct {
	// BlockSize is the size in bytes of each cached block.
	BlockSize int64

	// MaxBlocksPerRead is the maximum number of blocks a single ReadAt may
	// span and still be served from the cache. Use 0 to disable the limit.
	MaxBlocksPerRead int
}

// DefaultWrapConfig returns the default wrap configuration.
func DefaultWrapConfig() WrapConfig {
	return WrapConfig{
		BlockSize:        DefaultBlockSize,
		MaxBlocksPerRead: DefaultMaxBlocksPerRead,
	}
}

// WrapOption configures Wrap.
type WrapOption func(*WrapConfig)

// WithBlockSize sets the block size used for caching.
func WithBlockSize(n int64) WrapOption {
	return func(cfg *WrapConfig) {
		cfg.BlockSize = n
	}
}

// WithMaxBlocksPerRead bypasses caching when a ReadAt spans more than n blocks.
// Values <= 0 disable the limit.
func WithMaxBlocksPerRead(n int) WrapOption {
	return func(cfg *WrapConfig) {
		cfg.MaxBlocksPerRead = n
	}
}

// Source is a ByteSource served through a BlockCache. It also implements
// RangeReader.
type Source interface {
	source.ByteSource
	RangeReader
}
