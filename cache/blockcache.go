package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/upkg/internal/sizing"
	"github.com/meigma/upkg/source"
)

var errBlockTooLarge = errors.New("block cache: block exceeds max int")

// blockKey identifies one cached block.
type blockKey struct {
	sourceID  string
	blockSize int64
	index     int64
}

func (k blockKey) String() string {
	return k.sourceID + "@" + strconv.FormatInt(k.blockSize, 10) + "/" + strconv.FormatInt(k.index, 10)
}

// BlockCache keeps the most recently used blocks of any number of sources
// in memory. It is safe for concurrent use; concurrent misses on the same
// block share one fetch.
type BlockCache struct {
	blocks     *lru.Cache[blockKey, []byte]
	fetchGroup singleflight.Group
	logger     *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	bytes     atomic.Int64
}

// Option configures a BlockCache.
type Option func(*BlockCache)

// WithLogger sets the logger for cache diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *BlockCache) {
		c.logger = logger
	}
}

// NewBlockCache creates a cache holding at most maxBlocks blocks.
func NewBlockCache(maxBlocks int, opts ...Option) (*BlockCache, error) {
	if maxBlocks <= 0 {
		return nil, errors.New("block cache: max blocks must be > 0")
	}
	c := &BlockCache{}
	for _, opt := range opts {
		opt(c)
	}
	blocks, err := lru.NewWithEvict(maxBlocks, func(key blockKey, data []byte) {
		c.evictions.Add(1)
		c.bytes.Add(-int64(len(data)))
		c.log().Debug("block evicted", "block", key.String())
	})
	if err != nil {
		return nil, fmt.Errorf("block cache: %w", err)
	}
	c.blocks = blocks
	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *BlockCache) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Blocks    int
	Bytes     int64
}

// Stats returns the current cache counters.
func (c *BlockCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Blocks:    c.blocks.Len(),
		Bytes:     c.bytes.Load(),
	}
}

// Purge drops every cached block.
func (c *BlockCache) Purge() {
	c.blocks.Purge()
}

// Wrap returns a Source that serves reads of src from the cache.
func (c *BlockCache) Wrap(src source.ByteSource, opts ...WrapOption) (Source, error) {
	if src == nil {
		return nil, errors.New("block cache: source is nil")
	}
	cfg := DefaultWrapConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BlockSize <= 0 {
		return nil, errors.New("block cache: block size must be > 0")
	}
	if _, err := sizing.ToInt(cfg.BlockSize, errBlockTooLarge); err != nil {
		return nil, err
	}
	if cfg.MaxBlocksPerRead < 0 {
		return nil, errors.New("block cache: max blocks per read must be >= 0")
	}
	sourceID := src.SourceID()
	if sourceID == "" {
		return nil, errors.New("block cache: source id is empty")
	}
	return &cachedSource{
		src:              src,
		cache:            c,
		sourceID:         sourceID,
		blockSize:        cfg.BlockSize,
		maxBlocksPerRead: cfg.MaxBlocksPerRead,
	}, nil
}

func (c *BlockCache) getBlock(key blockKey, blockLen int64, fetch func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.blocks.Get(key); ok && int64(len(data)) == blockLen {
		c.hits.Add(1)
		return data, nil
	}
	result, err, shared := c.fetchGroup.Do(key.String(), func() (any, error) {
		if data, ok := c.blocks.Get(key); ok && int64(len(data)) == blockLen {
			return data, nil
		}
		c.misses.Add(1)
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		if int64(len(data)) != blockLen {
			return nil, io.ErrUnexpectedEOF
		}
		if old, ok := c.blocks.Peek(key); ok {
			c.bytes.Add(-int64(len(old)))
		}
		c.blocks.Add(key, data)
		c.bytes.Add(int64(len(data)))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log().Debug("block fetch shared", "block", key.String())
	}
	return result.([]byte), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

// cachedSource wraps a ByteSource with block-level caching.
type cachedSource struct {
	src              source.ByteSource
	cache            *BlockCache
	sourceID         string
	blockSize        int64
	maxBlocksPerRead int
}

func (s *cachedSource) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 {
		return 0, fmt.Errorf("read at %d: negative offset", off)
	}
	size := s.src.Size()
	if off >= size {
		return 0, io.EOF
	}

	expected := int64(len(p))
	if off+expected > size {
		expected = size - off
	}

	startBlock := off / s.blockSize
	endBlock := (off + expected - 1) / s.blockSize
	if s.maxBlocksPerRead > 0 && endBlock-startBlock+1 > int64(s.maxBlocksPerRead) {
		return s.src.ReadAt(p, off)
	}

	var n int64
	for index := startBlock; index <= endBlock; index++ {
		blockStart := index * s.blockSize
		blockEnd := min(blockStart+s.blockSize, size)
		blockLen := blockEnd - blockStart

		key := blockKey{sourceID: s.sourceID, blockSize: s.blockSize, index: index}
		data, err := s.cache.getBlock(key, blockLen, func() ([]byte, error) {
			return s.fetch(blockStart, blockLen)
		})
		if err != nil {
			return int(n), err
		}

		copyStart := max(off, blockStart)
		copyEnd := min(off+expected, blockEnd)
		n += int64(copy(p[copyStart-off:copyEnd-off], data[copyStart-blockStart:copyEnd-blockStart]))
	}

	if expected < int64(len(p)) {
		return int(n), io.EOF
	}
	return int(n), nil
}

func (s *cachedSource) ReadRange(off, length int64) (io.ReadCloser, error) {
	if length < 0 {
		return nil, fmt.Errorf("read range length %d: negative length", length)
	}
	if length == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	if off < 0 {
		return nil, fmt.Errorf("read range %d: negative offset", off)
	}
	size := s.src.Size()
	if off >= size {
		return io.NopCloser(bytes.NewReader(nil)), io.EOF
	}
	length = min(length, size-off)
	return io.NopCloser(io.NewSectionReader(s, off, length)), nil
}

func (s *cachedSource) Size() int64 {
	return s.src.Size()
}

func (s *cachedSource) SourceID() string {
	return s.sourceID
}

func (s *cachedSource) fetch(off, length int64) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	if rr, ok := s.src.(RangeReader); ok {
		rc, err := rr.ReadRange(off, length)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		if int64(len(data)) != length {
			return nil, io.ErrUnexpectedEOF
		}
		return data, nil
	}

	n, err := sizing.ToInt(length, errBlockTooLarge)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	read, err := s.src.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if int64(read) != length {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}
