package upkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/cache"
	"github.com/meigma/upkg/source"
	"github.com/meigma/upkg/source/httpsource"
	"github.com/meigma/upkg/source/mmap"
)

// Package is a loading archive over an opened package file. It owns the
// byte source and releases it on Close.
type Package struct {
	*archive.Source
	location string
	closer   io.Closer
}

// Location returns the path or URL the package was opened from.
func (p *Package) Location() string {
	return p.location
}

// Close releases the underlying byte source. It is safe to call more than once.
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	err := p.closer.Close()
	p.closer = nil
	return err
}

// OpenOption configures Open.
type OpenOption func(*openConfig)

type openConfig struct {
	archiveOpts []archive.Option
	blocks      *cache.BlockCache
	wrapOpts    []cache.WrapOption
	client      *http.Client
	logger      *slog.Logger
	mmap        bool
}

// WithArchiveOptions passes options to the archive created by Open.
func WithArchiveOptions(opts ...archive.Option) OpenOption {
	return func(c *openConfig) {
		c.archiveOpts = append(c.archiveOpts, opts...)
	}
}

// WithBlockCache serves reads through the given block cache.
// Remote locations use a private 64-block cache when none is given.
func WithBlockCache(blocks *cache.BlockCache, opts ...cache.WrapOption) OpenOption {
	return func(c *openConfig) {
		c.blocks = blocks
		c.wrapOpts = opts
	}
}

// WithHTTPClient sets the client used for remote locations.
func WithHTTPClient(client *http.Client) OpenOption {
	return func(c *openConfig) {
		c.client = client
	}
}

// WithLogger sets the logger for the archive and its sources.
func WithLogger(logger *slog.Logger) OpenOption {
	return func(c *openConfig) {
		c.logger = logger
	}
}

// WithMmap controls whether local files are memory-mapped (default true).
func WithMmap(enabled bool) OpenOption {
	return func(c *openConfig) {
		c.mmap = enabled
	}
}

// remoteCacheBlocks sizes the cache Open creates for remote locations.
const remoteCacheBlocks = 64

// Open returns a loading archive over location, which is either a local
// path or an http(s) URL.
func Open(ctx context.Context, location string, opts ...OpenOption) (*Package, error) {
	cfg := openConfig{mmap: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	src, closer, err := openSource(ctx, location, &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.blocks != nil {
		cached, err := cfg.blocks.Wrap(src, cfg.wrapOpts...)
		if err != nil {
			closeQuietly(closer)
			return nil, fmt.Errorf("upkg: open %s: %w", location, err)
		}
		src = cached
	}

	archiveOpts := cfg.archiveOpts
	if cfg.logger != nil {
		archiveOpts = append([]archive.Option{archive.WithLogger(cfg.logger)}, archiveOpts...)
	}
	return &Package{
		Source:   archive.NewSource(src, archiveOpts...),
		location: location,
		closer:   closer,
	}, nil
}

func openSource(ctx context.Context, location string, cfg *openConfig) (source.ByteSource, io.Closer, error) {
	if isRemote(location) {
		httpOpts := []httpsource.Option{httpsource.WithClient(cfg.client)}
		if cfg.logger != nil {
			httpOpts = append(httpOpts, httpsource.WithLogger(cfg.logger))
		}
		src, err := httpsource.NewSource(ctx, location, httpOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("upkg: %w", err)
		}
		if cfg.blocks == nil {
			blocks, err := cache.NewBlockCache(remoteCacheBlocks, cache.WithLogger(cfg.logger))
			if err != nil {
				return nil, nil, fmt.Errorf("upkg: %w", err)
			}
			cfg.blocks = blocks
		}
		return src, nil, nil
	}

	if cfg.mmap {
		m, err := mmap.Open(location)
		if err != nil {
			return nil, nil, fmt.Errorf("upkg: %w", err)
		}
		return m, m, nil
	}
	f, err := source.OpenFile(location)
	if err != nil {
		return nil, nil, fmt.Errorf("upkg: %w", err)
	}
	return f, f, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

// Create returns a saving archive writing a new package file at path.
func Create(path string, opts ...archive.Option) (*archive.File, error) {
	f, err := archive.CreateFile(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("upkg: %w", err)
	}
	return f, nil
}

// IsFormatError reports whether err is a structural violation of the wire
// format rather than an I/O or bounds failure.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrFormat)
}
