package archive

import "log/slog"

// Option configures an archive.
type Option func(*config)

type config struct {
	format   Format
	offset   int64
	logger   *slog.Logger
	hook     ReferenceHook
	resolver Resolver
}

func newConfig(opts []Option) config {
	cfg := config{
		format: Format{
			Version:       DefaultVersion,
			MaxArrayCount: DefaultMaxArrayCount,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithVersion sets the package format version (default: DefaultVersion).
func WithVersion(v int32) Option {
	return func(c *config) {
		c.format.Version = v
	}
}

// WithLicenseeVersion sets the licensee (per-title fork) version (default: 0).
func WithLicenseeVersion(v int32) Option {
	return func(c *config) {
		c.format.LicenseeVersion = v
	}
}

// WithTitles enables per-title binary deviations.
func WithTitles(t Titles) Option {
	return func(c *config) {
		c.format.Titles |= t
	}
}

// WithMaxArrayCount limits the element count arrays accept on load.
// Set to 0 to disable the limit.
func WithMaxArrayCount(n int) Option {
	return func(c *config) {
		c.format.MaxArrayCount = n
	}
}

// WithFormat replaces all version switches at once.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithPositionOffset makes archive positions relative to off, for archives
// embedded in a larger container. Position 0 maps to medium offset off.
func WithPositionOffset(off int64) Option {
	return func(c *config) {
		c.offset = off
	}
}

// WithLogger sets the logger used for diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithReferenceHook installs a hook that observes every decoded name and
// object reference.
func WithReferenceHook(h ReferenceHook) Option {
	return func(c *config) {
		c.hook = h
	}
}

// WithResolver sets the resolver used to describe references in log output.
func WithResolver(r Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}
