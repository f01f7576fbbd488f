// Command upkinspect decodes a sequence of primitives from package files and
// prints each value with the archive position it was read from.
//
//	upkinspect -decode u32,u16,u16,str,skiplazy,idx Engine.u
//	upkinspect -profile tribes3.yaml -offset 0x10 -decode 'i32*3' https://host/Maps/Foo.t3m
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/upkg"
	"github.com/meigma/upkg/archive"
	"github.com/meigma/upkg/cache"
)

type config struct {
	profile    string
	version    int
	licensee   int
	titles     string
	offset     int64
	start      int64
	stopper    int64
	decode     string
	jobs       int
	digest     bool
	blocks     int
	blockSize  int64
	noMmap     bool
	verbose    bool
	inputs     []string
	archiveOpt []archive.Option
}

func main() {
	cfg := parseFlags()
	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.profile, "profile", "", "YAML format profile")
	flag.IntVar(&cfg.version, "version", 0, "package version (overrides profile)")
	flag.IntVar(&cfg.licensee, "licensee", 0, "licensee version (overrides profile)")
	flag.StringVar(&cfg.titles, "titles", "", "comma separated title flags (added to profile)")
	flag.Int64Var(&cfg.offset, "offset", 0, "byte offset of the package inside the file")
	flag.Int64Var(&cfg.start, "seek", 0, "archive position to start decoding at")
	flag.Int64Var(&cfg.stopper, "stopper", 0, "archive position no read may cross (0 = none)")
	flag.StringVar(&cfg.decode, "decode", "u32,u16,u16", "decode plan: comma list of u8,i8,u16,i16,u32,i32,f32,bool,idx,name,obj,str,skiplazy; kind*N repeats")
	flag.IntVar(&cfg.jobs, "jobs", 4, "files inspected concurrently")
	flag.BoolVar(&cfg.digest, "digest", false, "print the sha256 digest of each input")
	flag.IntVar(&cfg.blocks, "cache-blocks", 64, "block cache capacity for remote inputs")
	flag.Int64Var(&cfg.blockSize, "block-size", cache.DefaultBlockSize, "block cache block size")
	flag.BoolVar(&cfg.noMmap, "no-mmap", false, "read local files with pread instead of mmap")
	flag.BoolVar(&cfg.verbose, "v", false, "log archive diagnostics to stderr")
	flag.Parse()
	cfg.inputs = flag.Args()
	return cfg
}

// formatOptions builds the archive options from the profile and flags.
func (cfg *config) formatOptions() ([]archive.Option, error) {
	var opts []archive.Option
	if cfg.profile != "" {
		p, err := archive.LoadProfile(cfg.profile)
		if err != nil {
			return nil, err
		}
		opt, err := p.Option()
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	if cfg.version != 0 {
		opts = append(opts, archive.WithVersion(int32(cfg.version))) //nolint:gosec // flag value
	}
	if cfg.licensee != 0 {
		opts = append(opts, archive.WithLicenseeVersion(int32(cfg.licensee))) //nolint:gosec // flag value
	}
	if cfg.titles != "" {
		t, err := archive.ParseTitles(strings.Split(cfg.titles, ",")...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, archive.WithTitles(t))
	}
	if cfg.offset != 0 {
		opts = append(opts, archive.WithPositionOffset(cfg.offset))
	}
	return opts, nil
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	if len(cfg.inputs) == 0 {
		return errors.New("usage: upkinspect [flags] FILE|URL...")
	}
	plan, err := parsePlan(cfg.decode)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	opts, err := cfg.formatOptions()
	if err != nil {
		return err
	}
	if cfg.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, archive.WithLogger(logger))
	}
	cfg.archiveOpt = opts

	blocks, err := cache.NewBlockCache(max(cfg.blocks, 1))
	if err != nil {
		return err
	}

	reports := make([]bytes.Buffer, len(cfg.inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.jobs, 1))
	for i, input := range cfg.inputs {
		g.Go(func() error {
			return inspect(ctx, cfg, blocks, input, plan, &reports[i])
		})
	}
	waitErr := g.Wait()
	for i := range reports {
		if _, err := reports[i].WriteTo(out); err != nil {
			return err
		}
	}
	return waitErr
}

// inspect decodes plan from one input. Every input gets its own archive;
// only the block cache is shared.
func inspect(ctx context.Context, cfg config, blocks *cache.BlockCache, input string, plan []step, w io.Writer) error {
	fmt.Fprintf(w, "== %s\n", input)

	openOpts := []upkg.OpenOption{
		upkg.WithArchiveOptions(cfg.archiveOpt...),
		upkg.WithMmap(!cfg.noMmap),
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		openOpts = append(openOpts, upkg.WithBlockCache(blocks, cache.WithBlockSize(cfg.blockSize)))
	}
	pkg, err := upkg.Open(ctx, input, openOpts...)
	if err != nil {
		return err
	}
	defer pkg.Close()

	if cfg.digest {
		src := pkg.ByteSource()
		d, err := digest.FromReader(io.NewSectionReader(src, 0, src.Size()))
		if err != nil {
			return fmt.Errorf("%s: digest: %w", input, err)
		}
		fmt.Fprintf(w, "digest %s\n", d)
	}

	if cfg.start != 0 {
		if err := pkg.Seek(cfg.start); err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
	}
	if cfg.stopper > 0 {
		pkg.SetStopper(cfg.stopper)
	}
	for _, s := range plan {
		pos := pkg.Pos()
		value, err := s.decode(pkg)
		if err != nil {
			fmt.Fprintf(w, "0x%08x %-8s error: %v\n", pos, s.kind, err)
			return fmt.Errorf("%s: %w", input, err)
		}
		fmt.Fprintf(w, "0x%08x %-8s %s\n", pos, s.kind, value)
	}
	return nil
}
