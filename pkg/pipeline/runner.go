package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockdock/pkg/cache"
	"github.com/matzehuels/blockdock/pkg/catalog"
	"github.com/matzehuels/blockdock/pkg/codec"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	bdio "github.com/matzehuels/blockdock/pkg/io"
	"github.com/matzehuels/blockdock/pkg/node"
	"github.com/matzehuels/blockdock/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it does not
// keep results. Multiple goroutines can use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // artifact lifetime; zero means cache.TTLArtifact
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a
// nil cache disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: cache.Instrument(c), Keyer: keyer, Logger: logger}
}

// Execute loads the catalog and workspace, then renders every requested
// format, reading and filling the cache per format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeInvalidInput, err, "invalid options")
	}

	loadStart := time.Now()
	cat, s, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Catalog:   cat,
		Surface:   s,
		InputHash: hash,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Templates = cat.Len()
	result.Stats.Problems = len(cat.Problems)
	result.Stats.Nodes = s.Len()
	result.Stats.Scripts = len(s.Roots())

	r.Logger.Info("loaded workspace",
		"templates", result.Stats.Templates,
		"nodes", result.Stats.Nodes,
		"scripts", result.Stats.Scripts,
		"duration", result.Stats.LoadTime)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	err = r.renderCached(ctx, s, hash, opts, result)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Load decodes the catalog and the workspace. The returned hash covers the
// workspace bytes and every decoded definition, so it changes whenever
// anything that feeds rendering changes.
func (r *Runner) Load(ctx context.Context, opts Options) (*catalog.Catalog, *node.Surface, string, error) {
	r.applyLogger(&opts)
	cat, err := catalog.Load(ctx, opts.Manifest, catalog.Options{Logger: opts.Logger})
	if err != nil {
		return nil, nil, "", fmt.Errorf("load catalog: %w", err)
	}

	data, err := os.ReadFile(opts.Workspace)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, "", bderrors.Wrap(bderrors.ErrCodeFileNotFound, err, "open workspace %s", opts.Workspace)
		}
		return nil, nil, "", err
	}
	s, err := bdio.ReadJSON(bytes.NewReader(data), cat)
	if err != nil {
		return nil, nil, "", fmt.Errorf("load workspace %s: %w", opts.Workspace, err)
	}
	if opts.Language != "" {
		s.SetLanguage(opts.Language)
	}

	inputs := [][]byte{data}
	for _, t := range cat.Templates() {
		enc, err := codec.Encode(t)
		if err != nil {
			return nil, nil, "", fmt.Errorf("hash catalog: %w", err)
		}
		inputs = append(inputs, enc)
	}
	return cat, s, cache.HashAll(inputs...), nil
}

func (r *Runner) renderCached(ctx context.Context, s *node.Surface, hash string, opts Options, result *Result) error {
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				continue
			} else if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
		}

		data, err := Render(ctx, s, format, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		result.CacheInfo.Misses = append(result.CacheInfo.Misses, format)

		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
