package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackreport/pkg/cache"
	"github.com/matzehuels/stackreport/pkg/observability"
	"github.com/matzehuels/stackreport/pkg/report"
)

// keyType labels cache hook events emitted by the runner.
const keyType = "render"

// Runner encapsulates pipeline execution with caching.
// Both the render and serve commands use it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner with different options; each
// Execute call creates its own engine and scratch directory.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the expiry of stored pages. Zero means cache.TTLDocument.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute loads the document, serves the page from the cache when
// possible and renders it otherwise.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Nodes = report.Count(doc.Root)

	store, err := LoadTemplates(opts)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	key, err := renderKey(r.Keyer, doc, store, opts)
	if err != nil {
		return nil, err
	}
	result.Key = key

	// Stage 2: Cache
	hooks := observability.Cache()
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache lookup failed", "error", err)
		case hit:
			hooks.OnCacheHit(ctx, keyType)
			r.Logger.Info("served from cache", "nodes", result.Stats.Nodes)
			result.HTML = data
			result.CacheHit = true
			return result, nil
		default:
			hooks.OnCacheMiss(ctx, keyType)
		}
	}

	// Stage 3: Render
	renderStart := time.Now()
	page, err := RenderDocument(ctx, doc, store, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.HTML = page
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered document",
		"nodes", result.Stats.Nodes,
		"bytes", len(page),
		"duration", result.Stats.RenderTime)

	if err := r.Cache.Set(ctx, key, page, r.ttl()); err != nil {
		r.Logger.Warn("cache store failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, keyType, len(page))
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLDocument
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
