package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/cache"
	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/observability"
	"github.com/matzehuels/brewtower/pkg/render"
)

// Runner executes the pipeline with caching. It keeps no state between
// runs and is safe for concurrent use.
type Runner struct {
	Calculator Calculator
	Styles     StyleLookup
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger
}

// NewRunner creates a runner. A nil calculator computes locally, a nil
// cache disables caching, a nil keyer uses the default layout and a nil
// logger discards output.
func NewRunner(calc Calculator, styles StyleLookup, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if calc == nil {
		calc = Local{}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Calculator: calc, Styles: styles, Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs calculate → compare → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	result := &Result{}

	start := time.Now()
	stats, hit, err := r.StatsWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("calculate: %w", err)
	}
	result.Stats = stats
	result.CacheInfo.StatsHit = hit
	result.Durations.Calculate = time.Since(start)
	logger.Debug("statistics ready", "og", stats.OG, "ibu", stats.IBU, "srm", stats.SRM, "cached", hit)

	style, err := r.style(opts.StyleID)
	if err != nil {
		return nil, err
	}
	result.Style = style
	result.Comparison = compare.Build(stats, style)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Comparison, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Durations.Render = time.Since(start)

	logger.Info("rendered comparison",
		"style", opts.StyleID,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Durations.Calculate+result.Durations.Render)
	return result, nil
}

func (r *Runner) style(id string) (*brew.Style, error) {
	if id == "" {
		return nil, nil
	}
	if r.Styles == nil {
		return nil, fmt.Errorf("style %s requested without a style catalog", id)
	}
	s, err := r.Styles.Lookup(id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Stats returns the statistics for opts without rendering.
func (r *Runner) Stats(ctx context.Context, opts Options) (brew.Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return brew.Stats{}, err
	}
	stats, _, err := r.StatsWithCacheInfo(ctx, opts)
	return stats, err
}

// StatsWithCacheInfo resolves statistics, reporting whether they came from
// the cache. Provided statistics count as a hit.
func (r *Runner) StatsWithCacheInfo(ctx context.Context, opts Options) (brew.Stats, bool, error) {
	if opts.Stats != nil {
		return *opts.Stats, true, nil
	}
	req := brew.CalcRequest{
		Grains:    opts.Recipe.Grains,
		Hops:      opts.Recipe.Hops,
		BatchSize: opts.Recipe.BatchSize,
	}.WithDefaults()

	hash, err := cache.HashJSON(req)
	if err != nil {
		return brew.Stats{}, false, err
	}
	key := r.Keyer.StatsKey(hash)
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var stats brew.Stats
			if json.Unmarshal(data, &stats) == nil {
				hooks.OnCacheHit(ctx, "stats")
				return stats, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "stats")
	}

	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnCalculateStart(ctx)
	start := time.Now()
	stats, err := r.Calculator.Calculate(ctx, req)
	pipelineHooks.OnCalculateComplete(ctx, time.Since(start), err)
	if err != nil {
		return brew.Stats{}, false, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if r.Cache.Set(ctx, key, data, cache.TTLStats) == nil {
			hooks.OnCacheSet(ctx, "stats", len(data))
		}
	}
	return stats, false, nil
}

// RenderWithCacheInfo renders cmp into every requested format, reporting
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, cmp compare.Comparison, opts Options) (map[render.Format][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hash, err := cache.HashJSON(struct {
		Comparison compare.Comparison `json:"comparison"`
		Scale      float64            `json:"scale"`
	}{cmp, opts.Scale})
	if err != nil {
		return nil, false, err
	}
	keys := make(map[render.Format]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{Format: string(f), Width: opts.Width})
	}

	hooks := observability.Cache()
	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	if !opts.Refresh {
		for f, key := range keys {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[f] = data
		}
		if len(artifacts) == len(keys) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	names := formatNames(opts.Formats)
	pipelineHooks := observability.Pipeline()
	pipelineHooks.OnRenderStart(ctx, names)
	start := time.Now()
	rendered, err := RenderArtifacts(ctx, cmp, opts.Formats, opts.Width, opts.Scale)
	pipelineHooks.OnRenderComplete(ctx, names, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for f, data := range rendered {
		if r.Cache.Set(ctx, keys[f], data, cache.TTLArtifact) == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func formatNames(formats []render.Format) []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
