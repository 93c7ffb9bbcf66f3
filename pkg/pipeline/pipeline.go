// Package pipeline turns recipe statistics into style comparison charts.
//
// The CLI and the server share one [Runner]. A run has two stages:
//
//  1. Calculate: statistics are taken as given, or computed for a recipe's
//     ingredients by a [Calculator] (the backend client in the CLI, the
//     local calculation in the server). Results are cached by a hash of the
//     ingredient list.
//  2. Render: the style is looked up, a [compare.Comparison] is built and
//     drawn into each requested format. Artifacts are cached by a hash of
//     the comparison and the render options.
//
// Usage:
//
//	runner := pipeline.NewRunner(client, cat, c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Recipe:  recipe,
//	    StyleID: "21A",
//	    Formats: []render.Format{render.FormatSVG, render.FormatPNG},
//	})
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/render"
	"github.com/matzehuels/brewtower/pkg/render/chart"
)

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []render.Format{render.FormatSVG}

// Calculator computes recipe statistics. backend.Client implements it over
// HTTP; [Local] computes in process.
type Calculator interface {
	Calculate(ctx context.Context, req brew.CalcRequest) (brew.Stats, error)
}

// StyleLookup resolves style ids. catalog.Catalog implements it.
type StyleLookup interface {
	Lookup(id string) (brew.Style, error)
}

// Local is the in-process Calculator.
type Local struct{}

func (Local) Calculate(_ context.Context, req brew.CalcRequest) (brew.Stats, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return brew.Stats{}, err
	}
	return brew.Calculate(req.BatchSize, req.Grains, req.Hops), nil
}

// Options configures one run. Exactly one of Recipe and Stats is set.
type Options struct {
	// Recipe is sent to the Calculator; its stored statistics are ignored.
	Recipe *brew.Recipe
	// Stats skips the calculation stage.
	Stats *brew.Stats

	// StyleID selects the comparison style. Empty renders the simple
	// display without ranges.
	StyleID string

	Formats []render.Format
	// Width is the chart width in pixels (default chart.DefaultWidth).
	Width int
	// Scale is the PNG raster scale (default 1).
	Scale float64

	// Refresh bypasses cached statistics and artifacts.
	Refresh bool

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	switch {
	case o.Recipe == nil && o.Stats == nil:
		return errors.New(errors.ErrCodeInvalidInput, "either a recipe or statistics are required")
	case o.Recipe != nil && o.Stats != nil:
		return errors.New(errors.ErrCodeInvalidInput, "recipe and statistics are mutually exclusive")
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	for _, f := range o.Formats {
		if _, err := render.ParseFormat(string(f)); err != nil {
			return err
		}
	}
	if o.Width == 0 {
		o.Width = chart.DefaultWidth
	}
	if o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %d", o.Width)
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}
	o.StyleID = strings.TrimSpace(o.StyleID)
	o.validated = true
	return nil
}

// ParseFormats parses a comma-separated format list ("svg,png").
func ParseFormats(s string) ([]render.Format, error) {
	var formats []render.Format
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		f, err := render.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// Result is the output of a run.
type Result struct {
	Stats brew.Stats
	// Style is nil for the simple display.
	Style      *brew.Style
	Comparison compare.Comparison
	Artifacts  map[render.Format][]byte
	CacheInfo  CacheInfo
	Durations  Durations
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	StatsHit  bool // statistics came from the cache
	RenderHit bool // every artifact came from the cache
}

// Durations are the wall times of the two stages.
type Durations struct {
	Calculate time.Duration
	Render    time.Duration
}
