package sink

import "github.com/matzehuels/brewtower/pkg/render/chart"

// Option configures the drawn formats (SVG, PNG, PDF).
type Option func(*renderer)

type renderer struct {
	layout chart.Layout
	scale  float64
}

// WithLayout replaces the default chart geometry.
func WithLayout(l chart.Layout) Option { return func(r *renderer) { r.layout = l } }

// WithWidth stretches the chart to the given pixel width.
func WithWidth(w int) Option { return func(r *renderer) { r.layout = chart.NewLayout(w) } }

// WithScale sets the raster scale factor for PNG output (default 1).
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

func newRenderer(opts ...Option) renderer {
	r := renderer{layout: chart.DefaultLayout(), scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
