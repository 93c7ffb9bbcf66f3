package pipeline

import (
	"context"

	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/render"
	"github.com/matzehuels/brewtower/pkg/render/chart/sink"
)

// RenderArtifacts draws cmp into each format. PDF needs rsvg-convert; the
// other formats are rendered in process.
func RenderArtifacts(ctx context.Context, cmp compare.Comparison, formats []render.Format, width int, scale float64) (map[render.Format][]byte, error) {
	opts := []sink.Option{sink.WithWidth(width), sink.WithScale(scale)}
	out := make(map[render.Format][]byte, len(formats))
	for _, f := range formats {
		data, err := renderOne(ctx, cmp, f, opts)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

func renderOne(ctx context.Context, cmp compare.Comparison, f render.Format, opts []sink.Option) ([]byte, error) {
	switch f {
	case render.FormatSVG:
		return sink.RenderSVG(cmp, opts...), nil
	case render.FormatPNG:
		return sink.RenderPNG(cmp, opts...)
	case render.FormatPDF:
		return sink.RenderPDF(ctx, cmp, opts...)
	case render.FormatHTML:
		return sink.RenderHTML(cmp)
	case render.FormatJSON:
		return sink.RenderJSON(cmp)
	}
	_, err := render.ParseFormat(string(f))
	return nil, err
}
