package sink

import (
	"context"

	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/render"
)

// RenderPDF renders cmp as PDF via SVG conversion.
// Requires rsvg-convert (see [render.ToPDF]).
func RenderPDF(ctx context.Context, cmp compare.Comparison, opts ...Option) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(cmp, opts...))
}
