// Package render holds the output stage shared by the chart and diagram
// renderers.
//
// Chart drawing lives in [chart] with its output formats in chart/sink; the
// recipe ingredient diagram lives in [diagram]. This package converts SVG
// to PDF or PNG through the external rsvg-convert tool:
//
//	svg := sink.RenderSVG(cmp)
//	pdf, err := render.ToPDF(ctx, svg)
//
// rsvg-convert ships with librsvg: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
package render
