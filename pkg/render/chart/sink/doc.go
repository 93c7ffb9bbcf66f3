// Package sink turns a [compare.Comparison] into output bytes.
//
//   - SVG: vector chart drawn through an SVG [chart.Surface]
//   - PNG: raster chart drawn directly into an image (no external tools)
//   - PDF: the SVG converted with rsvg-convert
//   - HTML: the stat-bar fragment embedded by the web UI
//   - JSON: the comparison itself, for API clients
//
// All renderers are pure: identical comparisons produce identical bytes.
package sink
