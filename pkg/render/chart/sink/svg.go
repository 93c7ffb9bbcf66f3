package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/render/chart"
)

// RenderSVG draws cmp as a standalone SVG document.
func RenderSVG(cmp compare.Comparison, opts ...Option) []byte {
	r := newRenderer(opts...)
	l := r.layout

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if cmp.Styled() {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(cmp.Style.Label()))
	}
	l.Render(&svgSurface{buf: &buf}, cmp)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type svgSurface struct {
	buf *bytes.Buffer
}

func (s *svgSurface) FillRect(x, y, w, h float64, c chart.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	fmt.Fprintf(s.buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n", x, y, w, h, c)
}

func (s *svgSurface) Text(x, y float64, text string, f chart.Font) {
	weight := "normal"
	if f.Bold {
		weight = "bold"
	}
	fmt.Fprintf(s.buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.0f" font-weight="%s" fill="%s">%s</text>`+"\n",
		x, y, f.Size, weight, chart.TextColor, html.EscapeString(text))
}
