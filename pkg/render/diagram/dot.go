package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds amounts, PPG, color and alpha acid to node labels.
	Detailed bool
}

const (
	grainFill = "#fef3c7"
	hopFill   = "#d1fae5"
	yeastFill = "#e0e7ff"
)

// ToDOT converts a recipe into Graphviz DOT source.
func ToDOT(r *brew.Recipe, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph recipe {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, fontsize=18];\n", "recipe", recipeLabel(r), "#f3f4f6")

	rank := func(ids []string) {
		if len(ids) > 1 {
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	var ids []string
	for i, g := range r.Grains {
		id := strconv.Quote(fmt.Sprintf("grain:%d", i))
		label := g.Name
		if opts.Detailed {
			label += fmt.Sprintf("\n%g lb · %g ppg · %g°L", g.Amount, g.PPG, g.Lovibond)
		}
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q];\n", id, label, grainFill)
		fmt.Fprintf(&buf, "  %s -> \"recipe\";\n", id)
		ids = append(ids, id)
	}
	rank(ids)

	ids = ids[:0]
	for i, h := range r.Hops {
		id := strconv.Quote(fmt.Sprintf("hop:%d", i))
		label := h.Name
		if opts.Detailed {
			label += fmt.Sprintf("\n%g oz · %g%% AA", h.Amount, h.Alpha)
		}
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q];\n", id, label, hopFill)
		fmt.Fprintf(&buf, "  %s -> \"recipe\" [label=%q];\n", id, fmt.Sprintf("%g min", h.Time))
		ids = append(ids, id)
	}
	rank(ids)

	ids = ids[:0]
	for i, y := range r.Yeasts {
		id := strconv.Quote(fmt.Sprintf("yeast:%d", i))
		label := y.Name
		if opts.Detailed && y.Type != "" {
			label += "\n" + y.Type
		}
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q, shape=ellipse];\n", id, label, yeastFill)
		fmt.Fprintf(&buf, "  %s -> \"recipe\" [style=dashed];\n", id)
		ids = append(ids, id)
	}
	rank(ids)

	buf.WriteString("}\n")
	return buf.String()
}

func recipeLabel(r *brew.Recipe) string {
	parts := []string{r.Name}
	if r.Style != "" {
		parts = append(parts, r.Style)
	}
	if r.OG > 0 {
		parts = append(parts, fmt.Sprintf("OG %.3f · IBU %.1f · SRM %.1f", r.OG, r.IBU, r.SRM))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a pixel
// sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders DOT source to PDF via SVG.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source to PNG via SVG at the given scale.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
