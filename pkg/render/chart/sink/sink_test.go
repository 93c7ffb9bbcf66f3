package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/render"
)

var paleAle = &brew.Style{
	ID:   "18B",
	Name: "American Pale Ale",
	IBU:  brew.Range{Low: 20, High: 60},
	SRM:  brew.Range{Low: 5, High: 10},
	OG:   brew.Range{Low: 1.045, High: 1.060},
	FG:   brew.Range{Low: 1.010, High: 1.015},
}

func styled() compare.Comparison {
	return compare.Build(brew.Stats{OG: 1.052, IBU: 130, SRM: 3}, paleAle)
}

func simple() compare.Comparison {
	return compare.Build(brew.Stats{OG: 1.052, IBU: 35, SRM: 6}, nil)
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(styled()))
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	for _, want := range []string{
		`width="600" height="250"`,
		"<title>18B - American Pale Ale</title>",
		`fill="#ef4444"`, // IBU above
		`fill="#3b82f6"`, // SRM below
		`fill="#10b981"`, // OG in
		">130.0</text>",
		">1.052</text>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderSVGSimple(t *testing.T) {
	svg := string(RenderSVG(simple()))
	if strings.Contains(svg, "<rect") {
		t.Error("simple display should not draw bars")
	}
	if got := strings.Count(svg, "<text"); got != 6 {
		t.Errorf("text elements = %d, want 6", got)
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	if !bytes.Equal(RenderSVG(styled()), RenderSVG(styled())) {
		t.Error("svg output differs between calls")
	}
}

func TestRenderSVGWidth(t *testing.T) {
	svg := string(RenderSVG(styled(), WithWidth(800)))
	if !strings.Contains(svg, `width="800"`) {
		t.Error("width option ignored")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(styled(), WithScale(2))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 500 {
		t.Errorf("bounds = %v, want 1200x500", b)
	}

	// Middle of the first track is filled red (IBU clamped above range).
	r, g, b, _ := img.At(2*300, 2*50).RGBA()
	if r>>8 != 0xef || g>>8 != 0x44 || b>>8 != 0x44 {
		t.Errorf("IBU fill pixel = %x %x %x, want ef 44 44", r>>8, g>>8, b>>8)
	}

	again, _ := RenderPNG(styled(), WithScale(2))
	if !bytes.Equal(data, again) {
		t.Error("png output differs between calls")
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML(compare.Build(brew.Stats{OG: 1.05, IBU: 45, SRM: 12}, paleAle))
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)
	for _, want := range []string{
		`class="stat-bar-value in-range" style="width: 45.00%;"`,
		`class="stat-bar-range" style="left: 20.00%; width: 40.00%;"`,
		`class="stat-bar-value above-range"`,
		"<span>1.050</span>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q\n%s", want, html)
		}
	}
	if got := strings.Count(html, "stat-bar-container"); got != 3 {
		t.Errorf("bars = %d, want 3", got)
	}
}

func TestRenderHTMLSimple(t *testing.T) {
	out, err := RenderHTML(simple())
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)
	if strings.Contains(html, "stat-bar") || strings.Contains(html, "range") {
		t.Errorf("simple display carries range markup:\n%s", html)
	}
	og := strings.Index(html, "Original Gravity")
	ibu := strings.Index(html, "IBU")
	if og < 0 || ibu < 0 || og > ibu {
		t.Errorf("expected gravity box before IBU:\n%s", html)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(styled())
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Style   *brew.Style
		Metrics []struct {
			Label    string
			Display  string
			Fill     float64
			Category string
		}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Style == nil || out.Style.ID != "18B" {
		t.Errorf("style = %+v", out.Style)
	}
	if len(out.Metrics) != 3 || out.Metrics[0].Category != "above-range" || out.Metrics[0].Fill != 1 {
		t.Errorf("metrics = %+v", out.Metrics)
	}

	data, _ = RenderJSON(simple())
	if bytes.Contains(data, []byte("category")) {
		t.Error("simple comparison should omit categories")
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.HasConverter() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := RenderPDF(context.Background(), styled())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
