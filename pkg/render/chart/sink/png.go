package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/render/chart"
)

// RenderPNG rasterizes cmp without external tools. Text uses the 7x13
// bitmap face; bold text is overstruck one pixel to the right.
func RenderPNG(cmp compare.Comparison, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	l := r.layout

	w := int(math.Ceil(l.Width * r.scale))
	h := int(math.Ceil(l.Height * r.scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	l.Render(&pngSurface{img: img, scale: r.scale}, cmp)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pngSurface struct {
	img   *image.RGBA
	scale float64
}

func (s *pngSurface) px(v float64) int { return int(math.Round(v * s.scale)) }

func (s *pngSurface) FillRect(x, y, w, h float64, c chart.Color) {
	rect := image.Rect(s.px(x), s.px(y), s.px(x+w), s.px(y+h))
	draw.Draw(s.img, rect, image.NewUniform(rgba(c)), image.Point{}, draw.Over)
}

func (s *pngSurface) Text(x, y float64, text string, f chart.Font) {
	dr := &font.Drawer{Dst: s.img, Src: image.NewUniform(rgba(chart.TextColor)), Face: basicfont.Face7x13}
	dr.Dot = fixed.Point26_6{X: fixed.I(s.px(x)), Y: fixed.I(s.px(y))}
	dr.DrawString(text)
	if f.Bold {
		dr.Dot = fixed.Point26_6{X: fixed.I(s.px(x) + 1), Y: fixed.I(s.px(y))}
		dr.DrawString(text)
	}
}

func rgba(c chart.Color) color.RGBA {
	r, g, b := c.RGB()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
