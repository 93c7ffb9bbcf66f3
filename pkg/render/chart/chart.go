package chart

import (
	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/compare"
)

// Layout holds the fixed geometry of a chart.
type Layout struct {
	Width, Height float64
	TrackX        float64 // left edge of every track
	TrackWidth    float64
	BarHeight     float64
	Top           float64 // y of the first row
	RowPitch      float64 // distance between row tops
	LabelX        float64
	ValueGap      float64 // space between track end and value text
	BaselineShift float64 // text baseline offset from row top
	MarkerWidth   float64
	MarkerOverrun float64 // marker extends this far above and below the bar
}

// DefaultWidth is the canvas width of [DefaultLayout].
const DefaultWidth = 600

// DefaultLayout returns the 600x250 layout used by the browser UI.
func DefaultLayout() Layout {
	return Layout{
		Width:         DefaultWidth,
		Height:        250,
		TrackX:        100,
		TrackWidth:    450,
		BarHeight:     60,
		Top:           20,
		RowPitch:      80,
		LabelX:        10,
		ValueGap:      15,
		BaselineShift: 38,
		MarkerWidth:   4,
		MarkerOverrun: 5,
	}
}

// NewLayout returns the default layout stretched to width pixels. The track
// grows with the canvas; margins stay fixed. Widths narrower than the fixed
// margins fall back to the default.
func NewLayout(width int) Layout {
	l := DefaultLayout()
	if width <= 0 {
		return l
	}
	track := float64(width) - (DefaultWidth - l.TrackWidth)
	if track < 100 {
		return l
	}
	l.Width = float64(width)
	l.TrackWidth = track
	return l
}

// RowTop returns the y coordinate of row i.
func (l Layout) RowTop(i int) float64 { return l.Top + float64(i)*l.RowPitch }

// Render draws cmp with the default layout.
func Render(s Surface, cmp compare.Comparison) {
	DefaultLayout().Render(s, cmp)
}

// Draw builds the comparison for stats and style and renders it. A nil
// style selects the simple display.
func Draw(s Surface, stats brew.Stats, style *brew.Style) {
	Render(s, compare.Build(stats, style))
}

// Render draws cmp onto s.
func (l Layout) Render(s Surface, cmp compare.Comparison) {
	for i, m := range cmp.Metrics {
		y := l.RowTop(i)
		if cmp.Styled() {
			l.drawBar(s, y, m)
		}
		s.Text(l.LabelX, y+l.BaselineShift, m.Label, LabelFont)
		s.Text(l.TrackX+l.TrackWidth+l.ValueGap, y+l.BaselineShift, m.Display, LabelFont)
	}
}

func (l Layout) drawBar(s Surface, y float64, m compare.Metric) {
	s.FillRect(l.TrackX, y, l.TrackWidth, l.BarHeight, TrackColor)

	start, end := m.Window()
	s.FillRect(l.TrackX+start*l.TrackWidth, y, (end-start)*l.TrackWidth, l.BarHeight, WindowColor)

	pos := m.Fill() * l.TrackWidth
	s.FillRect(l.TrackX, y, pos, l.BarHeight, CategoryColor(m.Category))

	s.FillRect(l.TrackX+pos-l.MarkerWidth/2, y-l.MarkerOverrun,
		l.MarkerWidth, l.BarHeight+2*l.MarkerOverrun, MarkerColor)
}

// CategoryColor returns the fill color of a category.
func CategoryColor(c compare.Category) Color {
	switch c {
	case compare.BelowRange:
		return BelowColor
	case compare.AboveRange:
		return AboveColor
	default:
		return InColor
	}
}
