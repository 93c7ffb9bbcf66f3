package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/brewtower/pkg/compare"
)

// barCells is the width of a terminal stat bar in character cells.
const barCells = 40

var (
	barLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(5)
	barValueStyle = lipgloss.NewStyle().Foreground(colorWhite).Width(8).Align(lipgloss.Right)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	barBandStyle  = lipgloss.NewStyle().Foreground(colorBand)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 2).
			Align(lipgloss.Center)
)

func categoryStyle(c compare.Category) lipgloss.Style {
	switch c {
	case compare.BelowRange:
		return lipgloss.NewStyle().Foreground(colorBlue)
	case compare.AboveRange:
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorGreen)
	}
}

// renderBars draws the comparison for a terminal: one bar per statistic with
// the style window shaded behind the value, or label/value boxes when no
// style is selected.
func renderBars(cmp compare.Comparison) string {
	if !cmp.Styled() {
		return renderBoxes(cmp)
	}

	var b strings.Builder
	for _, m := range cmp.Metrics {
		fill := cell(m.Fill())
		start, end := m.Window()
		lo, hi := cell(start), cell(end)
		valueStyle := categoryStyle(m.Category)

		var track strings.Builder
		for i := 0; i < barCells; i++ {
			switch {
			case i < fill:
				track.WriteString(valueStyle.Render("█"))
			case i >= lo && i < hi:
				track.WriteString(barBandStyle.Render("▒"))
			default:
				track.WriteString(barEmptyStyle.Render("·"))
			}
		}
		b.WriteString(barLabelStyle.Render(m.Label))
		b.WriteString(track.String())
		b.WriteString(barValueStyle.Render(m.Display))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(m.Category.String()))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBoxes shows gravity first, matching the recipe page.
func renderBoxes(cmp compare.Comparison) string {
	var boxes []string
	for _, st := range []compare.Statistic{compare.OriginalGravity, compare.BitternessUnits, compare.ColorUnits} {
		m, ok := cmp.Metric(st)
		if !ok {
			continue
		}
		boxes = append(boxes, boxStyle.Render(StyleDim.Render(st.Title())+"\n"+StyleValue.Bold(true).Render(m.Display)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...) + "\n"
}

func cell(fraction float64) int {
	return int(math.Round(fraction * barCells))
}
