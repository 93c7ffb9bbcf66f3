// Package compare maps a recipe's statistics and a style's ranges onto a
// shared bar layout and classifies each statistic as in, below or above the
// style window.
//
// Original gravity is compared on a delta scale, (og-1)*1000, so that a
// gravity of 1.050 becomes 50 and sits on the same kind of axis as
// bitterness and color. Ranges handed to [Build] must already be validated
// (see brew.Style.Validate); Build does not repair inverted bounds.
package compare

import (
	"fmt"

	"github.com/matzehuels/brewtower/pkg/brew"
)

// Statistic identifies one of the compared recipe statistics.
type Statistic int

const (
	OriginalGravity Statistic = iota
	BitternessUnits
	ColorUnits
)

// Statistics lists the statistics in display order.
var Statistics = []Statistic{BitternessUnits, ColorUnits, OriginalGravity}

// Track maxima in compared units.
const (
	GravityMax    = 120.0 // gravity points, (og-1)*1000
	BitternessMax = 100.0
	ColorMax      = 40.0
)

// Label returns the short display label.
func (s Statistic) Label() string {
	switch s {
	case OriginalGravity:
		return "OG"
	case BitternessUnits:
		return "IBU"
	case ColorUnits:
		return "SRM"
	default:
		return fmt.Sprintf("Statistic(%d)", int(s))
	}
}

// Title returns the long display label used by the simple display.
func (s Statistic) Title() string {
	switch s {
	case OriginalGravity:
		return "Original Gravity"
	case BitternessUnits:
		return "IBU"
	case ColorUnits:
		return "SRM"
	default:
		return s.Label()
	}
}

// Max returns the normalization maximum of the statistic's track.
func (s Statistic) Max() float64 {
	switch s {
	case OriginalGravity:
		return GravityMax
	case BitternessUnits:
		return BitternessMax
	default:
		return ColorMax
	}
}

// Format renders a raw (native-unit) value: gravity with 3 decimals,
// bitterness and color with 1.
func (s Statistic) Format(v float64) string {
	if s == OriginalGravity {
		return fmt.Sprintf("%.3f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// Value extracts the statistic's native value from stats.
func (s Statistic) Value(st brew.Stats) float64 {
	switch s {
	case OriginalGravity:
		return st.OG
	case BitternessUnits:
		return st.IBU
	default:
		return st.SRM
	}
}

// StyleRange extracts the statistic's native range from a style.
func (s Statistic) StyleRange(st brew.Style) brew.Range {
	switch s {
	case OriginalGravity:
		return st.OG
	case BitternessUnits:
		return st.IBU
	default:
		return st.SRM
	}
}

// Scale converts a native value to compared units. Only gravity changes.
func (s Statistic) Scale(v float64) float64 {
	if s == OriginalGravity {
		return ScaleGravity(v)
	}
	return v
}

// ScaleGravity converts a specific gravity to gravity points: (og-1)*1000.
func ScaleGravity(og float64) float64 { return (og - 1) * 1000 }

// UnscaleGravity is the inverse of ScaleGravity.
func UnscaleGravity(points float64) float64 { return points/1000 + 1 }
