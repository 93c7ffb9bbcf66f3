package brew

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/brewtower/pkg/errors"
)

// Range is a closed interval [Low, High] in a statistic's native units.
// On the wire it is a two-element JSON array.
type Range struct {
	Low  float64
	High float64
}

// Contains reports whether v lies in the closed interval.
func (r Range) Contains(v float64) bool { return v >= r.Low && v <= r.High }

// Validate rejects non-finite or inverted bounds.
func (r Range) Validate() error {
	for _, v := range []float64{r.Low, r.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidRange, "range bound must be finite, got %v", v)
		}
	}
	if r.Low > r.High {
		return errors.New(errors.ErrCodeInvalidRange, "range low %g exceeds high %g", r.Low, r.High)
	}
	return nil
}

// String formats the range as "low–high" with compact numbers.
func (r Range) String() string {
	return fmt.Sprintf("%g-%g", r.Low, r.High)
}

// MarshalJSON encodes the range as [low, high].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Low, r.High})
}

// UnmarshalJSON decodes a [low, high] array. Arrays with any other number of
// elements, or non-numeric elements, are rejected.
func (r *Range) UnmarshalJSON(data []byte) error {
	var bounds []float64
	if err := json.Unmarshal(data, &bounds); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRange, err, "range must be an array of two numbers")
	}
	if len(bounds) != 2 {
		return errors.New(errors.ErrCodeInvalidRange, "range must have exactly two bounds, got %d", len(bounds))
	}
	r.Low, r.High = bounds[0], bounds[1]
	return nil
}

// Style is a BJCP style with its published acceptable ranges.
type Style struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	IBU  Range  `json:"ibu"`
	SRM  Range  `json:"srm"`
	OG   Range  `json:"og"`
	FG   Range  `json:"fg"`
}

// Label returns the display text used in recipes and selectors: "ID - Name".
func (s Style) Label() string {
	return s.ID + " - " + s.Name
}

// Matches reports whether a recipe's free-text style refers to s. Recipes
// saved from the UI store Label(); imported recipes usually store just the
// name, so a name containment check covers both.
func (s Style) Matches(text string) bool {
	if text == "" {
		return false
	}
	return text == s.ID || strings.Contains(text, s.Name)
}

// Validate checks the identity fields and every range.
func (s Style) Validate() error {
	if s.ID == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "style id is required")
	}
	ranges := []struct {
		name string
		r    Range
	}{{"ibu", s.IBU}, {"srm", s.SRM}, {"og", s.OG}, {"fg", s.FG}}
	for _, rr := range ranges {
		if err := rr.r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidStyle, err, "style %s: %s range", s.ID, rr.name)
		}
	}
	return nil
}

// DefaultStyles returns the BJCP styles served by the backend.
func DefaultStyles() []Style {
	return []Style{
		{ID: "1A", Name: "American Light Lager", IBU: Range{8, 12}, SRM: Range{2, 3}, OG: Range{1.028, 1.040}, FG: Range{0.998, 1.008}},
		{ID: "5B", Name: "Kölsch", IBU: Range{18, 30}, SRM: Range{3.5, 5}, OG: Range{1.044, 1.050}, FG: Range{1.007, 1.011}},
		{ID: "10A", Name: "Weissbier", IBU: Range{8, 15}, SRM: Range{2, 6}, OG: Range{1.044, 1.052}, FG: Range{1.010, 1.014}},
		{ID: "18B", Name: "American Pale Ale", IBU: Range{30, 50}, SRM: Range{5, 10}, OG: Range{1.045, 1.060}, FG: Range{1.010, 1.015}},
		{ID: "21A", Name: "American IPA", IBU: Range{40, 70}, SRM: Range{6, 14}, OG: Range{1.056, 1.070}, FG: Range{1.008, 1.014}},
		{ID: "13A", Name: "Dark Mild", IBU: Range{10, 25}, SRM: Range{14, 25}, OG: Range{1.030, 1.038}, FG: Range{1.008, 1.013}},
		{ID: "20A", Name: "American Porter", IBU: Range{25, 50}, SRM: Range{22, 40}, OG: Range{1.050, 1.070}, FG: Range{1.012, 1.018}},
		{ID: "20C", Name: "Imperial Stout", IBU: Range{50, 90}, SRM: Range{30, 40}, OG: Range{1.075, 1.115}, FG: Range{1.018, 1.030}},
	}
}
