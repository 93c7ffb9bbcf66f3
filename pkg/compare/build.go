package compare

import "github.com/matzehuels/brewtower/pkg/brew"

// Metric is one statistic's row in a comparison.
//
// Value, Low and High are in compared units (gravity scaled). Display always
// shows the raw native value, even when the bar is clamped.
type Metric struct {
	Statistic Statistic
	Label     string
	Display   string
	Value     float64
	Max       float64

	// Set only when the comparison has a style.
	Low, High float64
	Category  Category
}

// Fill returns the clamped fraction of the track covered by the value bar:
// min(v/max, 1), and never negative.
func (m Metric) Fill() float64 { return clampUnit(m.Value / m.Max) }

// Window returns the clamped start and end fractions of the style window
// [lo/max, hi/max].
func (m Metric) Window() (start, end float64) {
	return clampUnit(m.Low / m.Max), clampUnit(m.High / m.Max)
}

// Comparison is the renderable result of comparing statistics with an
// optional style.
type Comparison struct {
	Stats   brew.Stats
	Style   *brew.Style // nil for the simple display
	Metrics []Metric
}

// Styled reports whether the comparison carries style ranges.
func (c Comparison) Styled() bool { return c.Style != nil }

// Build derives a comparison. It is a pure function of its arguments. With a
// nil style the metrics carry only label and value.
func Build(stats brew.Stats, style *brew.Style) Comparison {
	c := Comparison{Stats: stats, Metrics: make([]Metric, 0, len(Statistics))}
	if style != nil {
		s := *style
		c.Style = &s
	}

	for _, st := range Statistics {
		raw := st.Value(stats)
		m := Metric{
			Statistic: st,
			Label:     st.Label(),
			Display:   st.Format(raw),
			Value:     st.Scale(raw),
			Max:       st.Max(),
		}
		if c.Style != nil {
			r := st.StyleRange(*c.Style)
			m.Low, m.High = st.Scale(r.Low), st.Scale(r.High)
			m.Category = Categorize(m.Value, m.Low, m.High)
		}
		c.Metrics = append(c.Metrics, m)
	}
	return c
}

// Metric returns the row for st.
func (c Comparison) Metric(st Statistic) (Metric, bool) {
	for _, m := range c.Metrics {
		if m.Statistic == st {
			return m, true
		}
	}
	return Metric{}, false
}

func clampUnit(f float64) float64 {
	return max(0, min(f, 1))
}
