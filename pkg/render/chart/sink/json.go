package sink

import (
	"encoding/json"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/compare"
)

type jsonOutput struct {
	Stats   brew.Stats   `json:"stats"`
	Style   *brew.Style  `json:"style,omitempty"`
	Metrics []jsonMetric `json:"metrics"`
}

type jsonMetric struct {
	Label    string      `json:"label"`
	Display  string      `json:"display"`
	Value    float64     `json:"value"`
	Max      float64     `json:"max"`
	Fill     float64     `json:"fill"`
	Range    *[2]float64 `json:"range,omitempty"`
	Window   *[2]float64 `json:"window,omitempty"`
	Category string      `json:"category,omitempty"`
}

// RenderJSON encodes the comparison for API clients. Values are in compared
// units (gravity scaled); display strings carry the native values.
func RenderJSON(cmp compare.Comparison) ([]byte, error) {
	out := jsonOutput{Stats: cmp.Stats, Style: cmp.Style, Metrics: make([]jsonMetric, 0, len(cmp.Metrics))}
	for _, m := range cmp.Metrics {
		jm := jsonMetric{
			Label:   m.Label,
			Display: m.Display,
			Value:   m.Value,
			Max:     m.Max,
			Fill:    m.Fill(),
		}
		if cmp.Styled() {
			start, end := m.Window()
			jm.Range = &[2]float64{m.Low, m.High}
			jm.Window = &[2]float64{start, end}
			jm.Category = m.Category.String()
		}
		out.Metrics = append(out.Metrics, jm)
	}
	return json.MarshalIndent(out, "", "  ")
}
