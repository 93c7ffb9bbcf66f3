package sink

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/matzehuels/brewtower/pkg/compare"
)

var statBarsTmpl = template.Must(template.New("bars").Parse(`{{range .}}<div class="stat-bar-container">
  <div class="stat-bar-label"><span>{{.Label}}</span><span>{{.Display}}</span></div>
  <div class="stat-bar-track">
    <div class="stat-bar-range" style="left: {{.Left}}%; width: {{.Width}}%;"></div>
    <div class="stat-bar-value {{.Class}}" style="width: {{.Fill}}%;"></div>
    <div class="stat-bar-marker" style="left: {{.Fill}}%;"></div>
  </div>
</div>
{{end}}`))

var simpleStatsTmpl = template.Must(template.New("simple").Parse(`<div class="stats">
{{range .}}  <div class="stat-box">
    <div class="stat-label">{{.Label}}</div>
    <div class="stat-value">{{.Display}}</div>
  </div>
{{end}}</div>
`))

type htmlBar struct {
	Label, Display string
	Class          string
	// Percentages are preformatted; html/template would otherwise reject
	// them inside style attributes.
	Left, Width, Fill template.CSS
}

// RenderHTML renders the stat-bar fragment of the web UI. Without a style it
// renders the simple label/value boxes, gravity first as the recipe view
// shows it.
func RenderHTML(cmp compare.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	if !cmp.Styled() {
		type box struct{ Label, Display string }
		var boxes []box
		for _, st := range []compare.Statistic{compare.OriginalGravity, compare.BitternessUnits, compare.ColorUnits} {
			if m, ok := cmp.Metric(st); ok {
				boxes = append(boxes, box{Label: st.Title(), Display: m.Display})
			}
		}
		if err := simpleStatsTmpl.Execute(&buf, boxes); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	bars := make([]htmlBar, 0, len(cmp.Metrics))
	for _, m := range cmp.Metrics {
		start, end := m.Window()
		bars = append(bars, htmlBar{
			Label:   m.Label,
			Display: m.Display,
			Class:   m.Category.String(),
			Left:    percent(start),
			Width:   percent(end - start),
			Fill:    percent(m.Fill()),
		})
	}
	if err := statBarsTmpl.Execute(&buf, bars); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func percent(f float64) template.CSS {
	return template.CSS(fmt.Sprintf("%.2f", f*100))
}
