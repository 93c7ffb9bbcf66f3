package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/pipeline"
	"github.com/matzehuels/brewtower/pkg/render"
	"github.com/matzehuels/brewtower/pkg/render/diagram"
)

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Styles())
}

// handleCalculate computes statistics for an ingredient list. A missing batch
// size means five gallons.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req brew.CalcRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := pipeline.Local{}.Calculate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type chartRequest struct {
	Stats   brew.Stats `json:"stats"`
	StyleID string     `json:"style_id"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(queryOr(r, "format", string(render.FormatSVG)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req chartRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderChart(w, r, pipeline.Options{Stats: &req.Stats, StyleID: req.StyleID, Formats: []render.Format{format}})
}

// handleRecipeChart renders a stored recipe. The style comes from ?style=,
// falling back to the recipe's own style; ?style=none forces the simple
// display.
func (s *Server) handleRecipeChart(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "ext"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.recipes.Get(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.renderChart(w, r, pipeline.Options{Recipe: rec, StyleID: s.recipeStyleID(r, rec), Formats: []render.Format{format}})
}

func (s *Server) recipeStyleID(r *http.Request, rec *brew.Recipe) string {
	switch q := strings.TrimSpace(r.URL.Query().Get("style")); {
	case strings.EqualFold(q, "none"):
		return ""
	case q != "":
		return q
	}
	if st, ok := s.catalog.FindByName(rec.Style); ok {
		return st.ID
	}
	return ""
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Logger = s.logger.With("id", RequestID(r.Context()))
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f := opts.Formats[0]
	w.Header().Set("Content-Type", f.ContentType())
	_, _ = w.Write(res.Artifacts[f])
}

func (s *Server) handleRecipeDiagram(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recipes.Get(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed := r.URL.Query().Get("detailed") != ""
	svg, err := diagram.RenderSVG(r.Context(), diagram.ToDOT(rec, diagram.Options{Detailed: detailed}))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.FormatSVG.ContentType())
	_, _ = w.Write(svg)
}

func queryOr(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}
