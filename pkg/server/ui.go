package server

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/compare"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/pipeline"
	"github.com/matzehuels/brewtower/pkg/render/chart/sink"
	"github.com/matzehuels/brewtower/pkg/session"
	"github.com/matzehuels/brewtower/pkg/store"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"og":    func(v float64) string { return compare.OriginalGravity.Format(v) },
		"one":   func(v float64) string { return compare.BitternessUnits.Format(v) },
		"split": brew.SplitTags,
		"lower": strings.ToLower,
	}
	return template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
}

func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template failed", "template", name, "id", RequestID(r.Context()), "error", err)
	}
}

// bars renders the stat-bar fragment for a comparison.
func bars(cmp compare.Comparison) template.HTML {
	out, err := sink.RenderHTML(cmp)
	if err != nil {
		return ""
	}
	return template.HTML(out)
}

type indexPage struct {
	Directory   string
	NoDirectory bool
	Tag         string
	Tags        []string
	Recipes     []brew.Recipe
	Summary     brew.Summary
	Styles      []brew.Style
	Selected    *brew.Style
	Bars        template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	us, err := s.uiSession(w, r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := us.state.Snapshot()
	page := indexPage{
		Tag:      r.URL.Query().Get("tag"),
		Styles:   s.catalog.Styles(),
		Selected: snap.Style,
	}
	if d, ok := s.recipes.(store.Directory); ok {
		page.Directory = d.Dir()
	}
	if cmp, ok := snap.Comparison(); ok {
		page.Bars = bars(cmp)
	}

	recipes, err := s.recipes.List(r.Context())
	switch {
	case errors.Is(err, errors.ErrCodeNoDirectory):
		page.NoDirectory = true
	case err != nil:
		s.writeError(w, r, err)
		return
	default:
		page.Tags = brew.AllTags(recipes)
		page.Summary = brew.Summarize(recipes)
		page.Recipes = brew.FilterByTag(recipes, page.Tag)
	}
	s.renderTemplate(w, r, "index.html", page)
}

type recipePage struct {
	Recipe *brew.Recipe
	Style  *brew.Style
	Styles []brew.Style
	Boxes  template.HTML
	Bars   template.HTML
}

func (s *Server) handleRecipePage(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recipes.Get(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page := recipePage{
		Recipe: rec,
		Styles: s.catalog.Styles(),
		Boxes:  bars(compare.Build(rec.Stats, nil)),
	}
	if id := s.recipeStyleID(r, rec); id != "" {
		st, err := s.catalog.Lookup(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		page.Style = &st
		page.Bars = bars(compare.Build(rec.Stats, &st))
	}
	s.renderTemplate(w, r, "recipe.html", page)
}

// handleSelectStyle changes the style the live preview compares against.
func (s *Server) handleSelectStyle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid form"))
		return
	}
	us, err := s.uiSession(w, r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := strings.TrimSpace(r.FormValue("style_id"))
	if id == "" {
		us.state.Clear()
	} else {
		st, err := s.catalog.Lookup(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := us.state.Select(st); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if err := s.sessions.save(r.Context(), us); err != nil {
		s.logger.Warn("session not saved", "id", RequestID(r.Context()), "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlePreview computes statistics for an ingredient list and answers with
// the stat bars of the newest result applied to the browser's session. A
// response that finishes after a newer one of the same session is dropped
// and the newer bars are returned instead.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req brew.CalcRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	us, err := s.uiSession(w, r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	t := us.state.Begin()
	stats, err := s.runner.Stats(r.Context(), pipeline.Options{
		Recipe: &brew.Recipe{Grains: req.Grains, Hops: req.Hops, BatchSize: req.BatchSize},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !us.state.Complete(t, stats) {
		s.logger.Debug("stale preview dropped", "ticket", t)
	} else if err := s.sessions.save(r.Context(), us); err != nil {
		s.logger.Warn("session not saved", "id", RequestID(r.Context()), "error", err)
	}
	s.writeBars(w, us.state.Snapshot())
}

func (s *Server) handleBars(w http.ResponseWriter, r *http.Request) {
	us, err := s.uiSession(w, r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if us == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		return
	}
	s.writeBars(w, us.state.Snapshot())
}

func (s *Server) writeBars(w http.ResponseWriter, snap session.Snapshot) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if cmp, ok := snap.Comparison(); ok {
		_, _ = w.Write([]byte(bars(cmp)))
	}
}
