package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/brewtower/pkg/beerxml"
	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/store"
)

type directoryBody struct {
	Success   bool    `json:"success,omitempty"`
	Directory *string `json:"directory"`
}

func (s *Server) handleGetDirectory(w http.ResponseWriter, r *http.Request) {
	var resp directoryBody
	if d, ok := s.recipes.(store.Directory); ok && d.Dir() != "" {
		dir := d.Dir()
		resp.Directory = &dir
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetDirectory(w http.ResponseWriter, r *http.Request) {
	d, ok := s.recipes.(store.Directory)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "recipe store has no directory"))
		return
	}
	var body struct {
		Directory string `json:"directory"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := d.SetDir(body.Directory); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidPath, "Invalid directory"))
		return
	}
	if s.onDirChange != nil {
		if err := s.onDirChange(body.Directory); err != nil {
			s.logger.Warn("could not persist recipe directory", "dir", body.Directory, "error", err)
		}
	}
	s.logger.Info("recipe directory set", "dir", body.Directory)
	writeJSON(w, http.StatusOK, directoryBody{Success: true, Directory: &body.Directory})
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		recipes = brew.FilterByTag(recipes, tag)
	}
	if recipes == nil {
		recipes = []brew.Recipe{}
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (s *Server) handleSearchRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brew.AllTags(recipes))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brew.Summarize(recipes))
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recipes.Get(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var rec brew.Recipe
	if err := decodeJSON(r, &rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Filename = ""
	s.save(w, r, &rec)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var rec brew.Recipe
	if err := decodeJSON(r, &rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Filename = chi.URLParam(r, "filename")
	s.save(w, r, &rec)
}

// save stores rec (statistics are recomputed by the store) and echoes it.
func (s *Server) save(w http.ResponseWriter, r *http.Request, rec *brew.Recipe) {
	filename, err := s.recipes.Save(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec.Filename = filename
	s.logger.Debug("recipe saved", "file", filename, "og", rec.OG, "ibu", rec.IBU, "srm", rec.SRM)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipes.Delete(r.Context(), chi.URLParam(r, "filename")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success{Success: true})
}

func (s *Server) handleSetTags(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tags string `json:"tags"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.recipes.SetTags(r.Context(), chi.URLParam(r, "filename"), body.Tags)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.recipes.Get(r.Context(), chi.URLParam(r, "filename"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := beerxml.Export(rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", beerxml.Filename(rec)))
	_, _ = w.Write(doc)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	rec, err := beerxml.Import(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.save(w, r, rec)
}
