package server

import (
	"net/http"

	"github.com/matzehuels/brewtower/pkg/brew"
)

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ings, err := s.ingredients.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ings)
}

func (s *Server) handleSearchIngredients(w http.ResponseWriter, r *http.Request) {
	t, err := brew.ParseIngredientType(r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ings, err := s.ingredients.Search(r.Context(), r.URL.Query().Get("q"), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ings)
}

func (s *Server) handleAddIngredient(w http.ResponseWriter, r *http.Request) {
	var ing brew.Ingredient
	if err := decodeJSON(r, &ing); err != nil {
		s.writeError(w, r, err)
		return
	}
	added, err := s.ingredients.Add(r.Context(), ing)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, added)
}

func (s *Server) handleUpdateIngredient(w http.ResponseWriter, r *http.Request) {
	var ing brew.Ingredient
	if err := decodeJSON(r, &ing); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.ingredients.Update(r.Context(), ing)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID int `json:"id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ingredients.Delete(r.Context(), body.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success{Success: true})
}
