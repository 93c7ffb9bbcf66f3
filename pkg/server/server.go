// Package server serves the brewtower backend API and the browser UI.
//
// The JSON API under /api owns recipe storage, the ingredient catalog,
// statistic calculation, BJCP styles and BeerXML import/export. The HTML
// pages render recipes and their style comparison charts server-side with
// html/template. Every error response has the shape
//
//	{"error": "human readable message", "code": "MACHINE_CODE"}
//
// with the status derived from the code (see errors.HTTPStatus).
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/brewtower/pkg/catalog"
	"github.com/matzehuels/brewtower/pkg/pipeline"
	"github.com/matzehuels/brewtower/pkg/session"
	"github.com/matzehuels/brewtower/pkg/store"
)

// Config wires the server's dependencies. Recipes, Ingredients and Catalog
// are required.
type Config struct {
	Recipes     store.RecipeStore
	Ingredients store.IngredientStore
	Catalog     *catalog.Catalog
	// Runner renders charts. Defaults to a cacheless runner with local
	// calculation over Catalog.
	Runner *pipeline.Runner
	Logger *log.Logger
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// OnDirectoryChange persists a new recipe directory. Optional.
	OnDirectoryChange func(dir string) error
	// Sessions persists each browser's style selection. Defaults to an
	// in-memory store.
	Sessions session.Store
	// SessionTTL defaults to session.DefaultTTL.
	SessionTTL time.Duration
}

// Server is the HTTP handler tree.
type Server struct {
	router      *chi.Mux
	recipes     store.RecipeStore
	ingredients store.IngredientStore
	catalog     *catalog.Catalog
	runner      *pipeline.Runner
	logger      *log.Logger
	templates   *template.Template
	onDirChange func(string) error

	// sessions backs the live preview, one state per browser.
	sessions *uiSessions
}

// New builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Recipes == nil || cfg.Ingredients == nil || cfg.Catalog == nil {
		return nil, stderrors.New("server: recipes, ingredients and catalog are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	runner := cfg.Runner
	if runner == nil {
		runner = pipeline.NewRunner(nil, cfg.Catalog, nil, nil, logger)
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		router:      chi.NewRouter(),
		recipes:     cfg.Recipes,
		ingredients: cfg.Ingredients,
		catalog:     cfg.Catalog,
		runner:      runner,
		logger:      logger,
		templates:   tmpl,
		onDirChange: cfg.OnDirectoryChange,
		sessions:    newUISessions(cfg.Sessions, cfg.SessionTTL),
	}
	s.setupMiddleware()
	s.setupRoutes(cfg.Metrics)
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5, "application/json", "text/html", "image/svg+xml", "application/xml"))
}

func (s *Server) setupRoutes(metrics http.Handler) {
	r := s.router

	r.Get("/", s.handleIndex)
	r.Get("/recipes/{filename}", s.handleRecipePage)
	r.Get("/recipes/{filename}/chart.{ext}", s.handleRecipeChart)
	r.Get("/recipes/{filename}/diagram.svg", s.handleRecipeDiagram)
	r.Post("/ui/style", s.handleSelectStyle)
	r.Post("/ui/preview", s.handlePreview)
	r.Get("/ui/bars", s.handleBars)
	r.Handle("/static/*", http.FileServer(http.FS(staticFiles)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/directory", s.handleGetDirectory)
		r.Post("/directory", s.handleSetDirectory)

		r.Get("/recipes", s.handleListRecipes)
		r.Get("/recipes/search", s.handleSearchRecipes)
		r.Get("/recipes/tags", s.handleTags)
		r.Get("/recipes/summary", s.handleSummary)

		r.Post("/recipe", s.handleCreateRecipe)
		r.Post("/recipe/calculate", s.handleCalculate)
		r.Post("/recipe/import", s.handleImport)
		r.Get("/recipe/{filename}", s.handleGetRecipe)
		r.Put("/recipe/{filename}", s.handleUpdateRecipe)
		r.Delete("/recipe/{filename}", s.handleDeleteRecipe)
		r.Patch("/recipe/{filename}/tags", s.handleSetTags)
		r.Get("/recipe/{filename}/export", s.handleExport)

		r.Get("/ingredients", s.handleListIngredients)
		r.Get("/ingredients/search", s.handleSearchIngredients)
		r.Post("/ingredients", s.handleAddIngredient)
		r.Put("/ingredients", s.handleUpdateIngredient)
		r.Delete("/ingredients", s.handleDeleteIngredient)

		r.Get("/bjcp/styles", s.handleStyles)
		r.Post("/chart", s.handleChart)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found", Code: "NOT_FOUND"})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
