package cli

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brewtower/internal/config"
	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/cache"
	"github.com/matzehuels/brewtower/pkg/catalog"
	"github.com/matzehuels/brewtower/pkg/observability/prom"
	"github.com/matzehuels/brewtower/pkg/pipeline"
	"github.com/matzehuels/brewtower/pkg/server"
	"github.com/matzehuels/brewtower/pkg/session"
	"github.com/matzehuels/brewtower/pkg/store"
)

type serveOpts struct {
	addr    string
	dir     string
	metrics bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the backend API and web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if opts.dir != "" {
				cfg.Store.RecipeDir = opts.dir
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Server.Metrics = opts.metrics
			}
			return c.runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default localhost:5000)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "recipe directory")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "serve Prometheus metrics at /metrics")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	srv, closeFn, err := c.buildServer(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	addr := c.config().Server.Addr
	printSuccess("Serving brewtower on %s", StyleHighlight.Render("http://"+addr))
	printNextStep("Chart a recipe", "brewtower chart <recipe.json> --pick")
	return srv.ListenAndServe(ctx, addr)
}

// buildServer wires stores, catalog, cache and metrics from the
// configuration. closeFn releases the cache and database connections.
func (c *CLI) buildServer(ctx context.Context) (srv *server.Server, closeFn func(), err error) {
	cfg := c.config()
	var closers []func()
	closeFn = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			closeFn()
		}
	}()

	ch, err := c.newCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "kind", cfg.Cache.Kind, "error", err)
		ch = cache.NewNullCache()
	}
	closers = append(closers, func() { ch.Close() })

	recipes, ingredients, closeStore, err := c.openStores(ctx)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	cat, err := c.loadCatalog(ctx, catalog.Static(brew.DefaultStyles()), ch, false)
	if err != nil {
		return nil, nil, err
	}

	var metrics http.Handler
	if cfg.Server.Metrics {
		obs, err := prom.New("brewtower", nil)
		if err != nil {
			return nil, nil, fmt.Errorf("metrics: %w", err)
		}
		obs.Install()
		metrics = obs.Handler()
	}

	uiSessions, sessErr := c.uiSessionStore()
	if sessErr != nil {
		c.Logger.Warn("browser sessions will not survive a restart", "error", sessErr)
	}

	srv, err = server.New(server.Config{
		Recipes:           recipes,
		Ingredients:       ingredients,
		Catalog:           cat,
		Runner:            pipeline.NewRunner(nil, cat, ch, nil, c.Logger),
		Logger:            c.Logger,
		Metrics:           metrics,
		OnDirectoryChange: cfg.SetRecipeDir,
		Sessions:          uiSessions,
	})
	if err != nil {
		return nil, nil, err
	}
	return srv, closeFn, nil
}

func (c *CLI) openStores(ctx context.Context) (store.RecipeStore, store.IngredientStore, func(), error) {
	cfg := c.config().Store
	if cfg.Kind == config.StoreMongo {
		ms, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, nil, err
		}
		c.Logger.Info("using mongo store", "database", cfg.MongoDatabase)
		return ms, ms.Ingredients(), func() { _ = ms.Close(context.Background()) }, nil
	}

	recipes := store.NewDirStore("", c.Logger)
	if cfg.RecipeDir != "" {
		if err := recipes.SetDir(cfg.RecipeDir); err != nil {
			c.Logger.Warn("recipe directory unusable, set one from the UI", "dir", cfg.RecipeDir, "error", err)
		}
	}
	return recipes, store.NewFileIngredients(cfg.Ingredients), func() {}, nil
}

// uiSessionStore keeps each browser's style selection across restarts.
func (c *CLI) uiSessionStore() (session.Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	fs, err := session.NewFileStore(filepath.Join(dir, "ui-sessions"))
	if err != nil {
		return nil, err
	}
	return fs, nil
}
