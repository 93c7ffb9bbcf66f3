package cli

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brewtower/internal/config"
	"github.com/matzehuels/brewtower/pkg/backend"
	"github.com/matzehuels/brewtower/pkg/buildinfo"
	"github.com/matzehuels/brewtower/pkg/cache"
	"github.com/matzehuels/brewtower/pkg/catalog"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/session"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// retryDelay is the first backoff step for backend calls.
const retryDelay = 250 * time.Millisecond

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds state shared by all commands: the logger, the global flags and
// the configuration loaded before any command runs.
type CLI struct {
	Logger *log.Logger

	configPath string
	serverURL  string
	verbose    bool
	noCache    bool

	cfg *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file and environment, then applies the
// global flags on top.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.serverURL != "" {
		if err := errors.ValidateURL(c.serverURL); err != nil {
			return err
		}
		cfg.Backend.URL = c.serverURL
	}
	if c.noCache {
		cfg.Cache.Kind = config.CacheNone
	}
	c.cfg = cfg
	return nil
}

func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured cache backend.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config().Cache
	switch cfg.Kind {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// newClient builds a backend client sharing ch for its style reads.
func (c *CLI) newClient(ch cache.Cache, refresh bool) (*backend.Client, error) {
	cfg := c.config()
	return backend.New(cfg.Backend.URL,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout.Duration}),
		backend.WithCache(ch, cfg.Cache.TTL.Duration),
		backend.WithRetry(cfg.Backend.Retries, retryDelay),
		backend.WithHeaders(map[string]string{"User-Agent": buildinfo.UserAgent()}),
		backend.WithRefresh(refresh),
	)
}

// loadCatalog fetches the style catalog through f, reading ch first.
func (c *CLI) loadCatalog(ctx context.Context, f catalog.Fetcher, ch cache.Cache, refresh bool) (*catalog.Catalog, error) {
	cat := catalog.New(f, ch, c.Logger, catalog.WithTTL(c.config().Cache.TTL.Duration))
	load := cat.Load
	if refresh {
		load = cat.Refresh
	}
	if err := load(ctx); err != nil {
		return nil, err
	}
	return cat, nil
}

// sessionStore keeps the chart command's style selection between runs.
func (c *CLI) sessionStore() (session.Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(filepath.Join(dir, "sessions"))
}

// backendSession bundles what most commands need for one invocation.
type backendSession struct {
	client *backend.Client
	cache  cache.Cache
}

func (s *backendSession) Close() error { return s.cache.Close() }

func (c *CLI) openBackend(ctx context.Context, refresh bool) (*backendSession, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "error", err)
		ch = cache.NewNullCache()
	}
	client, err := c.newClient(ch, refresh)
	if err != nil {
		ch.Close()
		return nil, err
	}
	c.Logger.Debug("backend", "url", client.URL(), "cache", c.config().Cache.Kind)
	return &backendSession{client: client, cache: ch}, nil
}
