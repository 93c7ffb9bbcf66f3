// Package catalog holds the BJCP style catalog for a session.
//
// The catalog is loaded once (from the cache when warm, otherwise from its
// [Fetcher]) and is immutable afterwards; [Catalog.Styles] hands out the
// same snapshot until [Catalog.Refresh] replaces it. Every style is
// validated on load: a catalog containing a malformed range is rejected as
// a whole rather than filtered, because the chart renderer relies on valid
// ranges.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/cache"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/observability"
)

// Fetcher retrieves the style list from its source of truth.
type Fetcher interface {
	FetchStyles(ctx context.Context) ([]brew.Style, error)
	// Source names the origin; it scopes the cache key.
	Source() string
}

// Static serves a fixed style list. The backend uses it with
// brew.DefaultStyles.
type Static []brew.Style

func (s Static) FetchStyles(context.Context) ([]brew.Style, error) { return slices.Clone(s), nil }
func (s Static) Source() string                                    { return "static" }

// DefaultTTL bounds how long a cached catalog is reused across processes.
const DefaultTTL = 24 * time.Hour

// Catalog is a loaded style catalog. Methods are safe for concurrent use.
type Catalog struct {
	fetcher Fetcher
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	logger  *log.Logger

	mu     sync.RWMutex
	styles []brew.Style
	byID   map[string]int
	loaded time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithTTL sets the cache TTL (0 keeps entries forever).
func WithTTL(ttl time.Duration) Option { return func(c *Catalog) { c.ttl = ttl } }

// WithKeyer overrides the cache key layout.
func WithKeyer(k cache.Keyer) Option { return func(c *Catalog) { c.keyer = k } }

// New creates an empty catalog. A nil cache disables caching and a nil
// logger discards log output.
func New(fetcher Fetcher, c cache.Cache, logger *log.Logger, opts ...Option) *Catalog {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cat := &Catalog{
		fetcher: fetcher,
		cache:   c,
		keyer:   cache.NewDefaultKeyer(),
		ttl:     DefaultTTL,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(cat)
	}
	return cat
}

// Load populates the catalog once. Later calls are no-ops; use Refresh to
// reload.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.RLock()
	ready := c.styles != nil
	c.mu.RUnlock()
	if ready {
		return nil
	}
	return c.load(ctx, false)
}

// Refresh bypasses the cache, refetches the styles and replaces the
// snapshot. On failure the previous snapshot stays in place.
func (c *Catalog) Refresh(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Catalog) load(ctx context.Context, refresh bool) (err error) {
	start := time.Now()
	var styles []brew.Style
	defer func() {
		observability.Pipeline().OnCatalogLoad(ctx, len(styles), time.Since(start), err)
	}()

	key := c.keyer.StylesKey(c.fetcher.Source())
	if !refresh {
		if styles, err = c.fromCache(ctx, key); err != nil {
			return err
		}
	}
	if styles == nil {
		if styles, err = c.fetcher.FetchStyles(ctx); err != nil {
			return err
		}
		if err = Validate(styles); err != nil {
			return err
		}
		if data, merr := json.Marshal(styles); merr == nil {
			if serr := c.cache.Set(ctx, key, data, c.ttl); serr != nil {
				c.logger.Warn("style cache write failed", "error", serr)
			} else {
				observability.Cache().OnCacheSet(ctx, "styles", len(data))
			}
		}
	}

	c.set(styles)
	c.logger.Debug("style catalog loaded", "styles", len(styles), "source", c.fetcher.Source(), "refresh", refresh)
	return nil
}

// fromCache returns nil styles on a miss. A cached catalog that no longer
// validates is dropped and treated as a miss.
func (c *Catalog) fromCache(ctx context.Context, key string) ([]brew.Style, error) {
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("style cache read failed", "error", err)
		return nil, nil
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "styles")
		return nil, nil
	}
	var styles []brew.Style
	if err := json.Unmarshal(data, &styles); err != nil || Validate(styles) != nil {
		_ = c.cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "styles")
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, "styles")
	return styles, nil
}

func (c *Catalog) set(styles []brew.Style) {
	byID := make(map[string]int, len(styles))
	for i, s := range styles {
		byID[strings.ToUpper(s.ID)] = i
	}
	c.mu.Lock()
	c.styles = styles
	c.byID = byID
	c.loaded = time.Now()
	c.mu.Unlock()
}

// Validate checks every style and rejects duplicate ids.
func Validate(styles []brew.Style) error {
	seen := make(map[string]bool, len(styles))
	for _, s := range styles {
		if err := s.Validate(); err != nil {
			return err
		}
		id := strings.ToUpper(s.ID)
		if seen[id] {
			return errors.New(errors.ErrCodeInvalidStyle, "duplicate style id %s", s.ID)
		}
		seen[id] = true
	}
	return nil
}

// Loaded reports whether a snapshot is available and when it was taken.
func (c *Catalog) Loaded() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded, c.styles != nil
}

// Styles returns a copy of the current snapshot (nil before Load).
func (c *Catalog) Styles() []brew.Style {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.styles)
}

// Lookup finds a style by id, case-insensitively.
func (c *Catalog) Lookup(id string) (brew.Style, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]; ok {
		return c.styles[i], nil
	}
	return brew.Style{}, errors.New(errors.ErrCodeStyleNotFound, "style %q not found", id)
}

// FindByName resolves a recipe's free-text style ("18B - American Pale
// Ale", "American Pale Ale" or "18B"). ok is false when nothing matches.
func (c *Catalog) FindByName(text string) (brew.Style, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return brew.Style{}, false
	}
	if s, err := c.Lookup(text); err == nil {
		return s, true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.styles {
		if text == s.Label() {
			return s, true
		}
	}
	for _, s := range c.styles {
		if s.Matches(text) {
			return s, true
		}
	}
	return brew.Style{}, false
}
