// Package cache provides the byte cache shared by the backend client, the
// style catalog and the chart pipeline.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry under ~/.cache/brewtower (CLI default)
//   - [RedisCache]: shared cache for server deployments
//   - [MemoryCache]: process-local map, used by tests and short-lived servers
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every component agrees on the key
// layout. Wrap a keyer with [NewScopedKeyer] to isolate namespaces.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLStats    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with an optional time-to-live.
// A ttl of 0 means the entry does not expire.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a raw backend response.
	HTTPKey(namespace, key string) string
	// StylesKey keys the style catalog fetched from source.
	StylesKey(source string) string
	// StatsKey keys statistics computed for an ingredient list hash.
	StatsKey(inputHash string) string
	// ArtifactKey keys a rendered chart.
	ArtifactKey(comparisonHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
}

// DefaultKeyer is the standard key layout:
//
//	http:<namespace>:<key>
//	styles:<hash(source)>
//	stats:<inputHash>
//	artifact:<hash(comparisonHash, opts)>
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

func (DefaultKeyer) StylesKey(source string) string {
	return hashKey("styles", source)
}

func (DefaultKeyer) StatsKey(inputHash string) string {
	return "stats:" + inputHash
}

func (DefaultKeyer) ArtifactKey(comparisonHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", comparisonHash, opts)
}
