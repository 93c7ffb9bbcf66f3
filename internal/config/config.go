// Package config loads brewtower settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults,
//  2. the TOML file (~/.config/brewtower/config.toml unless --config says otherwise),
//  3. BREWTOWER_* environment variables, with a .env file in the working
//     directory loaded first.
//
// Command-line flags override the result in the cli package.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/brewtower/pkg/errors"
)

const appName = "brewtower"

// Store kinds.
const (
	StoreDir   = "dir"
	StoreMongo = "mongo"
)

// Cache kinds.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the merged configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Backend BackendConfig `toml:"backend"`
	Store   StoreConfig   `toml:"store"`
	Cache   CacheConfig   `toml:"cache"`
	Chart   ChartConfig   `toml:"chart"`

	path string
}

type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

type BackendConfig struct {
	URL     string   `toml:"url"`
	Retries int      `toml:"retries"`
	Timeout Duration `toml:"timeout"`
}

type StoreConfig struct {
	Kind          string `toml:"kind"`
	RecipeDir     string `toml:"recipe_dir"`
	Ingredients   string `toml:"ingredients"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

type CacheConfig struct {
	Kind      string   `toml:"kind"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

type ChartConfig struct {
	Width int `toml:"width"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Dir returns the configuration directory ($XDG_CONFIG_HOME/brewtower or
// ~/.config/brewtower).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns $XDG_CACHE_HOME/brewtower or ~/.cache/brewtower.
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DefaultPath is the config file used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Default returns the built-in settings. Paths that depend on the home
// directory are left empty when it cannot be determined.
func Default() *Config {
	cfg := &Config{
		Server:  ServerConfig{Addr: "localhost:5000"},
		Backend: BackendConfig{URL: "http://localhost:5000", Retries: 3, Timeout: Duration{10 * time.Second}},
		Store:   StoreConfig{Kind: StoreDir, MongoDatabase: appName},
		Cache:   CacheConfig{Kind: CacheFile, TTL: Duration{24 * time.Hour}},
		Chart:   ChartConfig{Width: 600},
	}
	if dir, err := Dir(); err == nil {
		cfg.Store.Ingredients = filepath.Join(dir, "ingredients.json")
	}
	if dir, err := CacheDir(); err == nil {
		cfg.Cache.Dir = dir
	}
	return cfg
}

// Load reads the config file at path (DefaultPath when empty; a missing file
// is fine), then applies the environment. envFiles default to ".env".
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("config path: %w", err)
		}
		path = p
	}
	cfg := Default()
	cfg.path = path

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// env maps variables to setters. Order matters only for error messages.
var env = []struct {
	name string
	set  func(*Config, string) error
}{
	{"BREWTOWER_ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
	{"BREWTOWER_METRICS", func(c *Config, v string) (err error) { c.Server.Metrics, err = strconv.ParseBool(v); return }},
	{"BREWTOWER_SERVER", func(c *Config, v string) error { c.Backend.URL = v; return nil }},
	{"BREWTOWER_RETRIES", func(c *Config, v string) (err error) { c.Backend.Retries, err = strconv.Atoi(v); return }},
	{"BREWTOWER_TIMEOUT", func(c *Config, v string) error { return c.Backend.Timeout.UnmarshalText([]byte(v)) }},
	{"BREWTOWER_STORE", func(c *Config, v string) error { c.Store.Kind = v; return nil }},
	{"BREWTOWER_RECIPE_DIR", func(c *Config, v string) error { c.Store.RecipeDir = v; return nil }},
	{"BREWTOWER_INGREDIENTS", func(c *Config, v string) error { c.Store.Ingredients = v; return nil }},
	{"BREWTOWER_MONGO_URI", func(c *Config, v string) error { c.Store.MongoURI = v; return nil }},
	{"BREWTOWER_MONGO_DB", func(c *Config, v string) error { c.Store.MongoDatabase = v; return nil }},
	{"BREWTOWER_CACHE", func(c *Config, v string) error { c.Cache.Kind = v; return nil }},
	{"BREWTOWER_CACHE_DIR", func(c *Config, v string) error { c.Cache.Dir = v; return nil }},
	{"BREWTOWER_REDIS_ADDR", func(c *Config, v string) error { c.Cache.RedisAddr = v; return nil }},
	{"BREWTOWER_CACHE_TTL", func(c *Config, v string) error { return c.Cache.TTL.UnmarshalText([]byte(v)) }},
	{"BREWTOWER_CHART_WIDTH", func(c *Config, v string) (err error) { c.Chart.Width, err = strconv.Atoi(v); return }},
}

func (c *Config) applyEnv() error {
	for _, e := range env {
		v, ok := os.LookupEnv(e.name)
		if !ok || v == "" {
			continue
		}
		if err := e.set(c, v); err != nil {
			return fmt.Errorf("%s: %w", e.name, err)
		}
	}
	return nil
}

// Validate checks enumerations and the settings each kind requires.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreDir:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidInput, "store kind %q needs mongo_uri", StoreMongo)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store kind %q (want dir or mongo)", c.Store.Kind)
	}
	switch c.Cache.Kind {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache kind %q needs redis_addr", CacheRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache kind %q (want file, redis or none)", c.Cache.Kind)
	}
	if err := errors.ValidateURL(c.Backend.URL); err != nil {
		return err
	}
	if c.Chart.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart width must be positive, got %d", c.Chart.Width)
	}
	if c.Backend.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "retries must not be negative, got %d", c.Backend.Retries)
	}
	return nil
}

// Path is the file the config was loaded from and is saved to.
func (c *Config) Path() string { return c.path }

// Save writes c to its path, creating the directory.
func (c *Config) Save() error {
	if c.path == "" {
		return stderrors.New("config: no path to save to")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", c.path, err)
	}
	return f.Close()
}

// SetRecipeDir records dir as the recipe directory in memory and in the
// config file. Only the file's own settings are written back, never values
// that came from the environment.
func (c *Config) SetRecipeDir(dir string) error {
	c.Store.RecipeDir = dir
	stored, err := readFile(c.path)
	if err != nil {
		return err
	}
	stored.Store.RecipeDir = dir
	return stored.Save()
}
