// Package config loads the blockdock configuration file.
//
// The file lives at $XDG_CONFIG_HOME/blockdock/config.toml
// (~/.config/blockdock/config.toml when XDG_CONFIG_HOME is unset). A
// missing file means defaults; command-line flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blockdock/pkg/cache"
	"github.com/matzehuels/blockdock/pkg/dock"
	bderrors "github.com/matzehuels/blockdock/pkg/errors"
	"github.com/matzehuels/blockdock/pkg/store"
)

const appName = "blockdock"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreDir   = "dir"
	StoreMongo = "mongo"
)

// Config holds blockdock configuration.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Cache   CacheConfig   `toml:"cache"`
	Store   StoreConfig   `toml:"store"`
	Dock    DockConfig    `toml:"dock"`
	Server  ServerConfig  `toml:"server"`
}

// CatalogConfig names the default catalog.
type CatalogConfig struct {
	Manifest string `toml:"manifest"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"` // "file", "redis", "none"
	Dir           string `toml:"dir"`     // file backend; empty means the XDG cache dir
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	TTL           string `toml:"ttl"` // Go duration, e.g. "168h"
	Namespace     string `toml:"namespace"`
}

// StoreConfig selects where published definitions go.
type StoreConfig struct {
	Backend    string `toml:"backend"` // "dir", "mongo"
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DockConfig tunes snapping. Zero values fall back to the engine defaults.
type DockConfig struct {
	Slack              float64 `toml:"slack"`
	SnapThreshold      float64 `toml:"snap_threshold"`
	TrashDivisor       float64 `toml:"trash_divisor"`
	ScreenTrashDivisor float64 `toml:"screen_trash_divisor"`
	PopOnDragStart     bool    `toml:"pop_on_drag_start"`
}

// ServerConfig controls `blockdock serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	d := dock.DefaultConfig()
	return &Config{
		Cache: CacheConfig{Backend: CacheFile, TTL: cache.TTLArtifact.String()},
		Store: StoreConfig{Backend: StoreDir, Database: appName, Collection: "definitions"},
		Dock: DockConfig{
			Slack:              d.Slack,
			SnapThreshold:      d.SnapThreshold,
			TrashDivisor:       d.TrashDivisor,
			ScreenTrashDivisor: d.ScreenTrashDivisor,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the blockdock config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error. Unknown keys are, so typos don't silently fall back.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, bderrors.Wrap(bderrors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, bderrors.New(bderrors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks backend names and the TTL.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return bderrors.New(bderrors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return bderrors.New(bderrors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case StoreDir:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return bderrors.New(bderrors.ErrCodeInvalidInput, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return bderrors.New(bderrors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL returns the artifact TTL. An empty value means the default.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return cache.TTLArtifact, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return 0, bderrors.New(bderrors.ErrCodeInvalidInput, "invalid cache.ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// DockConfig converts the [dock] table for dock.New.
func (c *Config) DockConfig() dock.Config {
	return dock.Config{
		Slack:              c.Dock.Slack,
		SnapThreshold:      c.Dock.SnapThreshold,
		TrashDivisor:       c.Dock.TrashDivisor,
		ScreenTrashDivisor: c.Dock.ScreenTrashDivisor,
		PopOnDragStart:     c.Dock.PopOnDragStart,
	}
}

// RedisConfig converts the [cache] table for cache.NewRedisCache.
func (c *Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     c.Cache.RedisAddr,
		Password: c.Cache.RedisPassword,
		DB:       c.Cache.RedisDB,
		Prefix:   appName + ":",
	}
}

// Keyer returns the cache keyer. A namespace scopes every key so that
// several deployments can share one backend.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Namespace+":")
}

// MongoConfig converts the [store] table for store.NewMongoStore.
func (c *Config) MongoConfig() store.MongoConfig {
	return store.MongoConfig{
		URI:        c.Store.MongoURI,
		Database:   c.Store.Database,
		Collection: c.Store.Collection,
	}
}
