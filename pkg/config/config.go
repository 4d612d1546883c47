// Package config loads mindtower settings from a TOML file.
//
// A missing path yields [Default]. Values in the file overlay the defaults;
// a [[presets]] array replaces the whole default preset list.
//
//	node_size = 200.0
//
//	[[presets]]
//	name = "wide"
//	direction = "LR"
//	sibling_spacing = 30.0
//	level_spacing = 320.0
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/layout"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Config is the full configuration.
type Config struct {
	NodeSize float64         `toml:"node_size"`
	Presets  []layout.Preset `toml:"presets"`
	Server   Server          `toml:"server"`
	Cache    Cache           `toml:"cache"`
	Store    Store           `toml:"store"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`

	// IdleTimeout evicts saved diagrams that have not been touched for
	// this long. Unsaved diagrams stay live until saved or deleted.
	IdleTimeout Duration `toml:"idle_timeout"`
}

// Cache configures the layout cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// Store configures document persistence.
type Store struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		NodeSize: layout.DefaultNodeSize,
		Presets:  layout.DefaultPresets(),
		Server:   Server{Addr: ":8080", IdleTimeout: Duration{30 * time.Minute}},
		Cache:    Cache{Backend: CacheFile, TTL: Duration{24 * time.Hour}},
		Store:    Store{Backend: StoreMemory, Database: "mindtower", Collection: "diagrams"},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML data into cfg. Keys the decoder does not know are
// rejected so typos surface early.
func Parse(data []byte, cfg *Config) error {
	var file Config
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}

	if md.IsDefined("node_size") {
		cfg.NodeSize = file.NodeSize
	}
	if md.IsDefined("presets") {
		cfg.Presets = file.Presets
	}
	overlay(md, []string{"server", "addr"}, &cfg.Server.Addr, file.Server.Addr)
	if md.IsDefined("server", "idle_timeout") {
		cfg.Server.IdleTimeout = file.Server.IdleTimeout
	}
	overlay(md, []string{"cache", "backend"}, &cfg.Cache.Backend, file.Cache.Backend)
	overlay(md, []string{"cache", "dir"}, &cfg.Cache.Dir, file.Cache.Dir)
	overlay(md, []string{"cache", "redis_addr"}, &cfg.Cache.RedisAddr, file.Cache.RedisAddr)
	overlay(md, []string{"cache", "prefix"}, &cfg.Cache.Prefix, file.Cache.Prefix)
	if md.IsDefined("cache", "ttl") {
		cfg.Cache.TTL = file.Cache.TTL
	}
	overlay(md, []string{"store", "backend"}, &cfg.Store.Backend, file.Store.Backend)
	overlay(md, []string{"store", "dir"}, &cfg.Store.Dir, file.Store.Dir)
	overlay(md, []string{"store", "mongo_uri"}, &cfg.Store.MongoURI, file.Store.MongoURI)
	overlay(md, []string{"store", "database"}, &cfg.Store.Database, file.Store.Database)
	overlay(md, []string{"store", "collection"}, &cfg.Store.Collection, file.Store.Collection)
	return nil
}

func overlay(md toml.MetaData, key []string, dst *string, v string) {
	if md.IsDefined(key...) {
		*dst = v
	}
}

// Validate checks presets, node size and backend selections.
func (c Config) Validate() error {
	if c.NodeSize <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "node_size must be positive")
	}
	if len(c.Presets) == 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "at least one preset is required")
	}
	for _, p := range c.Presets {
		if err := p.Validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid preset")
		}
	}

	if c.Server.IdleTimeout.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.idle_timeout must not be negative")
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}

	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store backend %q (must be one of: memory, file, mongo)", c.Store.Backend)
	}
	return nil
}

// String renders the configuration as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
