// Package config loads the optional causaltower configuration file.
//
// The file lives at $XDG_CONFIG_HOME/causaltower/config.toml (falling back to
// ~/.config/causaltower/config.toml) and may set any subset of:
//
//	[identify]
//	mode = "shortest"
//	greedy = true
//	seed = 42
//	parallelism = 4
//
//	[cache]
//	backend = "file"          # file, redis or none
//	dir = "~/.cache/causaltower"
//	redis_addr = "localhost:6379"
//	prefix = "staging:"       # redis key prefix
//	ttl = "168h"
//
//	[serve]
//	addr = ":8080"
//	max_nodes = 64
//
// Missing keys keep their defaults. Command-line flags override the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/causaltower/pkg/identify"
	"github.com/matzehuels/causaltower/pkg/pipeline"
)

// AppName names the configuration and cache directories.
const AppName = "causaltower"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	Identify Identify `toml:"identify"`
	Cache    Cache    `toml:"cache"`
	Serve    Serve    `toml:"serve"`
}

// Identify holds identification defaults.
type Identify struct {
	Mode        string `toml:"mode"`
	Greedy      bool   `toml:"greedy"`
	Seed        uint64 `toml:"seed"`
	Parallelism int    `toml:"parallelism"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Prefix    string   `toml:"prefix"`
	TTL       Duration `toml:"ttl"`
}

// Serve configures the HTTP API.
type Serve struct {
	Addr     string `toml:"addr"`
	MaxNodes int    `toml:"max_nodes"`
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct{ time.Duration }

// UnmarshalText parses strings like "90m" or "168h".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Identify: Identify{
			Mode:   pipeline.DefaultMode,
			Greedy: true,
			Seed:   pipeline.DefaultSeed,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{7 * 24 * time.Hour},
		},
		Serve: Serve{
			Addr:     ":8080",
			MaxNodes: pipeline.DefaultMaxNodes,
		},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default cache directory using the XDG convention
// (~/.cache/causaltower/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path on top of the defaults. An empty path means
// the default location, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Default(), fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(names, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := identify.ParseMode(c.Identify.Mode); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("invalid cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Identify.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
