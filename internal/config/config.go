// Package config loads and validates the GatotKaca configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
)

// Config represents the complete GatotKaca configuration.
type Config struct {
	Corpus  CorpusConfig  `yaml:"corpus" json:"corpus"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Watcher WatcherConfig `yaml:"watcher" json:"watcher"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CorpusConfig configures the document corpus source.
type CorpusConfig struct {
	// Dir is the corpus directory walked during a rebuild.
	Dir string `yaml:"dir" json:"dir"`
}

// IndexConfig configures the index engine.
type IndexConfig struct {
	// DataDir holds index generations and the current-index pointer.
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// Backend selects the index engine: "sqlite" (default) or "bleve".
	Backend string `yaml:"backend" json:"backend"`
}

// SearchConfig configures query defaults and bounds.
type SearchConfig struct {
	// DefaultLimit is the page size used when the caller does not supply one.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// MaxLimit caps the page size. Requests above it are clamped.
	MaxLimit int `yaml:"max_limit" json:"max_limit"`

	// CacheSize is the number of recent search results kept in the LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// WatcherConfig configures automatic reindexing on corpus changes.
type WatcherConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{Dir: "./corpus"},
		Index: IndexConfig{
			DataDir: "./data",
			Backend: "sqlite",
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxLimit:     50,
			CacheSize:    256,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Watcher: WatcherConfig{
			Enabled:  false,
			Debounce: 2 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from the given YAML file, layered over defaults
// and finished with environment overrides. A missing file is not an error;
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, errors.ConfigError(fmt.Sprintf("cannot read config file %s", path), err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.ConfigError(fmt.Sprintf("cannot parse config file %s", path), err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies GATOTKACA_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("GATOTKACA_CORPUS_DIR"); v != "" {
		c.Corpus.Dir = v
	}
	if v := os.Getenv("GATOTKACA_DATA_DIR"); v != "" {
		c.Index.DataDir = v
	}
	if v := os.Getenv("GATOTKACA_BACKEND"); v != "" {
		c.Index.Backend = v
	}
	if v := os.Getenv("GATOTKACA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("GATOTKACA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Corpus.Dir == "" {
		return errors.ConfigError("corpus.dir must not be empty", nil)
	}
	if c.Index.DataDir == "" {
		return errors.ConfigError("index.data_dir must not be empty", nil)
	}
	switch c.Index.Backend {
	case "sqlite", "bleve":
	default:
		return errors.ConfigError(
			fmt.Sprintf("index.backend must be sqlite or bleve, got %q", c.Index.Backend), nil)
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return errors.ConfigError("search.default_limit must be in [1, max_limit]", nil)
	}
	if c.Search.MaxLimit < 1 {
		return errors.ConfigError("search.max_limit must be positive", nil)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.ConfigError(fmt.Sprintf("server.port out of range: %d", c.Server.Port), nil)
	}
	if c.Watcher.Debounce < 0 {
		return errors.ConfigError("watcher.debounce must not be negative", nil)
	}
	return nil
}
