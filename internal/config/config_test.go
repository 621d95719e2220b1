package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Index.Backend)
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, 50, cfg.Search.MaxLimit)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
corpus:
  dir: /srv/corpus
index:
  backend: bleve
search:
  default_limit: 20
watcher:
  enabled: true
  debounce: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/corpus", cfg.Corpus.Dir)
	assert.Equal(t, "bleve", cfg.Index.Backend)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.True(t, cfg.Watcher.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Watcher.Debounce)
	// untouched values keep defaults
	assert.Equal(t, 50, cfg.Search.MaxLimit)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("GATOTKACA_BACKEND", "bleve")
	t.Setenv("GATOTKACA_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "bleve", cfg.Index.Backend)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty corpus dir", func(c *Config) { c.Corpus.Dir = "" }},
		{"empty data dir", func(c *Config) { c.Index.DataDir = "" }},
		{"unknown backend", func(c *Config) { c.Index.Backend = "postgres" }},
		{"zero default limit", func(c *Config) { c.Search.DefaultLimit = 0 }},
		{"default above max", func(c *Config) { c.Search.DefaultLimit = 100 }},
		{"port out of range", func(c *Config) { c.Server.Port = 0 }},
		{"negative debounce", func(c *Config) { c.Watcher.Debounce = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
