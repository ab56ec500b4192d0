package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmate-data/codec"
	"checkmate-data/oracle"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, oracle.Goose, cfg.Backend)
	assert.Equal(t, 50<<10, cfg.MaxInputBytes)
	assert.Equal(t, codec.Gzip, cfg.Compression)
	assert.Equal(t, 1, cfg.GamesPerEntry)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	cfg := Default()
	err := NewJSONLoader().Load(strings.NewReader(`{"backend":"dragontooth","log":{"verbosity":5,"format":"json"}}`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, oracle.Dragontooth, cfg.Backend)
	assert.Equal(t, 5, cfg.Log.Verbosity)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, codec.Gzip, cfg.Compression)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejects(t *testing.T) {
	for _, in := range []string{`{"colour":"red"}`, `{"backend":`, `[]`} {
		cfg := Default()
		assert.Error(t, NewJSONLoader().Load(strings.NewReader(in), &cfg), in)
	}
	assert.Error(t, NewJSONLoader().Load(strings.NewReader(`{}`), nil))
}

func TestStoreLoad(t *testing.T) {
	cfg := Default()
	cfg.Compression = codec.Zstd
	cfg.OutputDir = "/tmp/out"
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter().Store(&buf, &cfg))

	var back Config
	require.NoError(t, NewJSONLoader().Load(&buf, &back))
	assert.Equal(t, cfg, back)
}

func TestLoadFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "chessdata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gamesPerEntry":100}`), 0o644))

	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))
	assert.Equal(t, 100, cfg.GamesPerEntry)

	assert.Error(t, LoadFile(filepath.Join(dir, "missing.json"), &cfg))
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"backend":     func(c *Config) { c.Backend = "stockfish" },
		"max input":   func(c *Config) { c.MaxInputBytes = -1 },
		"compression": func(c *Config) { c.Compression = "lz4" },
		"per entry":   func(c *Config) { c.GamesPerEntry = 0 },
		"log format":  func(c *Config) { c.Log.Format = "xml" },
		"verbosity":   func(c *Config) { c.Log.Verbosity = 7 },
	} {
		cfg := Default()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
