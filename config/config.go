// Package config holds the settings of the chessdata tool.
package config

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"checkmate-data/archive"
	"checkmate-data/codec"
	"checkmate-data/logging"
	"checkmate-data/oracle"
)

// Config aggregates every setting the tool needs.
type Config struct {
	// Backend names the move generator; see oracle.Backends.
	Backend string `json:"backend"`
	// MaxInputBytes bounds the payload accepted for encoding; 0 disables the check.
	MaxInputBytes int `json:"maxInputBytes"`
	// Compression is none, gzip or zstd.
	Compression string `json:"compression"`
	// GamesPerEntry is the number of games per zip entry.
	GamesPerEntry int `json:"gamesPerEntry"`
	// OutputDir receives encoded archives and restored files; empty means the working directory.
	OutputDir string         `json:"outputDir"`
	Log       logging.Config `json:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:       oracle.DefaultBackend,
		MaxInputBytes: archive.DefaultMaxInputBytes,
		Compression:   codec.Gzip,
		GamesPerEntry: archive.DefaultGamesPerEntry,
		Log:           logging.DefaultConfig(),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := oracle.Lookup(c.Backend); err != nil {
		return err
	}
	if c.MaxInputBytes < 0 {
		return errors.Errorf("config: negative maxInputBytes %d", c.MaxInputBytes)
	}
	switch c.Compression {
	case "", codec.None, codec.Gzip, codec.Zstd:
	default:
		return errors.Wrapf(codec.ErrUnknownCompression, "config: %q", c.Compression)
	}
	if c.GamesPerEntry < 1 {
		return errors.Errorf("config: gamesPerEntry must be positive, got %d", c.GamesPerEntry)
	}
	return errors.Wrap(c.Log.Validate(), "config")
}

// Loader parses a configuration from a reader into cfg. Fields absent from
// the input keep their current values, so cfg is usually Default().
type Loader interface {
	Load(r io.Reader, cfg *Config) error
}

// Writer stores a configuration.
type Writer interface {
	Store(w io.Writer, cfg *Config) error
}

type jsonLoader struct{}

// NewJSONLoader returns a Loader for JSON input. Unknown fields are rejected.
func NewJSONLoader() Loader { return jsonLoader{} }

// NewJSONWriter returns a Writer producing indented JSON.
func NewJSONWriter() Writer { return jsonLoader{} }

func (jsonLoader) Load(r io.Reader, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil destination")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}

func (jsonLoader) Store(w io.Writer, cfg *Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// LoadFile overlays the JSON file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	defer f.Close()
	return errors.Wrap(NewJSONLoader().Load(f, cfg), path)
}
