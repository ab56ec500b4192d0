// Package logging configures logrus for the command line tools.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config controls the log level and format.
type Config struct {
	// Verbosity: 0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace.
	Verbosity int    `json:"verbosity"`
	Format    string `json:"format"`
}

// DefaultConfig logs at info level as text.
func DefaultConfig() Config {
	return Config{Verbosity: 3, Format: FormatText}
}

var levels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

// Level maps a verbosity to a logrus level.
func Level(verbosity int) (logrus.Level, error) {
	if verbosity < 0 || verbosity >= len(levels) {
		return 0, errors.Errorf("log verbosity %d out of range 0-%d", verbosity, len(levels)-1)
	}
	return levels[verbosity], nil
}

// Validate reports a bad verbosity or format.
func (c Config) Validate() error {
	if _, err := Level(c.Verbosity); err != nil {
		return err
	}
	switch c.Format {
	case FormatText, FormatJSON:
		return nil
	}
	return errors.Errorf("unknown log format %q", c.Format)
}

// New returns a logger writing to w. A nil w means stderr.
func New(cfg Config, w io.Writer) (*logrus.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	lvl, _ := Level(cfg.Verbosity)
	log := logrus.New()
	log.Out = w
	log.Level = lvl
	if cfg.Format == FormatJSON {
		log.Formatter = &logrus.JSONFormatter{}
	} else {
		log.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	log.Level = logrus.PanicLevel
	return log
}
