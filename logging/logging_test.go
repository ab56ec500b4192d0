package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	for v, want := range []logrus.Level{logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel} {
		got, err := Level(v)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Level(6)
	assert.Error(t, err)
	_, err = Level(-1)
	assert.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Verbosity: 4, Format: FormatJSON}, &buf)
	require.NoError(t, err)

	log.WithField("round", 3).Debug("game finished")
	log.Trace("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "game finished", entry["msg"])
	assert.Equal(t, float64(3), entry["round"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(DefaultConfig(), &buf)
	require.NoError(t, err)
	log.Debug("hidden")
	assert.Zero(t, buf.Len())
	log.Info("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Verbosity: 3, Format: "xml"}.Validate())
	assert.Error(t, Config{Verbosity: 9, Format: FormatText}.Validate())
	_, err := New(Config{Format: "xml"}, nil)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("dropped")
	assert.False(t, log.IsLevelEnabled(logrus.ErrorLevel))
}
