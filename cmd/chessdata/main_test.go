package main

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkmate-data/archive"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"chessdata", "--log.verbosity", "0"}, args...))
	return out.String(), err
}

func tempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "chessdata")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestEncodeDecodeZip(t *testing.T) {
	dir := tempDir(t)
	payload := make([]byte, 3000)
	rand.New(rand.NewSource(1)).Read(payload)
	in := filepath.Join(dir, "Photo.PNG")
	require.NoError(t, os.WriteFile(in, payload, 0o644))

	encDir := filepath.Join(dir, "enc")
	require.NoError(t, os.Mkdir(encDir, 0o755))
	_, err := run(t, "encode", "--out", encDir, "--games-per-entry", "2", in)
	require.NoError(t, err)
	zipPath := filepath.Join(encDir, "Photo.zip")
	data, err := os.ReadFile(zipPath)
	require.NoError(t, err)
	assert.True(t, archive.IsZip(data))

	decDir := filepath.Join(dir, "dec")
	require.NoError(t, os.Mkdir(decDir, 0o755))
	_, err = run(t, "--backend", "dragontooth", "decode", "--out", decDir, zipPath)
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(decDir, "Photo.png"))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	out, err := run(t, "inspect", zipPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ROUND")
	assert.Contains(t, out, "payload 3000 bytes")
}

func TestEncodeSingleGame(t *testing.T) {
	dir := tempDir(t)
	in := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(in, []byte("hi"), 0o644))
	_, err := run(t, "encode", "--out", dir, "--compression", "none", in)
	require.NoError(t, err)

	pgnPath := filepath.Join(dir, "note.pgn")
	text, err := os.ReadFile(pgnPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), `[Black "txt File"]`)
	assert.Contains(t, string(text), `[Length "2"]`)

	require.NoError(t, os.Remove(in))
	_, err = run(t, "decode", "--out", dir, pgnPath)
	require.NoError(t, err)
	got, err := os.ReadFile(in)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))
}

func TestEncodeRejectsInput(t *testing.T) {
	dir := tempDir(t)
	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err := run(t, "encode", "--out", dir, empty)
	assert.ErrorIs(t, err, archive.ErrEmptyInput)

	big := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(big, make([]byte, 100), 0o644))
	_, err = run(t, "encode", "--out", dir, "--max-input", "99", big)
	assert.ErrorIs(t, err, archive.ErrInputTooLarge)

	_, err = run(t, "encode")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := tempDir(t)
	cfg := filepath.Join(dir, "cfg.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"backend":"nope"}`), 0o644))
	_, err := run(t, "--config", cfg, "alphabet")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(cfg, []byte(`{"backend":"dragontooth"}`), 0o644))
	out, err := run(t, "--config", cfg, "alphabet")
	require.NoError(t, err)
	assert.Contains(t, out, "backend dragontooth")
}

func TestAlphabet(t *testing.T) {
	out, err := run(t, "alphabet")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 21)
	assert.Contains(t, lines[0], "20 legal moves, 4 bits per choice")
	assert.Equal(t, []string{"0", "b1a3", "Na3", "0000"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"13", "e2e4", "e4", "1101"}, strings.Fields(lines[14]))
	assert.Equal(t, []string{"19", "h2h4", "h4", "-"}, strings.Fields(lines[20]))

	out, err = run(t, "alphabet", "--depth", "2", "--divide")
	require.NoError(t, err)
	assert.Contains(t, out, "e2e4: 20\n")
	assert.Contains(t, out, "Total: 400\n")

	_, err = run(t, "alphabet", "--divide")
	assert.Error(t, err)
}
