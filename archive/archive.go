// Package archive packages encoded games into files and unpacks them again.
//
// A single game is written as a plain .pgn file. Several games go into a zip
// container whose entries are named NNN_<base>.pgn, numbered from 001 in
// production order.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// DefaultMaxInputBytes bounds the payload accepted for encoding.
const DefaultMaxInputBytes = 50 << 10

// DefaultGamesPerEntry is the number of games stored in each zip entry.
const DefaultGamesPerEntry = 1

// FallbackName is used when no output name can be derived from the input.
const FallbackName = "decrypted_file"

var (
	// ErrEmptyInput is returned for zero-length payloads.
	ErrEmptyInput = errors.New("archive: empty input")
	// ErrInputTooLarge is returned for payloads above the configured maximum.
	ErrInputTooLarge = errors.New("archive: input too large")
)

var zipMagic = []byte("PK\x03\x04")

// CheckInput validates a payload before encoding. A max of zero or less disables the size check.
func CheckInput(data []byte, max int) error {
	if len(data) == 0 {
		return ErrEmptyInput
	}
	if max > 0 && len(data) > max {
		return errors.Wrapf(ErrInputTooLarge, "%d bytes, limit %d", len(data), max)
	}
	return nil
}

// File is a packaged output file.
type File struct {
	Name    string
	Data    []byte
	Entries int // zip entries, zero for a plain PGN file
}

// Options controls Pack.
type Options struct {
	GamesPerEntry int
	// Modified stamps zip entries; zero uses the current time.
	Modified time.Time
}

// Pack stores game texts under the base name (without extension).
func Pack(base string, games []string, opts Options) (*File, error) {
	if len(games) == 0 {
		return nil, errors.New("archive: nothing to pack")
	}
	if base == "" {
		base = FallbackName
	}
	if len(games) == 1 {
		return &File{Name: base + ".pgn", Data: []byte(games[0])}, nil
	}
	per := opts.GamesPerEntry
	if per <= 0 {
		per = DefaultGamesPerEntry
	}
	modified := opts.Modified
	if modified.IsZero() {
		modified = time.Now()
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := 0
	for start := 0; start < len(games); start += per {
		end := start + per
		if end > len(games) {
			end = len(games)
		}
		entries++
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     EntryName(entries, base),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, errors.Wrap(err, "archive: zip entry")
		}
		if _, err := w.Write([]byte(strings.Join(games[start:end], "\n"))); err != nil {
			return nil, errors.Wrap(err, "archive: zip entry")
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "archive: zip")
	}
	return &File{Name: base + ".zip", Data: buf.Bytes(), Entries: entries}, nil
}

// EntryName returns the zip entry name for the 1-based index.
func EntryName(index int, base string) string {
	return fmt.Sprintf("%03d_%s.pgn", index, base)
}

// IsZip reports whether data starts like a zip container.
func IsZip(data []byte) bool { return bytes.HasPrefix(data, zipMagic) }

// Unpack returns the game texts held by an input file: the entries of a zip
// container in archive order, directories skipped, or the file itself.
func Unpack(name string, data []byte) ([]string, error) {
	if !IsZip(data) {
		if strings.EqualFold(filepath.Ext(name), ".zip") {
			return nil, errors.Errorf("archive: %s is not a zip container", name)
		}
		return []string{string(data)}, nil
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, "archive: %s", name)
	}
	var texts []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "archive: %s: %s", name, f.Name)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "archive: %s: %s", name, f.Name)
		}
		texts = append(texts, string(b))
	}
	return texts, nil
}

// BaseName strips the directory and the last extension from a path.
func BaseName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputName derives the restored file name from the first input file: its
// base name without the NNN_ ordering prefix, plus ext.
func OutputName(input, ext string) string {
	name := stripOrdinal(BaseName(input))
	if name == "" {
		name = FallbackName
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}

func stripOrdinal(name string) string {
	if len(name) > 4 && name[3] == '_' && isDigits(name[:3]) {
		return name[4:]
	}
	return name
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
