package pgn

import (
	"strings"
	"testing"
	"time"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ruyLopez = []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6", "O-O", "Be7", "Re1", "b5", "Bb3", "d6", "c3", "O-O"}

func testMeta() Metadata {
	m := NewMetadata()
	m.Played = time.Date(2024, 3, 9, 17, 4, 5, 0, time.UTC)
	m.Round = 2
	m.Extension = "PNG"
	m.Ordering = "v1"
	m.Length = 1234
	return m
}

func TestFormatLayout(t *testing.T) {
	got := Format(ruyLopez[:4], testMeta())
	want := `[Event "Check-MateData"]
[Site "Web party"]
[Date "2024.03.09"]
[Round "2"]
[White "Player"]
[Black "png File"]
[Result "*"]
[Time "17:04:05"]
[Ordering "v1"]
[Length "1234"]

1. e4 e5 2. Nf3 Nc6 *
`
	assert.Equal(t, want, got)
}

func TestFormatWraps(t *testing.T) {
	var moves []string
	for i := 0; i < 60; i++ {
		moves = append(moves, "Nf3", "Nf6", "Ng1", "Ng8")
	}
	text := Format(moves, NewMetadata())
	body := text[strings.Index(text, "\n\n")+2:]
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), lineWidth, line)
	}
	got, err := ParseMoves(text)
	require.NoError(t, err)
	assert.Equal(t, moves, got)
}

func TestFormatEmptyGame(t *testing.T) {
	m := NewMetadata()
	m.Result = "1/2-1/2"
	text := Format(nil, m)
	assert.True(t, strings.HasSuffix(text, "\n\n1/2-1/2\n"), text)
	g, err := Parse(text)
	require.NoError(t, err)
	assert.Empty(t, g.Moves)
	assert.Equal(t, "1/2-1/2", g.Result)
}

func TestMetadataRoundTrip(t *testing.T) {
	m := testMeta()
	m.Compression = "gzip"
	m.Result = "0-1"
	m.Extra = map[string]string{"Annotator": `say "hi" \o/`}
	g, err := Parse(Format(ruyLopez, m))
	require.NoError(t, err)

	got := g.Metadata()
	assert.Equal(t, "png", got.Extension)
	assert.Equal(t, m.Played, got.Played)
	assert.Equal(t, m.Round, got.Round)
	assert.Equal(t, m.Length, got.Length)
	assert.Equal(t, m.Ordering, got.Ordering)
	assert.Equal(t, m.Compression, got.Compression)
	assert.Equal(t, m.Result, got.Result)
	assert.Equal(t, m.Extra, got.Extra)
	assert.Equal(t, ruyLopez, g.Moves)
	assert.Equal(t, "0-1", g.Result)
}

func TestMetadataDefaults(t *testing.T) {
	got := MetadataFromTags(map[string]string{
		TagBlack:  "Somebody",
		TagLength: "-4",
		TagRound:  "x",
	})
	assert.Equal(t, DefaultExtension, got.Extension)
	assert.Equal(t, -1, got.Length)
	assert.Zero(t, got.Round)
	assert.True(t, got.Played.IsZero())
	assert.Nil(t, got.Extra)
}

func TestNormalizeExtension(t *testing.T) {
	for in, want := range map[string]string{
		"":       "bin",
		".TXT":   "txt",
		"Jpeg":   "jpeg",
		" gz ":   "gz",
		"tar.gz": "tar.gz",
	} {
		assert.Equal(t, want, NormalizeExtension(in), in)
	}
}

func TestParseSkipsAnnotations(t *testing.T) {
	text := `[Event "x"]
[Site "y"]
% escaped line e4 e5

1. e4 {best by test} e5 2.Nf3 $1 (2. f4 exf4 (2... d5) 3. Nf3) Nc6 ; trailing
3. Bb5 a6!? 4... Nf6 1-0 5. d4`
	g, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6!?", "Nf6"}, g.Moves)
	assert.Equal(t, "1-0", g.Result)
	assert.Equal(t, map[string]string{"Event": "x", "Site": "y"}, g.Tags)
}

func TestParseErrors(t *testing.T) {
	for name, text := range map[string]string{
		"comment":    "1. e4 { never closed",
		"variation":  "1. e4 (1. d4 d5",
		"close":      "1. e4 ) e5",
		"brace":      "1. e4 } e5",
		"tag value":  `[Event "open`,
		"tag close":  `[Event "x" 1. e4`,
		"tag name":   `[ "x"]`,
		"late tag":   "1. e4 e5 [Event \"x\"]",
		"tag no val": "[Event]",
	} {
		_, err := Parse(text)
		var se *SyntaxError
		assert.ErrorAs(t, err, &se, name)
	}

	_, err := Parse("1. e4 e5 2. Nf3 }")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "unbalanced '}'", se.Msg)
	assert.Equal(t, 16, se.Offset)
}

func TestSplit(t *testing.T) {
	a := Format(ruyLopez[:2], NewMetadata())
	b := Format(ruyLopez[:3], NewMetadata())
	games := Split("\n\n" + a + "\n\n\n" + b + "\n")
	require.Len(t, games, 2)
	assert.Equal(t, strings.TrimSpace(a), games[0])
	assert.Equal(t, strings.TrimSpace(b), games[1])

	assert.Empty(t, Split(" \n\t"))
	assert.Equal(t, []string{"1. e4 *"}, Split("1. e4 *"))

	// an Event tag that does not start a line is not a marker
	assert.Len(t, Split(a+` {see [Event "y"]}`), 1)
}

func TestParseHeader(t *testing.T) {
	text := Format(ruyLopez, testMeta())
	v, ok := ParseHeader(text, TagLength)
	assert.True(t, ok)
	assert.Equal(t, "1234", v)
	_, ok = ParseHeader(text, "Missing")
	assert.False(t, ok)
	_, ok = ParseHeader("{", TagEvent)
	assert.False(t, ok)
}

// Games written by Format must load in an independent PGN reader.
func TestFormatReadableByReference(t *testing.T) {
	m := testMeta()
	m.Result = "0-1"
	moves := []string{"f3", "e5", "g4", "Qh4#"}
	for _, tc := range []struct {
		moves []string
		meta  Metadata
	}{
		{ruyLopez, testMeta()},
		{moves, m},
	} {
		opt, err := chess.PGN(strings.NewReader(Format(tc.moves, tc.meta)))
		require.NoError(t, err)
		g := chess.NewGame(opt)
		assert.Len(t, g.Moves(), len(tc.moves))
	}
}
