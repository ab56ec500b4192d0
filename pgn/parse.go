package pgn

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoGames is returned when a text holds no game marker.
var ErrNoGames = errors.New("no games found")

const marker = "[" + TagEvent + " "

// SyntaxError reports malformed game text. Offset is a byte offset into the
// game text.
type SyntaxError struct {
	Game   int
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Game > 0 {
		return fmt.Sprintf("pgn: game %d: offset %d: %s", e.Game, e.Offset, e.Msg)
	}
	return fmt.Sprintf("pgn: offset %d: %s", e.Offset, e.Msg)
}

// Game is a parsed game text.
type Game struct {
	Tags   map[string]string
	Moves  []string
	Result string // empty when the movetext has no termination marker
}

// Metadata interprets the game's tags.
func (g *Game) Metadata() Metadata { return MetadataFromTags(g.Tags) }

// Split breaks a concatenation of games into individual game texts. A game
// starts at a line opening with the Event tag; text before the first marker
// is kept as its own fragment. Blank fragments are dropped.
func Split(text string) []string {
	var starts []int
	for off := 0; off < len(text); {
		if strings.HasPrefix(text[off:], marker) {
			starts = append(starts, off)
		}
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			break
		}
		off += nl + 1
	}
	if len(starts) == 0 || starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}
	var games []string
	for i, s := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if g := strings.TrimSpace(text[s:end]); g != "" {
			games = append(games, g)
		}
	}
	return games
}

// ParseHeader returns the value of the first tag named key.
func ParseHeader(text, key string) (string, bool) {
	tags, err := ParseHeaders(text)
	if err != nil {
		return "", false
	}
	v, ok := tags[key]
	return v, ok
}

// ParseHeaders returns the tag pairs of a game text.
func ParseHeaders(text string) (map[string]string, error) {
	g, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return g.Tags, nil
}

// ParseMoves returns the SAN tokens of a game text.
func ParseMoves(text string) ([]string, error) {
	g, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return g.Moves, nil
}

// Parse reads a single game. Comments, recursive variations, numeric
// annotation glyphs and move numbers are skipped.
func Parse(text string) (*Game, error) {
	p := &parser{src: text, g: &Game{Tags: make(map[string]string)}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.g, nil
}

type parser struct {
	src string
	pos int
	g   *Game
}

func (p *parser) fail(format string, args ...interface{}) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case isSpace(c):
			p.pos++
		case c == '%' && (p.pos == 0 || p.src[p.pos-1] == '\n'):
			p.skipLine()
		case c == '[':
			if err := p.tag(); err != nil {
				return err
			}
		case c == '{':
			end := strings.IndexByte(p.src[p.pos:], '}')
			if end < 0 {
				return p.fail("unterminated comment")
			}
			p.pos += end + 1
		case c == ';':
			p.skipLine()
		case c == '(':
			if err := p.variation(); err != nil {
				return err
			}
		case c == ')':
			return p.fail("unbalanced ')'")
		case c == '}':
			return p.fail("unbalanced '}'")
		case c == '$':
			p.pos++
			for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
				p.pos++
			}
		default:
			if done := p.token(); done {
				return nil
			}
		}
	}
	return nil
}

func (p *parser) skipLine() {
	if nl := strings.IndexByte(p.src[p.pos:], '\n'); nl >= 0 {
		p.pos += nl + 1
		return
	}
	p.pos = len(p.src)
}

func (p *parser) tag() error {
	if len(p.g.Moves) > 0 {
		return p.fail("tag pair after movetext")
	}
	start := p.pos
	p.pos++
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	nameStart := p.pos
	for p.pos < len(p.src) && !isSpace(p.src[p.pos]) && p.src[p.pos] != '"' && p.src[p.pos] != ']' {
		p.pos++
	}
	name := p.src[nameStart:p.pos]
	if name == "" {
		p.pos = start
		return p.fail("tag without a name")
	}
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return p.fail("tag %s: missing value", name)
	}
	p.pos++
	var val strings.Builder
	for {
		if p.pos >= len(p.src) {
			p.pos = start
			return p.fail("tag %s: unterminated value", name)
		}
		c := p.src[p.pos]
		p.pos++
		if c == '\\' && p.pos < len(p.src) {
			val.WriteByte(p.src[p.pos])
			p.pos++
			continue
		}
		if c == '"' {
			break
		}
		val.WriteByte(c)
	}
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	if p.pos >= len(p.src) || p.src[p.pos] != ']' {
		return p.fail("tag %s: missing ']'", name)
	}
	p.pos++
	if _, dup := p.g.Tags[name]; !dup {
		p.g.Tags[name] = val.String()
	}
	return nil
}

// variation skips a parenthesized, possibly nested, alternative line.
func (p *parser) variation() error {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		case '{':
			end := strings.IndexByte(p.src[p.pos:], '}')
			if end < 0 {
				return p.fail("unterminated comment")
			}
			p.pos += end
		}
		p.pos++
	}
	p.pos = start
	return p.fail("unterminated variation")
}

// token consumes one movetext word and reports whether it terminated the game.
func (p *parser) token() bool {
	start := p.pos
	for p.pos < len(p.src) && !isSpace(p.src[p.pos]) && !strings.ContainsRune("{}();[$", rune(p.src[p.pos])) {
		p.pos++
	}
	w := p.src[start:p.pos]
	if w == "" {
		// a stray delimiter; consume it so the scan advances
		p.pos++
		return false
	}
	switch w {
	case "1-0", "0-1", "1/2-1/2", "*":
		p.g.Result = w
		return true
	}
	// move numbers: "12." "12..." or attached as "12.e4"
	i := 0
	for i < len(w) && isDigit(w[i]) {
		i++
	}
	if i > 0 && i < len(w) && w[i] == '.' {
		for i < len(w) && w[i] == '.' {
			i++
		}
		w = w[i:]
	} else if i == len(w) {
		w = ""
	}
	w = strings.TrimLeft(w, ".")
	if w != "" {
		p.g.Moves = append(p.g.Moves, w)
	}
	return false
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
