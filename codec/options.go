// Package codec turns payload bytes into chess games and back.
//
// At every ply the ordered legal moves of the current position form an
// alphabet. With n >= 2 moves the encoder reads k = floor(log2 n) payload
// bits and plays the move with that index; a forced move carries no bits.
// A game ends when the position is decided, and the next bits start a new
// game from the initial setup.
package codec

import (
	"time"

	"github.com/sirupsen/logrus"

	"checkmate-data/logging"
	"checkmate-data/oracle"
	"checkmate-data/pgn"
)

// Stage tells which direction a run goes.
type Stage string

const (
	StageEncode Stage = "encode"
	StageDecode Stage = "decode"
)

// Progress is reported at every ply.
type Progress struct {
	Stage     Stage
	BitsTotal int // zero when unknown
	BitsDone  int
	Games     int // completed games
	Moves     int
}

// Game is one finished game.
type Game struct {
	Text    string
	Moves   []string
	Meta    pgn.Metadata
	Outcome oracle.Outcome
	Bits    int // payload bits carried by the game
}

// Observer is told about every finished game.
type Observer interface {
	GameFinished(g *Game)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(g *Game)

func (f ObserverFunc) GameFinished(g *Game) { f(g) }

// Stats summarizes a run.
type Stats struct {
	Games      int
	Moves      int
	Forced     int
	WhiteWins  int
	BlackWins  int
	Draws      int
	Unfinished int
	Bits       int
}

func (s *Stats) add(g *Game) {
	s.Games++
	s.Moves += len(g.Moves)
	s.Bits += g.Bits
	switch {
	case g.Outcome.Kind == oracle.Checkmate && g.Outcome.Winner == oracle.White:
		s.WhiteWins++
	case g.Outcome.Kind == oracle.Checkmate:
		s.BlackWins++
	case g.Outcome.Decided():
		s.Draws++
	default:
		s.Unfinished++
	}
}

// Options carries the settings shared by Encode and Decode. The zero value is usable.
type Options struct {
	// Extension of the payload file, recorded in each game (encode only).
	Extension string
	// Compression is none, gzip or zstd; empty means none (encode only).
	Compression string
	// OmitLength leaves out the Length tag, producing archives in the legacy,
	// padded layout (encode only).
	OmitLength bool

	Now      func() time.Time
	Progress func(Progress)
	Observer Observer
	Logger   logrus.FieldLogger
}

func (o *Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Discard()
}

func (o *Options) report(p Progress) {
	if o.Progress != nil {
		o.Progress(p)
	}
}

func (o *Options) finished(g *Game) {
	if o.Observer != nil {
		o.Observer.GameFinished(g)
	}
}

// BitsFor returns the bits carried by a choice among n legal moves: floor(log2 n), or 0 for n < 2.
func BitsFor(n int) int {
	k := 0
	for n > 1 {
		n >>= 1
		k++
	}
	return k
}
