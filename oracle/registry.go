package oracle

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Backend names.
const (
	Goose       = "goosemg"
	Dragontooth = "dragontooth"

	DefaultBackend = Goose
)

// ErrUnknownBackend is returned by Lookup for names not in Backends.
var ErrUnknownBackend = errors.New("unknown move generator backend")

// Factory creates a fresh position at the initial setup. Each call returns an
// independent position, so one factory can serve many runs.
type Factory func() (*Position, error)

var backends = map[string]func(fen string, side Color) (board, error){
	Goose:       newGooseBoard,
	Dragontooth: newDragonBoard,
}

// Backends lists the available backend names in a stable order.
func Backends() []string {
	return []string{Goose, Dragontooth}
}

// Lookup returns a factory producing initial positions for the named backend.
// An empty name selects DefaultBackend.
func Lookup(name string) (Factory, error) {
	if name == "" {
		name = DefaultBackend
	}
	if _, ok := backends[name]; !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", name)
	}
	return func() (*Position, error) {
		return FromFEN(name, StartFEN)
	}, nil
}

// FromFEN sets up a position from a FEN string using the named backend.
func FromFEN(backend, fen string) (*Position, error) {
	if backend == "" {
		backend = DefaultBackend
	}
	mk, ok := backends[backend]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
	}
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.Errorf("invalid FEN %q: not enough fields", fen)
	}
	side := White
	switch fields[1] {
	case "w":
	case "b":
		side = Black
	default:
		return nil, errors.Errorf("invalid FEN %q: bad side to move", fen)
	}
	rights, err := parseCastling(fields[2])
	if err != nil {
		return nil, errors.Wrapf(err, "invalid FEN %q", fen)
	}
	ep := NoSquare
	if fields[3] != "-" {
		if ep, err = ParseSquare(fields[3]); err != nil {
			return nil, errors.Wrapf(err, "invalid FEN %q", fen)
		}
	}
	halfmove, fullmove := 0, 1
	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid FEN %q: bad halfmove clock", fen)
		}
		halfmove = n
	}
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, errors.Errorf("invalid FEN %q: bad fullmove number", fen)
		}
		fullmove = n
	}
	// dragontoothmg expects all six fields
	norm := strings.Join(fields[:4], " ") + " " + strconv.Itoa(halfmove) + " " + strconv.Itoa(fullmove)
	b, err := mk(norm, side)
	if err != nil {
		return nil, err
	}
	return newPosition(b, backend, side, rights, ep, halfmove, fullmove), nil
}
