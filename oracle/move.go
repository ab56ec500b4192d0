package oracle

import (
	"github.com/pkg/errors"
)

// Square is a board square index, a1 = 0 ... h8 = 63.
type Square uint8

// NoSquare marks an absent square.
const NoSquare Square = 64

// File returns 0 for the a-file through 7 for the h-file.
func (s Square) File() int { return int(s) % 8 }

// Rank returns 0 for the first rank through 7 for the eighth.
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	if s >= NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(s.File()), '1' + byte(s.Rank())})
}

// ParseSquare converts algebraic coordinates ("e4") to a Square.
func ParseSquare(alg string) (Square, error) {
	if len(alg) != 2 {
		return NoSquare, errors.Errorf("invalid square %q", alg)
	}
	file, rank := alg[0], alg[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, errors.Errorf("invalid square %q", alg)
	}
	return Square(int(file-'a') + int(rank-'1')*8), nil
}

// PieceType is a colorless piece kind. The numeric values order promotions
// as knight < bishop < rook < queen, which the move ordering relies on.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 1
	Knight      PieceType = 2
	Bishop      PieceType = 3
	Rook        PieceType = 4
	Queen       PieceType = 5
	King        PieceType = 6
)

var pieceLetters = [...]byte{0, 'P', 'N', 'B', 'R', 'Q', 'K'}

// Letter returns the upper-case SAN letter for the piece type.
func (p PieceType) Letter() byte {
	if int(p) >= len(pieceLetters) {
		return '?'
	}
	return pieceLetters[p]
}

func pieceTypeFromLetter(c byte) PieceType {
	switch c {
	case 'P', 'p':
		return Pawn
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'R', 'r':
		return Rook
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	}
	return NoPieceType
}

// Color is the side owning a piece or the side to move.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Piece is a colored piece as seen on a square.
type Piece struct {
	Type  PieceType
	Color Color
}

// Empty reports whether the square holding the piece is empty.
func (p Piece) Empty() bool { return p.Type == NoPieceType }

// Move is a backend-independent move: origin, destination and promotion piece.
// Castling is expressed as the king's two-square move (e1g1, e8c8).
type Move struct {
	From  Square
	To    Square
	Promo PieceType
}

// String renders the move in UCI long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promo != NoPieceType {
		s += string(m.Promo.Letter() + ('a' - 'A'))
	}
	return s
}

// ParseUCI converts a UCI move string into a Move.
func ParseUCI(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return Move{}, errors.Errorf("invalid move length %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		m.Promo = pieceTypeFromLetter(s[4])
		if m.Promo == NoPieceType || m.Promo == Pawn || m.Promo == King {
			return Move{}, errors.Errorf("invalid promotion piece in %q", s)
		}
	}
	return m, nil
}

// key packs the move into its ordering key: origin, then destination, then
// promotion piece. Keys are unique per move within a position.
func (m Move) key() uint16 {
	return uint16(m.From)<<9 | uint16(m.To)<<3 | uint16(m.Promo)
}
