// Package oracle exposes chess positions as a deterministic move alphabet.
//
// Every position yields its legal moves in an order fixed by ordering
// contract v1: ascending origin square (a1 = 0 ... h8 = 63), then ascending
// destination square, then promotion piece (none, knight, bishop, rook, queen).
// The order does not depend on the move generator underneath, so games
// produced with one backend replay identically with any other.
package oracle

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// OrderingVersion names the legal move ordering implemented by this package.
const OrderingVersion = "v1"

// ErrIllegalMove is returned when a move or token does not match any legal move.
var ErrIllegalMove = errors.New("illegal move")

// board is the contract each move generator backend satisfies.
type board interface {
	// legal appends the legal moves of the side to move to dst, in backend order.
	legal(dst []native) []native
	// play applies a move previously returned by legal.
	play(n native)
	// inCheck reports whether the side to move is in check.
	inCheck() bool
	// pieceAt returns the piece on sq, or an empty Piece.
	pieceAt(sq Square) Piece
}

// native pairs a canonical move with the backend's own encoding of it.
type native struct {
	Move
	raw uint32
}

// Position is a chess position owned by a single encoder or decoder run.
// It is not safe for concurrent use.
type Position struct {
	b       board
	backend string

	side     Color
	castling castling
	ep       Square // en passant target, NoSquare when the last move was not a double push
	halfmove int
	fullmove int
	ply      int

	fresh   bool // moves and squares describe the current position
	moves   []native
	keys    []uint64
	squares [64]Piece

	seen     map[string]int
	recorded bool
	repeats  int
}

// castling holds the remaining castling rights.
type castling uint8

const (
	whiteKingside castling = 1 << iota
	whiteQueenside
	blackKingside
	blackQueenside
)

// rightsLost maps a king or rook home square to the rights void once a move
// starts or ends there.
var rightsLost = map[Square]castling{
	0:  whiteQueenside,
	4:  whiteKingside | whiteQueenside,
	7:  whiteKingside,
	56: blackQueenside,
	60: blackKingside | blackQueenside,
	63: blackKingside,
}

func parseCastling(field string) (castling, error) {
	var c castling
	if field == "-" {
		return 0, nil
	}
	for _, r := range field {
		switch r {
		case 'K':
			c |= whiteKingside
		case 'Q':
			c |= whiteQueenside
		case 'k':
			c |= blackKingside
		case 'q':
			c |= blackQueenside
		default:
			return 0, errors.Errorf("bad castling field %q", field)
		}
	}
	return c, nil
}

func newPosition(b board, backend string, side Color, rights castling, ep Square, halfmove, fullmove int) *Position {
	return &Position{
		b:        b,
		backend:  backend,
		side:     side,
		castling: rights,
		ep:       ep,
		halfmove: halfmove,
		fullmove: fullmove,
		seen:     make(map[string]int),
	}
}

// Backend returns the name of the move generator behind the position.
func (p *Position) Backend() string { return p.backend }

// SideToMove returns the side to play.
func (p *Position) SideToMove() Color { return p.side }

// Ply returns the number of moves applied since the position was created.
func (p *Position) Ply() int { return p.ply }

// HalfmoveClock returns the half-moves since the last capture or pawn move.
func (p *Position) HalfmoveClock() int { return p.halfmove }

// FullmoveNumber returns the move number, starting at 1 and incremented after Black moves.
func (p *Position) FullmoveNumber() int { return p.fullmove }

// PieceAt returns the piece standing on sq.
func (p *Position) PieceAt(sq Square) Piece {
	p.refresh()
	return p.squares[sq]
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.b.inCheck() }

// refresh regenerates and sorts the legal moves after the position changed and
// records the position for repetition detection.
func (p *Position) refresh() {
	if p.fresh {
		return
	}
	p.moves = p.b.legal(p.moves[:0])
	p.keys = p.keys[:0]
	for _, n := range p.moves {
		p.keys = append(p.keys, uint64(n.key())<<32|uint64(n.raw))
	}
	slices.Sort(p.keys)
	for i, k := range p.keys {
		raw := uint32(k)
		key := uint16(k >> 32)
		p.moves[i] = native{Move: moveFromKey(key), raw: raw}
	}
	for sq := Square(0); sq < NoSquare; sq++ {
		p.squares[sq] = p.b.pieceAt(sq)
	}
	p.fresh = true

	if !p.recorded {
		k := p.repetitionKey()
		p.seen[k]++
		p.repeats = p.seen[k]
		p.recorded = true
	}
}

func moveFromKey(k uint16) Move {
	return Move{
		From:  Square(k >> 9),
		To:    Square(k >> 3 & 0x3F),
		Promo: PieceType(k & 0x7),
	}
}

// repetitionKey identifies a position for the repetition rule: piece placement,
// side to move, castling rights and the en passant square when a capture on it
// is legal.
func (p *Position) repetitionKey() string {
	buf := make([]byte, 0, 67)
	for _, pc := range p.squares {
		buf = append(buf, byte(pc.Type)|byte(pc.Color)<<3)
	}
	buf = append(buf, byte(p.side), byte(p.castling), byte(p.capturableEP()))
	return string(buf)
}

func (p *Position) capturableEP() Square {
	if p.ep == NoSquare {
		return NoSquare
	}
	for _, n := range p.moves {
		if n.To == p.ep && p.squares[n.From].Type == Pawn {
			return p.ep
		}
	}
	return NoSquare
}

// LegalMoves returns the legal moves in ordering contract v1.
// The returned slice is a copy and may be retained by the caller.
func (p *Position) LegalMoves() []Move {
	p.refresh()
	out := make([]Move, len(p.moves))
	for i, n := range p.moves {
		out[i] = n.Move
	}
	return out
}

// NumMoves returns the number of legal moves without copying them.
func (p *Position) NumMoves() int {
	p.refresh()
	return len(p.moves)
}

// MoveAt returns the legal move with the given index in ordering contract v1.
func (p *Position) MoveAt(i int) Move {
	p.refresh()
	return p.moves[i].Move
}

// IndexOf returns the index of m in the ordered legal moves, or -1.
func (p *Position) IndexOf(m Move) int {
	p.refresh()
	return slices.IndexFunc(p.moves, func(n native) bool { return n.Move == m })
}

// Apply plays a legal move. The position is left unchanged on error.
func (p *Position) Apply(m Move) error {
	idx := p.IndexOf(m)
	if idx < 0 {
		return errors.Wrapf(ErrIllegalMove, "%s at ply %d", m, p.ply)
	}
	p.applyIndex(idx)
	return nil
}

// Play applies a legal move and returns its SAN, including the check or mate suffix.
func (p *Position) Play(m Move) (string, error) {
	idx := p.IndexOf(m)
	if idx < 0 {
		return "", errors.Wrapf(ErrIllegalMove, "%s at ply %d", m, p.ply)
	}
	san := p.sanBase(m)
	p.applyIndex(idx)
	return san + p.checkSuffix(), nil
}

func (p *Position) applyIndex(idx int) {
	n := p.moves[idx]
	mover := p.squares[n.From]
	irreversible := mover.Type == Pawn || !p.squares[n.To].Empty()

	p.b.play(n)

	p.castling &^= rightsLost[n.From] | rightsLost[n.To]
	p.ep = NoSquare
	if mover.Type == Pawn && (n.To-n.From == 16 || n.From-n.To == 16) {
		p.ep = (n.From + n.To) / 2
	}
	if irreversible {
		p.halfmove = 0
		p.seen = make(map[string]int)
	} else {
		p.halfmove++
	}
	if p.side == Black {
		p.fullmove++
	}
	p.side = p.side.Other()
	p.ply++
	p.fresh = false
	p.recorded = false
}

// Outcome evaluates the game state at the current position.
func (p *Position) Outcome() Outcome {
	p.refresh()
	if len(p.moves) == 0 {
		if p.b.inCheck() {
			return Outcome{Kind: Checkmate, Winner: p.side.Other()}
		}
		return Outcome{Kind: Stalemate}
	}
	if p.halfmove >= 100 {
		return Outcome{Kind: Draw, Reason: FiftyMoveRule}
	}
	if p.insufficientMaterial() {
		return Outcome{Kind: Draw, Reason: InsufficientMaterial}
	}
	if p.repeats >= 3 {
		return Outcome{Kind: Draw, Reason: ThreefoldRepetition}
	}
	return Outcome{Kind: Ongoing}
}

// IsTerminal reports whether the game has ended at the current position.
func (p *Position) IsTerminal() bool { return p.Outcome().Decided() }

// insufficientMaterial covers K v K, K v K+minor and bishops all on one square color.
func (p *Position) insufficientMaterial() bool {
	minors := 0
	bishopColors := [2]int{}
	bishops := 0
	for sq, pc := range p.squares {
		switch pc.Type {
		case NoPieceType, King:
		case Knight:
			minors++
		case Bishop:
			minors++
			bishops++
			s := Square(sq)
			bishopColors[(s.File()+s.Rank())%2]++
		default:
			return false
		}
	}
	if minors <= 1 {
		return true
	}
	return bishops == minors && (bishopColors[0] == 0 || bishopColors[1] == 0)
}
