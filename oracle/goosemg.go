package oracle

import (
	gm "github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/pkg/errors"
)

// gooseBoard adapts the GooseEngine move generator.
type gooseBoard struct {
	b    *gm.Board
	side gm.Color
}

func newGooseBoard(fen string, side Color) (board, error) {
	b, err := gm.ParseFEN(fen)
	if err != nil {
		return nil, errors.Wrap(err, "goosemg")
	}
	gb := &gooseBoard{b: b, side: gm.White}
	if side == Black {
		gb.side = gm.Black
	}
	return gb, nil
}

// legal keeps only moves MakeMove accepts, so the list stays legal even where
// the generator emits pseudo-legal candidates.
func (g *gooseBoard) legal(dst []native) []native {
	for _, m := range g.b.GenerateMoves() {
		ok, st := g.b.MakeMove(m)
		if !ok {
			continue
		}
		g.b.UnmakeMove(m, st)
		dst = append(dst, native{
			Move: Move{
				From:  Square(m.From()),
				To:    Square(m.To()),
				Promo: gooseType(m.PromotionPiece()),
			},
			raw: uint32(m),
		})
	}
	return dst
}

func (g *gooseBoard) play(n native) {
	if ok, _ := g.b.MakeMove(gm.Move(n.raw)); !ok {
		panic("goosemg: generated move rejected by MakeMove: " + n.String())
	}
	if g.side == gm.White {
		g.side = gm.Black
	} else {
		g.side = gm.White
	}
}

func (g *gooseBoard) inCheck() bool { return g.b.InCheck(g.side) }

func (g *gooseBoard) pieceAt(sq Square) Piece {
	switch g.b.PieceAt(gm.Square(sq)) {
	case gm.WhitePawn:
		return Piece{Pawn, White}
	case gm.WhiteKnight:
		return Piece{Knight, White}
	case gm.WhiteBishop:
		return Piece{Bishop, White}
	case gm.WhiteRook:
		return Piece{Rook, White}
	case gm.WhiteQueen:
		return Piece{Queen, White}
	case gm.WhiteKing:
		return Piece{King, White}
	case gm.BlackPawn:
		return Piece{Pawn, Black}
	case gm.BlackKnight:
		return Piece{Knight, Black}
	case gm.BlackBishop:
		return Piece{Bishop, Black}
	case gm.BlackRook:
		return Piece{Rook, Black}
	case gm.BlackQueen:
		return Piece{Queen, Black}
	case gm.BlackKing:
		return Piece{King, Black}
	}
	return Piece{}
}

func gooseType(p gm.Piece) PieceType {
	switch p {
	case gm.WhiteKnight, gm.BlackKnight:
		return Knight
	case gm.WhiteBishop, gm.BlackBishop:
		return Bishop
	case gm.WhiteRook, gm.BlackRook:
		return Rook
	case gm.WhiteQueen, gm.BlackQueen:
		return Queen
	}
	return NoPieceType
}
