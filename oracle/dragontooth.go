package oracle

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
	"github.com/pkg/errors"
)

// dragonBoard adapts dylhunn/dragontoothmg.
type dragonBoard struct {
	b dragontoothmg.Board
}

// newDragonBoard ignores side: dragontoothmg reads it from the FEN.
func newDragonBoard(fen string, _ Color) (b board, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, errors.Errorf("dragontoothmg: invalid FEN %q: %v", fen, r)
		}
	}()
	return &dragonBoard{b: dragontoothmg.ParseFen(fen)}, nil
}

func (d *dragonBoard) legal(dst []native) []native {
	for _, m := range d.b.GenerateLegalMoves() {
		dst = append(dst, native{
			Move: Move{
				From:  Square(m.From()),
				To:    Square(m.To()),
				Promo: dragonType(m.Promote()),
			},
			raw: uint32(m),
		})
	}
	return dst
}

func (d *dragonBoard) play(n native) {
	d.b.Apply(dragontoothmg.Move(n.raw))
}

func (d *dragonBoard) inCheck() bool { return d.b.OurKingInCheck() }

func (d *dragonBoard) pieceAt(sq Square) Piece {
	bit := uint64(1) << uint(sq)
	if d.b.White.All&bit != 0 {
		return Piece{dragonPieceOn(&d.b.White, bit), White}
	}
	if d.b.Black.All&bit != 0 {
		return Piece{dragonPieceOn(&d.b.Black, bit), Black}
	}
	return Piece{}
}

func dragonPieceOn(bb *dragontoothmg.Bitboards, bit uint64) PieceType {
	switch {
	case bb.Pawns&bit != 0:
		return Pawn
	case bb.Knights&bit != 0:
		return Knight
	case bb.Bishops&bit != 0:
		return Bishop
	case bb.Rooks&bit != 0:
		return Rook
	case bb.Queens&bit != 0:
		return Queen
	case bb.Kings&bit != 0:
		return King
	}
	panic(fmt.Sprintf("dragontoothmg: occupancy bit %#x without a piece", bit))
}

func dragonType(p dragontoothmg.Piece) PieceType {
	switch p {
	case dragontoothmg.Knight:
		return Knight
	case dragontoothmg.Bishop:
		return Bishop
	case dragontoothmg.Rook:
		return Rook
	case dragontoothmg.Queen:
		return Queen
	}
	return NoPieceType
}
