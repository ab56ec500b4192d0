package oracle

import (
	"strings"

	"github.com/pkg/errors"
)

// Notation returns the SAN of a legal move without the check or mate suffix,
// which is only known once the move is played (see Play).
func (p *Position) Notation(m Move) string {
	p.refresh()
	return p.sanBase(m)
}

func (p *Position) sanBase(m Move) string {
	pc := p.squares[m.From]
	if pc.Type == King && abs(m.From.File()-m.To.File()) == 2 {
		if m.To.File() == 6 {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	capture := !p.squares[m.To].Empty()
	if pc.Type == Pawn {
		if m.From.File() != m.To.File() {
			sb.WriteByte('a' + byte(m.From.File()))
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.Promo != NoPieceType {
			sb.WriteByte('=')
			sb.WriteByte(m.Promo.Letter())
		}
		return sb.String()
	}

	sb.WriteByte(pc.Type.Letter())
	sb.WriteString(p.disambiguation(m, pc.Type))
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	return sb.String()
}

// disambiguation returns the origin file, rank or both when another piece of
// the same type can also reach the destination.
func (p *Position) disambiguation(m Move, pt PieceType) string {
	rivals, sameFile, sameRank := 0, false, false
	for _, n := range p.moves {
		if n.To != m.To || n.From == m.From || p.squares[n.From].Type != pt {
			continue
		}
		rivals++
		if n.From.File() == m.From.File() {
			sameFile = true
		}
		if n.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case rivals == 0:
		return ""
	case !sameFile:
		return m.From.String()[:1]
	case !sameRank:
		return m.From.String()[1:]
	}
	return m.From.String()
}

func (p *Position) checkSuffix() string {
	if !p.b.inCheck() {
		return ""
	}
	if p.NumMoves() == 0 {
		return "#"
	}
	return "+"
}

// Resolve finds the legal move named by a SAN ("Nbd7", "exd8=Q+", "O-O") or
// UCI ("g1f3") token and returns it with its index in the ordered legal moves.
func (p *Position) Resolve(token string) (Move, int, error) {
	p.refresh()
	tok := strings.TrimRight(strings.TrimSpace(token), "+#!?")
	if tok == "" {
		return Move{}, -1, errors.Wrap(ErrIllegalMove, "empty move token")
	}

	if m, err := ParseUCI(tok); err == nil {
		if idx := p.IndexOf(m); idx >= 0 {
			return m, idx, nil
		}
	}

	switch tok {
	case "O-O", "0-0":
		return p.resolveCastle(token, 6)
	case "O-O-O", "0-0-0":
		return p.resolveCastle(token, 2)
	}

	pt := Pawn
	rest := tok
	if c := rest[0]; c >= 'A' && c <= 'Z' {
		pt = pieceTypeFromLetter(c)
		if pt == NoPieceType || pt == Pawn {
			return Move{}, -1, errors.Wrapf(ErrIllegalMove, "unknown piece in %q", token)
		}
		rest = rest[1:]
	}

	promo := NoPieceType
	if i := strings.IndexByte(rest, '='); i >= 0 {
		if i+1 >= len(rest) {
			return Move{}, -1, errors.Wrapf(ErrIllegalMove, "missing promotion piece in %q", token)
		}
		promo = pieceTypeFromLetter(rest[i+1])
		rest = rest[:i]
	} else if n := len(rest); n > 2 && pieceTypeFromLetter(rest[n-1]) != NoPieceType && rest[n-1] >= 'A' && rest[n-1] <= 'Z' {
		promo = pieceTypeFromLetter(rest[n-1])
		rest = rest[:n-1]
	}

	rest = strings.Replace(rest, "x", "", 1)
	if len(rest) < 2 {
		return Move{}, -1, errors.Wrapf(ErrIllegalMove, "malformed move %q", token)
	}
	to, err := ParseSquare(rest[len(rest)-2:])
	if err != nil {
		return Move{}, -1, errors.Wrapf(ErrIllegalMove, "malformed move %q", token)
	}
	hint := rest[:len(rest)-2]
	if len(hint) > 2 {
		return Move{}, -1, errors.Wrapf(ErrIllegalMove, "malformed move %q", token)
	}

	found := -1
	for i, n := range p.moves {
		if n.To != to || n.Promo != promo || p.squares[n.From].Type != pt {
			continue
		}
		if !matchesHint(n.From, hint) {
			continue
		}
		if found >= 0 {
			return Move{}, -1, errors.Wrapf(ErrIllegalMove, "ambiguous move %q", token)
		}
		found = i
	}
	if found < 0 {
		return Move{}, -1, errors.Wrapf(ErrIllegalMove, "%q at ply %d", token, p.ply)
	}
	return p.moves[found].Move, found, nil
}

func (p *Position) resolveCastle(token string, file int) (Move, int, error) {
	for i, n := range p.moves {
		if p.squares[n.From].Type == King && n.From.File() == 4 && n.To.File() == file {
			return n.Move, i, nil
		}
	}
	return Move{}, -1, errors.Wrapf(ErrIllegalMove, "%q at ply %d", token, p.ply)
}

func matchesHint(from Square, hint string) bool {
	for i := 0; i < len(hint); i++ {
		c := hint[i]
		switch {
		case c >= 'a' && c <= 'h':
			if from.File() != int(c-'a') {
				return false
			}
		case c >= '1' && c <= '8':
			if from.Rank() != int(c-'1') {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
