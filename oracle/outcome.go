package oracle

// Kind classifies the state of a game.
type Kind uint8

const (
	Ongoing Kind = iota
	Checkmate
	Stalemate
	Draw
)

func (k Kind) String() string {
	switch k {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

// Reason tells which rule ended a drawn game.
type Reason uint8

const (
	NoReason Reason = iota
	FiftyMoveRule
	ThreefoldRepetition
	InsufficientMaterial
)

func (r Reason) String() string {
	switch r {
	case FiftyMoveRule:
		return "fifty-move rule"
	case ThreefoldRepetition:
		return "threefold repetition"
	case InsufficientMaterial:
		return "insufficient material"
	}
	return ""
}

// PGN result tokens.
const (
	ResultWhiteWins  = "1-0"
	ResultBlackWins  = "0-1"
	ResultDraw       = "1/2-1/2"
	ResultUnfinished = "*"
)

// Outcome is the game state at a position. Winner is meaningful only for checkmate.
type Outcome struct {
	Kind   Kind
	Winner Color
	Reason Reason
}

// Decided reports whether the game is over.
func (o Outcome) Decided() bool { return o.Kind != Ongoing }

// Result returns the PGN result token for the outcome.
func (o Outcome) Result() string {
	switch o.Kind {
	case Checkmate:
		if o.Winner == White {
			return ResultWhiteWins
		}
		return ResultBlackWins
	case Stalemate, Draw:
		return ResultDraw
	}
	return ResultUnfinished
}

func (o Outcome) String() string {
	switch o.Kind {
	case Checkmate:
		return "checkmate, " + o.Winner.String() + " wins"
	case Draw:
		return "draw by " + o.Reason.String()
	}
	return o.Kind.String()
}
