package oracle

import "github.com/pkg/errors"

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Positions have no undo, so every path is replayed from the FEN; this is
// meant for shallow verification, not speed.
func Perft(backend, fen string, depth int) (uint64, error) {
	return perft(backend, fen, nil, depth)
}

// PerftDivide returns the Perft count below each root move at depth-1.
func PerftDivide(backend, fen string, depth int) (map[Move]uint64, error) {
	if depth < 1 {
		return nil, errors.Errorf("perft divide needs depth >= 1, got %d", depth)
	}
	root, err := FromFEN(backend, fen)
	if err != nil {
		return nil, err
	}
	div := make(map[Move]uint64, root.NumMoves())
	for _, m := range root.LegalMoves() {
		n, err := perft(backend, fen, []Move{m}, depth-1)
		if err != nil {
			return nil, err
		}
		div[m] = n
	}
	return div, nil
}

func perft(backend, fen string, path []Move, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	p, err := FromFEN(backend, fen)
	if err != nil {
		return 0, err
	}
	for _, m := range path {
		if err := p.Apply(m); err != nil {
			return 0, errors.Wrapf(err, "replay %v", path)
		}
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves)), nil
	}
	var nodes uint64
	for _, m := range moves {
		n, err := perft(backend, fen, append(append([]Move(nil), path...), m), depth-1)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}
