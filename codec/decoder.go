package codec

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"checkmate-data/bitstream"
	"checkmate-data/oracle"
	"checkmate-data/pgn"
)

// DecodeResult holds a recovered payload.
type DecodeResult struct {
	Payload []byte
	Stats   Stats
	// Metadata comes from the last game.
	Metadata pgn.Metadata
}

// maxBitsPerPly bounds the bits one move can carry: no position has more than
// 218 legal moves.
const maxBitsPerPly = 7

type decoder struct {
	ctx     context.Context
	opts    *Options
	log     logrus.FieldLogger
	factory oracle.Factory
	acc     *bitstream.Accumulator
	res     *DecodeResult

	// limit is the exact payload bit count, or -1 for the legacy layout
	limit int
	plies int
}

// Decode replays games and recovers the payload they carry. Each element of
// texts may hold one or more games; games are taken in order.
func Decode(ctx context.Context, texts []string, factory oracle.Factory, opts Options) (*DecodeResult, error) {
	var games []string
	for _, t := range texts {
		games = append(games, pgn.Split(t)...)
	}
	if len(games) == 0 {
		return nil, pgn.ErrNoGames
	}
	parsed := make([]*pgn.Game, len(games))
	for i, text := range games {
		g, err := pgn.Parse(text)
		if err != nil {
			var se *pgn.SyntaxError
			if errors.As(err, &se) {
				se.Game = i + 1
			}
			return nil, err
		}
		if _, ok := g.Tags[pgn.TagEvent]; !ok {
			return nil, &pgn.SyntaxError{Game: i + 1, Msg: "missing Event tag"}
		}
		parsed[i] = g
	}

	meta := parsed[len(parsed)-1].Metadata()
	switch meta.Ordering {
	case oracle.OrderingVersion:
	case "":
		return nil, errors.Wrap(ErrUnsupportedOrdering, "no Ordering tag")
	default:
		return nil, errors.Wrapf(ErrUnsupportedOrdering, "%q", meta.Ordering)
	}
	if meta.Length >= 0 {
		moves := 0
		for _, g := range parsed {
			moves += len(g.Moves)
		}
		if most := (moves*maxBitsPerPly + 7) / 8; meta.Length > most {
			g := parsed[len(parsed)-1]
			return nil, &DesyncError{
				Game:   len(parsed),
				Ply:    len(g.Moves),
				Reason: fmt.Sprintf("Length tag says %d bytes, %d moves carry at most %d", meta.Length, moves, most),
			}
		}
	}
	d := &decoder{
		ctx:     ctx,
		opts:    &opts,
		log:     opts.logger(),
		factory: factory,
		res:     &DecodeResult{Metadata: meta},
		limit:   -1,
	}
	if meta.Length >= 0 {
		d.limit = 8 * meta.Length
		d.acc = bitstream.NewAccumulator(meta.Length)
	} else {
		d.acc = bitstream.NewAccumulator(len(games) * 32)
	}

	for i, g := range parsed {
		if err := d.replay(i+1, games[i], g); err != nil {
			return nil, err
		}
	}
	if d.limit >= 0 && d.acc.Len() != d.limit {
		return nil, &DesyncError{
			Game:   len(parsed),
			Ply:    len(parsed[len(parsed)-1].Moves),
			Reason: fmt.Sprintf("games carry %d bits, Length tag says %d", d.acc.Len(), d.limit),
		}
	}

	data := d.acc.Finalize()
	payload, err := Expand(data, meta.Compression)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	d.res.Payload = payload

	d.log.WithFields(logrus.Fields{
		"games":       d.res.Stats.Games,
		"moves":       d.res.Stats.Moves,
		"bits":        d.res.Stats.Bits,
		"bytes":       len(payload),
		"compression": meta.Compression,
	}).Info("payload decoded")
	return d.res, nil
}

func (d *decoder) replay(round int, text string, g *pgn.Game) error {
	pos, err := d.factory()
	if err != nil {
		return errors.Wrap(err, "decode: new game")
	}
	start := d.acc.Len()
	for i, tok := range g.Moves {
		if err := cancelled(d.ctx); err != nil {
			return err
		}
		desync := func(reason string) error {
			return &DesyncError{Game: round, Ply: i + 1, Token: tok, Reason: reason}
		}
		if pos.IsTerminal() {
			return desync("move after the game ended")
		}
		n := pos.NumMoves()
		m, idx, err := pos.Resolve(tok)
		if err != nil {
			return desync("not a legal move")
		}
		if n == 1 {
			d.res.Stats.Forced++
		} else {
			width := BitsFor(n)
			if d.limit >= 0 {
				rest := d.limit - d.acc.Len()
				if rest <= 0 {
					return desync("move carries bits past the payload end")
				}
				if rest < width {
					width = rest
				}
			}
			if idx >= 1<<uint(width) {
				return desync(fmt.Sprintf("index %d does not fit in %d bits", idx, width))
			}
			d.acc.PushUint(uint(idx), width)
		}
		if err := pos.Apply(m); err != nil {
			return errors.Wrap(err, "decode")
		}
		d.plies++
		d.opts.report(Progress{
			Stage:     StageDecode,
			BitsTotal: d.bitsTotal(),
			BitsDone:  d.acc.Len(),
			Games:     d.res.Stats.Games,
			Moves:     d.plies,
		})
	}

	out := pos.Outcome()
	game := &Game{
		Text:    text,
		Moves:   g.Moves,
		Meta:    g.Metadata(),
		Outcome: out,
		Bits:    d.acc.Len() - start,
	}
	d.res.Stats.add(game)
	d.log.WithFields(logrus.Fields{
		"round":  round,
		"result": out.Result(),
		"moves":  len(g.Moves),
		"bits":   game.Bits,
	}).Debug("game replayed")
	d.opts.finished(game)
	return nil
}

func (d *decoder) bitsTotal() int {
	if d.limit < 0 {
		return 0
	}
	return d.limit
}
