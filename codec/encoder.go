package codec

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"checkmate-data/bitstream"
	"checkmate-data/oracle"
	"checkmate-data/pgn"
)

// EncodeResult holds the games produced from a payload, in order.
type EncodeResult struct {
	Games []Game
	Stats Stats
	// Compression is the method actually applied, empty for none.
	Compression string
}

// Texts returns the PGN text of each game.
func (r *EncodeResult) Texts() []string {
	out := make([]string, len(r.Games))
	for i := range r.Games {
		out[i] = r.Games[i].Text
	}
	return out
}

type encoder struct {
	ctx     context.Context
	opts    *Options
	log     logrus.FieldLogger
	factory oracle.Factory
	meta    pgn.Metadata
	res     *EncodeResult

	pos       *oracle.Position
	moves     []string
	gameBits  int
	totalBits int
	plies     int
}

// Encode turns payload into a sequence of legal games. Every choice among
// n >= 2 legal moves consumes floor(log2 n) bits; the final choice consumes
// whatever bits remain.
func Encode(ctx context.Context, payload []byte, factory oracle.Factory, opts Options) (*EncodeResult, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	data, method, err := Shrink(payload, opts.Compression)
	if err != nil {
		return nil, err
	}
	e := &encoder{
		ctx:     ctx,
		opts:    &opts,
		log:     opts.logger(),
		factory: factory,
		res:     &EncodeResult{Compression: method},
	}
	e.meta = pgn.NewMetadata()
	e.meta.Played = opts.now()
	e.meta.Extension = pgn.NormalizeExtension(opts.Extension)
	e.meta.Ordering = oracle.OrderingVersion
	e.meta.Compression = method
	if !opts.OmitLength {
		e.meta.Length = len(data)
	}

	if err := e.run(bitstream.NewReader(data)); err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"games":       e.res.Stats.Games,
		"moves":       e.res.Stats.Moves,
		"bits":        e.res.Stats.Bits,
		"compression": method,
	}).Info("payload encoded")
	return e.res, nil
}

func (e *encoder) run(r *bitstream.Reader) error {
	e.totalBits = r.Total()
	if err := e.reset(); err != nil {
		return err
	}
	for r.Remaining() > 0 {
		if err := cancelled(e.ctx); err != nil {
			return err
		}
		n := e.pos.NumMoves()
		if n == 0 {
			return errors.Errorf("encode: no legal moves in an undecided position at ply %d", e.pos.Ply())
		}
		idx := 0
		if n == 1 {
			e.res.Stats.Forced++
		} else {
			v, got := r.Next(BitsFor(n))
			idx = int(v)
			e.gameBits += got
		}
		san, err := e.pos.Play(e.pos.MoveAt(idx))
		if err != nil {
			return errors.Wrap(err, "encode")
		}
		e.moves = append(e.moves, san)
		e.plies++

		if e.pos.IsTerminal() {
			e.finish()
			if err := e.reset(); err != nil {
				return err
			}
		}
		e.opts.report(Progress{
			Stage:     StageEncode,
			BitsTotal: e.totalBits,
			BitsDone:  r.Consumed(),
			Games:     len(e.res.Games),
			Moves:     e.plies,
		})
	}
	if len(e.moves) > 0 {
		e.finish()
	}
	return nil
}

func (e *encoder) reset() error {
	pos, err := e.factory()
	if err != nil {
		return errors.Wrap(err, "encode: new game")
	}
	e.pos = pos
	e.moves = nil
	e.gameBits = 0
	return nil
}

// finish closes the current game with the position's outcome, or the
// unfinished marker when bits ran out mid-game.
func (e *encoder) finish() {
	out := e.pos.Outcome()
	meta := e.meta
	meta.Round = len(e.res.Games) + 1
	meta.Result = out.Result()

	g := Game{
		Moves:   e.moves,
		Meta:    meta,
		Outcome: out,
		Bits:    e.gameBits,
	}
	g.Text = pgn.Format(g.Moves, meta)
	e.res.Games = append(e.res.Games, g)
	e.res.Stats.add(&g)

	e.log.WithFields(logrus.Fields{
		"round":  meta.Round,
		"result": meta.Result,
		"moves":  len(g.Moves),
		"bits":   g.Bits,
	}).Debug("game finished")
	e.opts.finished(&e.res.Games[len(e.res.Games)-1])
}
