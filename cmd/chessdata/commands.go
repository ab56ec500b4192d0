package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"checkmate-data/archive"
	"checkmate-data/codec"
)

var encodeCommand = cli.Command{
	Name:      "encode",
	Usage:     "Encode a file as chess games",
	ArgsUsage: "<file>",
	Flags:     []cli.Flag{outFlag, compressionFlag, gamesPerEntryFlag, maxInputFlag},
	Action:    runEncode,
}

var decodeCommand = cli.Command{
	Name:      "decode",
	Usage:     "Restore a file from .pgn or .zip archives",
	ArgsUsage: "<file> [file...]",
	Flags:     []cli.Flag{outFlag},
	Action:    runDecode,
}

var inspectCommand = cli.Command{
	Name:      "inspect",
	Usage:     "Replay archives and print per-game statistics without writing anything",
	ArgsUsage: "<file> [file...]",
	Action:    runInspect,
}

func runEncode(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return errors.New("encode needs exactly one input file")
	}
	s, err := newSetup(ctx)
	if err != nil {
		return err
	}
	defer s.stop()

	path := ctx.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := archive.CheckInput(data, s.cfg.MaxInputBytes); err != nil {
		return errors.Wrap(err, path)
	}

	now := time.Now()
	res, err := codec.Encode(s.ctx, data, s.factory, codec.Options{
		Extension:   filepath.Ext(path),
		Compression: s.cfg.Compression,
		Now:         func() time.Time { return now },
		Progress:    progressLogger(s.log),
		Logger:      s.log,
	})
	if err != nil {
		return err
	}
	out, err := archive.Pack(archive.BaseName(path), res.Texts(), archive.Options{
		GamesPerEntry: s.cfg.GamesPerEntry,
		Modified:      now,
	})
	if err != nil {
		return err
	}
	dst := filepath.Join(s.cfg.OutputDir, out.Name)
	if err := os.WriteFile(dst, out.Data, 0o644); err != nil {
		return err
	}
	s.log.WithFields(statsFields(res.Stats)).WithField("file", dst).Info("archive written")
	return nil
}

func runDecode(ctx *cli.Context) error {
	if len(ctx.Args()) == 0 {
		return errors.New("decode needs at least one input file")
	}
	s, err := newSetup(ctx)
	if err != nil {
		return err
	}
	defer s.stop()

	res, err := decodeFiles(s, ctx.Args(), nil)
	if err != nil {
		return err
	}
	dst := filepath.Join(s.cfg.OutputDir, archive.OutputName(ctx.Args().First(), res.Metadata.Extension))
	if err := os.WriteFile(dst, res.Payload, 0o644); err != nil {
		return err
	}
	s.log.WithFields(statsFields(res.Stats)).WithField("file", dst).Info("file restored")
	return nil
}

func runInspect(ctx *cli.Context) error {
	if len(ctx.Args()) == 0 {
		return errors.New("inspect needs at least one input file")
	}
	s, err := newSetup(ctx)
	if err != nil {
		return err
	}
	defer s.stop()

	tw := tabwriter.NewWriter(ctx.App.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUND\tRESULT\tMOVES\tBITS\tOUTCOME")
	obs := codec.ObserverFunc(func(g *codec.Game) {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", g.Meta.Round, g.Outcome.Result(), len(g.Moves), g.Bits, g.Outcome)
	})
	res, err := decodeFiles(s, ctx.Args(), obs)
	if err != nil {
		return err
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printSummary(ctx.App.Writer, res)
	return nil
}

func decodeFiles(s *setup, paths []string, obs codec.Observer) (*codec.DecodeResult, error) {
	var texts []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		t, err := archive.Unpack(filepath.Base(path), data)
		if err != nil {
			return nil, err
		}
		texts = append(texts, t...)
	}
	return codec.Decode(s.ctx, texts, s.factory, codec.Options{
		Progress: progressLogger(s.log),
		Observer: obs,
		Logger:   s.log,
	})
}

func printSummary(w io.Writer, res *codec.DecodeResult) {
	st, m := res.Stats, res.Metadata
	fmt.Fprintf(w, "games %d, moves %d (forced %d), bits %d\n", st.Games, st.Moves, st.Forced, st.Bits)
	fmt.Fprintf(w, "white wins %d, black wins %d, draws %d, unfinished %d\n", st.WhiteWins, st.BlackWins, st.Draws, st.Unfinished)
	length := "unknown"
	if m.Length >= 0 {
		length = fmt.Sprintf("%d bytes", m.Length)
	}
	compression := m.Compression
	if compression == "" {
		compression = codec.None
	}
	fmt.Fprintf(w, "payload %d bytes, encoded length %s, compression %s, extension %s\n", len(res.Payload), length, compression, m.Extension)
}

func statsFields(st codec.Stats) logrus.Fields {
	return logrus.Fields{
		"games":      st.Games,
		"moves":      st.Moves,
		"bits":       st.Bits,
		"whiteWins":  st.WhiteWins,
		"blackWins":  st.BlackWins,
		"draws":      st.Draws,
		"unfinished": st.Unfinished,
	}
}

// progressLogger traces progress in whole percent steps.
func progressLogger(log *logrus.Logger) func(codec.Progress) {
	last := -1
	return func(p codec.Progress) {
		if p.BitsTotal == 0 {
			return
		}
		pct := 100 * p.BitsDone / p.BitsTotal
		if pct == last {
			return
		}
		last = pct
		log.WithFields(logrus.Fields{
			"stage": p.Stage,
			"games": p.Games,
			"moves": p.Moves,
		}).Tracef("%d%%", pct)
	}
}
