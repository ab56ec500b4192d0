package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"checkmate-data/codec"
	"checkmate-data/oracle"
)

var alphabetCommand = cli.Command{
	Name:  "alphabet",
	Usage: "Print the ordered legal moves of a position and the bits each choice carries",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "fen",
			Usage: "FEN string (defaults to initial position)",
			Value: oracle.StartFEN,
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "Also run perft to this depth",
		},
		cli.BoolFlag{
			Name:  "divide",
			Usage: "Print per-move node counts at root (needs --depth)",
		},
		cli.StringFlag{
			Name:  "cpuprofile",
			Usage: "Write CPU profile to file during perft",
		},
	},
	Action: runAlphabet,
}

func runAlphabet(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	fen := ctx.String("fen")
	pos, err := oracle.FromFEN(cfg.Backend, fen)
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	moves := pos.LegalMoves()
	out := pos.Outcome()
	fmt.Fprintf(w, "backend %s, ordering %s, %s to move, %d legal moves, %d bits per choice (%s)\n",
		pos.Backend(), oracle.OrderingVersion, pos.SideToMove(), len(moves), codec.BitsFor(len(moves)), out)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i, m := range moves {
		code := "-"
		if k := codec.BitsFor(len(moves)); k > 0 && i < 1<<uint(k) {
			code = fmt.Sprintf("%0*b", k, i)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, m, pos.Notation(m), code)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	depth := ctx.Int("depth")
	if depth <= 0 {
		if ctx.Bool("divide") {
			return errors.New("--divide needs --depth > 0")
		}
		return nil
	}

	if ctx.Bool("divide") {
		div, err := oracle.PerftDivide(cfg.Backend, fen, depth)
		if err != nil {
			return err
		}
		// Sort moves for stable output
		type kv struct {
			m oracle.Move
			n uint64
		}
		arr := make([]kv, 0, len(div))
		var sum uint64
		for m, n := range div {
			arr = append(arr, kv{m, n})
			sum += n
		}
		sort.Slice(arr, func(i, j int) bool { return arr[i].m.String() < arr[j].m.String() })
		for _, x := range arr {
			fmt.Fprintf(w, "%s: %d\n", x.m, x.n)
		}
		fmt.Fprintf(w, "Total: %d\n", sum)
		return nil
	}

	if prof := ctx.String("cpuprofile"); prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return err
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	start := time.Now()
	nodes, err := oracle.Perft(cfg.Backend, fen, depth)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	// Single line: Depth Nodes Time NPS
	fmt.Fprintf(w, "%d \t%d \t%s \t%.0f\n", depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
	return nil
}
