package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"checkmate-data/config"
	"checkmate-data/logging"
	"checkmate-data/oracle"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "JSON configuration file",
	}
	backendFlag = cli.StringFlag{
		Name:  "backend",
		Usage: "Move generator backend (goosemg|dragontooth)",
		Value: oracle.DefaultBackend,
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log.format",
		Usage: "Log output format (text|json)",
		Value: logging.FormatText,
	}
	logVerbosityFlag = cli.IntFlag{
		Name:  "log.verbosity",
		Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
		Value: 3,
	}

	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "Output directory",
	}
	compressionFlag = cli.StringFlag{
		Name:  "compression",
		Usage: "Compress the payload before encoding when it helps (none|gzip|zstd)",
		Value: "gzip",
	}
	gamesPerEntryFlag = cli.IntFlag{
		Name:  "games-per-entry",
		Usage: "Games stored in each zip entry",
		Value: 1,
	}
	maxInputFlag = cli.IntFlag{
		Name:  "max-input",
		Usage: "Largest accepted input in bytes, 0 for no limit",
		Value: 50 << 10,
	}
)

func globalFlags() []cli.Flag {
	return []cli.Flag{configFlag, backendFlag, logFormatFlag, logVerbosityFlag}
}

// makeConfig merges defaults, the optional config file, then CLI flag overrides.
func makeConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if file := ctx.GlobalString(configFlag.Name); file != "" {
		if err := config.LoadFile(file, &cfg); err != nil {
			return cfg, err
		}
	}
	applyCLIOverrides(ctx, &cfg)
	return cfg, cfg.Validate()
}

func applyCLIOverrides(ctx *cli.Context, cfg *config.Config) {
	if ctx.GlobalIsSet(backendFlag.Name) {
		cfg.Backend = ctx.GlobalString(backendFlag.Name)
	}
	if ctx.GlobalIsSet(logFormatFlag.Name) {
		cfg.Log.Format = ctx.GlobalString(logFormatFlag.Name)
	}
	if ctx.GlobalIsSet(logVerbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.GlobalInt(logVerbosityFlag.Name)
	}

	if ctx.IsSet(outFlag.Name) {
		cfg.OutputDir = ctx.String(outFlag.Name)
	}
	if ctx.IsSet(compressionFlag.Name) {
		cfg.Compression = ctx.String(compressionFlag.Name)
	}
	if ctx.IsSet(gamesPerEntryFlag.Name) {
		cfg.GamesPerEntry = ctx.Int(gamesPerEntryFlag.Name)
	}
	if ctx.IsSet(maxInputFlag.Name) {
		cfg.MaxInputBytes = ctx.Int(maxInputFlag.Name)
	}
}

// setup prepares everything a command needs: configuration, logger, move
// generator, and a context cancelled on interrupt.
type setup struct {
	cfg     config.Config
	log     *logrus.Logger
	factory oracle.Factory
	ctx     context.Context
	stop    context.CancelFunc
}

func newSetup(ctx *cli.Context) (*setup, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	factory, err := oracle.Lookup(cfg.Backend)
	if err != nil {
		return nil, err
	}
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	return &setup{cfg: cfg, log: log, factory: factory, ctx: runCtx, stop: stop}, nil
}
