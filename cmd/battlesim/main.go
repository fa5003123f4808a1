package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"battlecore/internal/config"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	opts := options{
		ConfigDir: settings.AssetsDir,
		Out:       settings.Out,
		Seed:      settings.Seed,
		MaxTurns:  settings.MaxTurns,
		LogLevel:  settings.LogLevel,
		ResultDB:  settings.ResultDB,
		Runs:      1,
		Workers:   8,
	}
	flag.StringVar(&opts.ConfigDir, "config", opts.ConfigDir, "config dir")
	flag.StringVar(&opts.Out, "out", opts.Out, "output file (single) or summary file (batch); empty prints to stdout")
	flag.Int64Var(&opts.Seed, "seed", opts.Seed, "seed")
	flag.IntVar(&opts.Runs, "n", opts.Runs, "number of simulations")
	flag.IntVar(&opts.Workers, "workers", opts.Workers, "batch workers")
	flag.IntVar(&opts.MaxTurns, "turns", opts.MaxTurns, "turn limit when the encounter sets none; 0 disables")
	flag.StringVar(&opts.LogLevel, "log", opts.LogLevel, "log level")
	flag.StringVar(&opts.ResultDB, "db", opts.ResultDB, "sqlite file recording every outcome")
	flag.BoolVar(&opts.Quiet, "quiet", false, "do not play the single battle back on stdout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
