package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"battlecore/internal/battle"
	"battlecore/internal/combat"
	"battlecore/internal/config"
	"battlecore/internal/formula"
	"battlecore/internal/logging"
	"battlecore/internal/present"
	"battlecore/internal/report"
	"battlecore/internal/storage/sqlite"
	"battlecore/internal/tables"
	"battlecore/internal/util"
)

type options struct {
	ConfigDir string
	Out       string
	Seed      int64
	Runs      int
	Workers   int
	MaxTurns  int
	LogLevel  string
	ResultDB  string
	Quiet     bool
}

// singleReport is what a single run writes.
type singleReport struct {
	Encounter string            `json:"encounter"`
	Seed      int64             `json:"seed"`
	Outcome   battle.Outcome    `json:"outcome"`
	History   []battle.Directed `json:"history,omitempty"`
}

// batchSummary aggregates a batch of runs.
type batchSummary struct {
	Encounter string  `json:"encounter"`
	Runs      int     `json:"runs"`
	Victories int     `json:"victories"`
	Defeats   int     `json:"defeats"`
	Draws     int     `json:"draws"`
	TimedOut  int     `json:"timed_out"`
	Failed    int     `json:"failed"`
	WinRate   float64 `json:"win_rate"`
	AvgTurns  float64 `json:"avg_turns"`
}

type simulator struct {
	data     *tables.Data
	log      *zap.Logger
	results  *sqlite.Store
	maxTurns int
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	logger, err := logging.New(opts.LogLevel, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadAll(opts.ConfigDir)
	if err != nil {
		return err
	}
	data, err := tables.Build(cfg)
	if err != nil {
		return err
	}

	sim := &simulator{data: data, log: logger, maxTurns: opts.MaxTurns}
	if enc := data.Encounter(); enc.MaxTurns > 0 {
		sim.maxTurns = enc.MaxTurns
	}
	if opts.ResultDB != "" {
		store, err := sqlite.Open(opts.ResultDB)
		if err != nil {
			return err
		}
		defer store.Close()
		sim.results = store
	}

	if opts.Runs <= 1 {
		var director battle.Director
		if !opts.Quiet {
			director = present.NewTextDirector(stdout)
		}
		rep, err := sim.single(ctx, opts.Seed, director)
		if err != nil {
			return err
		}
		if err := writeOut(opts.Out, stdout, report.MarshalPretty(rep)); err != nil {
			return err
		}
		logger.Info("single battle finished",
			zap.String("battle", rep.Outcome.BattleID),
			zap.Stringer("result", rep.Outcome.Result),
			zap.Int("turns", rep.Outcome.Turns))
		return nil
	}

	sum := sim.batch(ctx, opts.Seed, opts.Runs, opts.Workers)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeOut(opts.Out, stdout, report.MarshalPretty(sum)); err != nil {
		return err
	}
	logger.Info("batch finished", zap.Int("runs", sum.Runs), zap.Float64("win_rate", sum.WinRate))
	return nil
}

// newCore builds one battle with its own roster and formula engine.
func (s *simulator) newCore(seed int64, director battle.Director) (*battle.Core, error) {
	engine := formula.NewEngine(s.log.Named("formula"))
	if err := engine.CompileAll(s.data.Formulas()); err != nil {
		return nil, err
	}
	roster := combat.NewRoster()
	deps := battle.Deps{
		Data:     s.data,
		Registry: roster,
		Damage:   roster,
		Parts:    roster,
		Spawner:  roster,
		Formulas: engine,
		Director: director,
		Rand:     util.New(seed),
		Logger:   s.log,
		MaxTurns: s.maxTurns,
	}
	if s.results != nil {
		deps.Results = sqlite.ResultHandler{Store: s.results, Encounter: s.data.Encounter().Name, Seed: seed}
	}
	core, err := battle.New(deps)
	if err != nil {
		return nil, err
	}
	if err := core.SpawnEncounter(s.data.Encounter(), nil); err != nil {
		return nil, err
	}
	return core, nil
}

func (s *simulator) single(ctx context.Context, seed int64, director battle.Director) (singleReport, error) {
	core, err := s.newCore(seed, director)
	if err != nil {
		return singleReport{}, err
	}
	defer core.Release()
	out, err := battle.Drive(ctx, core, battle.AutoPilot{Rand: util.New(seed + 1)})
	if err != nil {
		return singleReport{}, err
	}
	return singleReport{
		Encounter: s.data.Encounter().Name,
		Seed:      seed,
		Outcome:   out,
		History:   core.History(),
	}, nil
}

func (s *simulator) batch(ctx context.Context, seed int64, n, workers int) batchSummary {
	if workers < 1 {
		workers = 1
	}
	sum := batchSummary{Encounter: s.data.Encounter().Name, Runs: n}
	sumTurns := 0
	var mu sync.Mutex
	wg := sync.WaitGroup{}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				runSeed := seed + int64(i)*7919
				out, err := s.quiet(ctx, runSeed)

				mu.Lock()
				if err != nil {
					sum.Failed++
					s.log.Warn("battle failed", zap.Int64("seed", runSeed), zap.Error(err))
				} else {
					switch out.Result {
					case combat.ResultVictory:
						sum.Victories++
					case combat.ResultDefeat:
						sum.Defeats++
					default:
						sum.Draws++
					}
					if out.TimedOut {
						sum.TimedOut++
					}
					sumTurns += out.Turns
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if done := sum.Runs - sum.Failed; done > 0 {
		sum.WinRate = float64(sum.Victories) / float64(done)
		sum.AvgTurns = float64(sumTurns) / float64(done)
	}
	return sum
}

func (s *simulator) quiet(ctx context.Context, seed int64) (battle.Outcome, error) {
	core, err := s.newCore(seed, nil)
	if err != nil {
		return battle.Outcome{}, err
	}
	defer core.Release()
	return battle.Drive(ctx, core, battle.AutoPilot{Rand: util.New(seed + 1)})
}

func writeOut(path string, stdout io.Writer, b []byte) error {
	if path == "" {
		_, err := fmt.Fprintf(stdout, "%s\n", b)
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
