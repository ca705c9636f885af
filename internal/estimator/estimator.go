// Package estimator wires the whole pipeline together: load the graph,
// run the feasibility gate, build the chosen filter's ensemble, warm it
// up, drive the cooling schedule, and hand back the final permanent
// estimate plus the final reciprocal-weight matrix (spec §6/§7).
package estimator

import (
	"context"
	"fmt"

	"github.com/katalvlaran/permanent/internal/bipartite"
	"github.com/katalvlaran/permanent/internal/ensemble"
	"github.com/katalvlaran/permanent/internal/filter"
	"github.com/katalvlaran/permanent/internal/graphio"
	"github.com/katalvlaran/permanent/internal/logx"
	"github.com/katalvlaran/permanent/internal/matrix"
	"github.com/katalvlaran/permanent/internal/schedule"
)

// Kind names the three filter families exposed on the CLI.
type Kind string

const (
	KindConstant       Kind = "constant"
	KindAdditive       Kind = "additive"
	KindMultiplicative Kind = "multiplicative"
)

// Config is the full run configuration: graph source, filter choice,
// ensemble tunables, and cooling-schedule ratios.
type Config struct {
	GraphPath           string
	Filter              Kind
	Ensemble            ensemble.Config
	AdditiveRatio       int
	MultiplicativeRatio int
	Recompute           bool
	Logger              logx.Logger
	// Observe, if set, is additionally invoked on every cooling step
	// (the CLI uses this to print the §6 per-step line to stdout,
	// independent of the logger's level).
	Observe ensemble.StepObserver
}

// Result is the pipeline's final output.
type Result struct {
	Estimator         float64
	ReciprocalWeights *matrix.Dense
}

// Run executes the full pipeline for cfg.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logx.Default()
	}

	logger.Info("loading graph from %s", cfg.GraphPath)
	g, _, err := graphio.LoadFeasible(cfg.GraphPath)
	if err != nil {
		return nil, err
	}
	logger.Info("graph loaded: n=%d, feasible", g.Size)

	sched, err := schedule.New(schedule.Config{
		N:                   g.Size,
		AdditiveRatio:       cfg.AdditiveRatio,
		MultiplicativeRatio: cfg.MultiplicativeRatio,
	})
	if err != nil {
		return nil, err
	}

	switch cfg.Filter {
	case KindConstant:
		return run(ctx, filter.Constant{}, g, sched, cfg, logger)
	case KindAdditive:
		return run(ctx, filter.Additive{}, g, sched, cfg, logger)
	case KindMultiplicative:
		return run(ctx, filter.Multiplicative{}, g, sched, cfg, logger)
	default:
		return nil, fmt.Errorf("estimator: unknown filter %q", cfg.Filter)
	}
}

// run instantiates the ensemble monomorphically in T and drives it to
// completion.
func run[T any](ctx context.Context, strategy filter.Strategy[T], g *bipartite.Graph, sched *schedule.Schedule, cfg Config, logger logx.Logger) (*Result, error) {
	ens := ensemble.New(strategy, g, cfg.Ensemble)

	logger.Info("warming up %d chains for %d transits each", cfg.Ensemble.NumChains, cfg.Ensemble.WarmupTimes)
	if err := ens.Warmup(ctx); err != nil {
		return nil, fmt.Errorf("estimator: warmup: %w", err)
	}

	observe := func(beta, value, ratio float64) {
		logger.Debug("beta=%g estimator=%g ratio=%g", beta, value, ratio)
		if cfg.Observe != nil {
			cfg.Observe(beta, value, ratio)
		}
	}

	value, err := ens.CoolingEvolve(ctx, sched, cfg.Recompute, observe)
	if err != nil {
		return nil, fmt.Errorf("estimator: cooling: %w", err)
	}
	logger.Info("final estimator=%g", value)

	return &Result{Estimator: value, ReciprocalWeights: ens.State().Weight}, nil
}
