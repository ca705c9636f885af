// Package ensemble owns the global annealing state and the C parallel
// chains, and drives warmup, the per-step reweighting evolve, and the
// cooling loop that accumulates the permanent estimate. Fan-out over
// chains uses a bounded errgroup worker pool (mirroring the
// task-channel + errgroup.SetLimit pattern used for CPU-bound fan-out
// elsewhere in the retrieval pack), data-parallel over the C chains and,
// within weight reweighting, over the rows of W (internal/matrix).
package ensemble

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/permanent/internal/anneal"
	"github.com/katalvlaran/permanent/internal/bipartite"
	"github.com/katalvlaran/permanent/internal/filter"
	"github.com/katalvlaran/permanent/internal/histogram"
	"github.com/katalvlaran/permanent/internal/schedule"
)

// Ensemble is the Markov-chain ensemble for filter strategy T.
type Ensemble[T any] struct {
	n        int
	cfg      Config
	strategy filter.Strategy[T]
	state    *anneal.State
	chains   []*filter.AugmentedMatch[T]
}

// New builds the ensemble: the annealing state from g, and C random
// permutation chains with their initial caches computed against it.
func New[T any](strategy filter.Strategy[T], g *bipartite.Graph, cfg Config) *Ensemble[T] {
	state := anneal.New(g)
	chains := make([]*filter.AugmentedMatch[T], cfg.NumChains)
	for i := range chains {
		rng := chainRNG(cfg.MasterSeed, i)
		m := bipartite.Random(g.Size, rng)
		chains[i] = filter.NewAugmentedMatch(strategy, m, state, rng)
	}

	return &Ensemble[T]{
		n:        g.Size,
		cfg:      cfg,
		strategy: strategy,
		state:    state,
		chains:   chains,
	}
}

// State exposes the annealing state (the driver needs it to print the
// final reciprocal-weight matrix).
func (e *Ensemble[T]) State() *anneal.State { return e.state }

// workers returns the configured worker cap, defaulting to GOMAXPROCS.
func (e *Ensemble[T]) workers() int {
	if e.cfg.Workers > 0 {
		return e.cfg.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// forEachChain runs fn(chain) for every chain, fanned out across a
// worker pool bounded by e.workers(); each chain is only ever touched by
// the single worker holding it, so fn needs no locking of its own.
func (e *Ensemble[T]) forEachChain(ctx context.Context, fn func(i int, am *filter.AugmentedMatch[T])) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())

	for i, am := range e.chains {
		i, am := i, am
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i, am)

			return nil
		})
	}

	return g.Wait()
}

// Warmup performs WarmupTimes transit attempts per chain, in parallel,
// with no histogram collection.
func (e *Ensemble[T]) Warmup(ctx context.Context) error {
	return e.forEachChain(ctx, func(_ int, am *filter.AugmentedMatch[T]) {
		am.TransitNTimes(e.state, e.cfg.WarmupTimes)
	})
}

// Evolve runs one annealing step at betaNext: it collects a fresh
// edge-incidence histogram and an estimator ratio from every chain under
// the *current* beta, installs the reweighted histogram as the new W,
// and returns the ratio of successive partition functions (clamped to at
// most 1; see spec §7's degenerate-ratio handling).
func (e *Ensemble[T]) Evolve(ctx context.Context, betaNext float64, recompute bool) (float64, error) {
	h := histogram.New(e.n)
	sWeight := make([]float64, len(e.chains))
	sSum := make([]float64, len(e.chains))
	beta := e.state.Beta

	err := e.forEachChain(ctx, func(i int, am *filter.AugmentedMatch[T]) {
		if recompute {
			am.Recompute(e.state)
		}

		for k := 0; k < e.cfg.NumWeightEstimations; k++ {
			am.TransitNTimes(e.state, e.cfg.WeightSampleInterval)
			edge := am.ChooseWeightedEdge(e.state)
			h.Inc(edge.U, edge.V)
		}

		for k := 0; k < e.cfg.NumEstimatorEstimations; k++ {
			activeCount, ok := am.RejectionSample(e.state, e.cfg.EstimatorSampleInterval)
			if !ok {
				continue
			}
			importance := math.Exp(float64(activeCount) * e.cfg.Penalty)
			sWeight[i] += importance
			sSum[i] += importance * math.Exp((beta-betaNext)*float64(activeCount))
		}
	})
	if err != nil {
		return 0, err
	}

	totalWeight, totalSum := 0.0, 0.0
	for i := range e.chains {
		totalWeight += sWeight[i]
		totalSum += sSum[i]
	}

	e.state.Weight = h.Finish(e.state)

	if totalWeight == 0 {
		return 1, nil
	}
	ratio := totalSum / totalWeight
	if ratio > 1 {
		ratio = 1
	}

	return ratio, nil
}

// StepObserver is called once per cooling step with the new beta, the
// running estimator, and the ratio just multiplied in (spec §6's
// per-step stdout line).
type StepObserver func(beta, estimator, ratio float64)

// CoolingEvolve consumes sched to completion, starting the estimator at
// n! and multiplying in each step's ratio, skipping the schedule's first
// value (beta0=0 is already the ensemble's warmed-up state).
func (e *Ensemble[T]) CoolingEvolve(ctx context.Context, sched *schedule.Schedule, recompute bool, observe StepObserver) (float64, error) {
	estimator := factorial(e.n)

	first := true
	for {
		beta, ok := sched.Next()
		if !ok {
			break
		}
		if first {
			first = false
			continue
		}

		ratio, err := e.Evolve(ctx, beta, recompute)
		if err != nil {
			return estimator, err
		}
		estimator *= ratio
		e.state.Beta = beta
		if observe != nil {
			observe(beta, estimator, ratio)
		}
	}

	return estimator, nil
}

// factorial returns n! as a float64 (matching the reference
// implementation's use of f64 throughout; large n saturates toward
// +Inf exactly as the Rust original does).
func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}

	return result
}
