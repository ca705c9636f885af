// Package histogram implements the lock-free n×n edge-incidence counter
// each annealing step accumulates into, and the importance-reweighting
// transform that folds it into the next weight matrix.
package histogram

import (
	"sync/atomic"

	"github.com/katalvlaran/permanent/internal/anneal"
	"github.com/katalvlaran/permanent/internal/matrix"
)

// Cap bounds the reciprocal-weight transform so that downstream products
// across many chains cannot overflow float64. It is large enough to never
// bind for realistic weight distributions but finite so that a
// pathologically under-visited cell cannot poison the estimator.
const Cap = 1e12

// Histogram is an n×n counter, incremented concurrently by every chain
// within one annealing step under relaxed ordering. It is created fresh
// per step and consumed exactly once by Finish.
type Histogram struct {
	n    int
	data []atomic.Uint64
}

// New allocates a zeroed n×n histogram.
func New(n int) *Histogram {
	return &Histogram{n: n, data: make([]atomic.Uint64, n*n)}
}

// Inc increments the counter at (u, v). Safe to call concurrently from
// any number of goroutines; increments commute, so no cross-goroutine
// ordering is observable in the result.
func (h *Histogram) Inc(u, v int) {
	h.data[u*h.n+v].Add(1)
}

// Finish folds the histogram into a new weight matrix:
//  1. raw counts are floored at 1 (so that an unvisited cell still gets a
//     finite importance weight rather than dividing by zero downstream);
//  2. each count is divided by the current weight at that cell
//     (importance reweighting, recovering target-distribution frequency
//     from a proposal-weighted visit count);
//  3. rows are summed to S and each row scaled by n/S to normalize;
//  4. finally each cell is transformed by x -> min(1/x, Cap).
//
// Callers must only invoke Finish after every writer goroutine of the
// step has joined (the errgroup.Wait barrier in internal/ensemble); that
// join is the fence establishing happens-before with every relaxed Inc.
func (h *Histogram) Finish(state *anneal.State) *matrix.Dense {
	out := matrix.NewDense(h.n, 0)
	sum := 0.0
	for i := 0; i < h.n; i++ {
		for j := 0; j < h.n; j++ {
			raw := h.data[i*h.n+j].Load()
			if raw < 1 {
				raw = 1
			}
			value := float64(raw) / state.WeightOfEdge(i, j)
			out.Set(i, j, value)
			sum += value
		}
	}

	scale := float64(h.n) / sum
	out.Transform(func(x float64) float64 {
		reciprocal := 1.0 / (x * scale)
		if reciprocal > Cap {
			return Cap
		}

		return reciprocal
	})

	return out
}
