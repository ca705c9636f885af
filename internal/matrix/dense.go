// Package matrix provides the two fixed-size n×n containers the
// annealing core is built on: a row-major float64 Dense matrix (edge
// weights) and a bit-packed Bit matrix (the 0/1 adjacency). Neither
// resizes after construction.
package matrix

import "golang.org/x/sync/errgroup"

// Dense is a row-major n×n matrix of float64 weights.
type Dense struct {
	n    int
	data []float64
}

// NewDense allocates an n×n Dense matrix with every entry set to initial.
func NewDense(n int, initial float64) *Dense {
	data := make([]float64, n*n)
	if initial != 0 {
		for i := range data {
			data[i] = initial
		}
	}

	return &Dense{n: n, data: data}
}

// Dimension returns n.
func (m *Dense) Dimension() int { return m.n }

// Get returns the value at (u, v).
func (m *Dense) Get(u, v int) float64 { return m.data[u*m.n+v] }

// Set stores value at (u, v).
func (m *Dense) Set(u, v int, value float64) { m.data[u*m.n+v] = value }

// Add accumulates value into (u, v).
func (m *Dense) Add(u, v int, value float64) { m.data[u*m.n+v] += value }

// Transform applies f to every entry, in parallel over disjoint row
// ranges: each worker owns a contiguous block of rows, so there is no
// cross-worker synchronization beyond the final join.
func (m *Dense) Transform(f func(float64) float64) {
	m.parRows(func(row []float64) {
		for i, x := range row {
			row[i] = f(x)
		}
	})
}

// Scale multiplies every entry by factor, uniformly, in parallel.
func (m *Dense) Scale(factor float64) {
	m.Transform(func(x float64) float64 { return x * factor })
}

// parRows splits the backing array into disjoint row chunks (one per
// available CPU, capped at the row count) and runs f over each chunk
// concurrently, joining before returning. Fan-out uses the same bounded
// errgroup worker pool as internal/ensemble's per-chain dispatch (see
// forEachChain there), rather than a hand-rolled WaitGroup, so that this
// package's one instance of "bounded parallel work over independent
// units" follows the same pack precedent as the other one.
func (m *Dense) parRows(f func(row []float64)) {
	workers := rowWorkers(m.n)
	if workers <= 1 {
		f(m.data)
		return
	}

	rowsPerWorker := (m.n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < m.n; start += rowsPerWorker {
		end := start + rowsPerWorker
		if end > m.n {
			end = m.n
		}
		chunk := m.data[start*m.n : end*m.n]
		g.Go(func() error {
			f(chunk)
			return nil
		})
	}
	_ = g.Wait()
}
