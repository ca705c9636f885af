// Package anneal owns the three pieces of state shared read-only by every
// chain during one annealing step: the immutable 0/1 adjacency, the
// mutable learned edge-weight matrix, and the current inverse temperature
// beta. Between steps, the ensemble driver has exclusive access to
// install a new weight matrix and beta; within a step, all chains read
// freely with no locking (see internal/histogram for the write side).
package anneal

import (
	"github.com/katalvlaran/permanent/internal/bipartite"
	"github.com/katalvlaran/permanent/internal/matrix"
)

// State is the global annealing context: adjacency A (immutable), weight
// W (replaced wholesale once per step), and beta (updated once per step).
type State struct {
	adjacency *matrix.Bit
	Weight    *matrix.Dense
	Beta      float64
}

// New builds a State from a bipartite graph: A is derived from the
// adjacency list, and W is initialized to the constant n on every entry
// (per spec §3, so that the initial stationary distribution is uniform).
func New(g *bipartite.Graph) *State {
	n := g.Size
	adjacency := matrix.NewBit(n)
	for u := 0; u < n; u++ {
		for _, v := range g.Edges(u) {
			adjacency.Set(u, v, true)
		}
	}

	return &State{
		adjacency: adjacency,
		Weight:    matrix.NewDense(n, float64(n)),
		Beta:      0,
	}
}

// ActivityOfEdge returns 1 if (u, v) belongs to the input graph, 0 otherwise.
func (s *State) ActivityOfEdge(u, v int) int {
	if s.adjacency.Get(u, v) {
		return 1
	}

	return 0
}

// ActiveCountOfMatch counts how many edges of m are present in the input
// graph.
func (s *State) ActiveCountOfMatch(m *bipartite.Match) int {
	count := 0
	for _, e := range m.Edges {
		if s.adjacency.Get(e.U, e.V) {
			count++
		}
	}

	return count
}

// WeightOfEdge returns W[u][v].
func (s *State) WeightOfEdge(u, v int) float64 { return s.Weight.Get(u, v) }

// WeightOfMatch sums W over every edge of m.
func (s *State) WeightOfMatch(m *bipartite.Match) float64 {
	sum := 0.0
	for _, e := range m.Edges {
		sum += s.Weight.Get(e.U, e.V)
	}

	return sum
}
