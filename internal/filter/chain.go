package filter

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/permanent/internal/anneal"
	"github.com/katalvlaran/permanent/internal/bipartite"
)

// AugmentedMatch is one chain's state: a Match plus the three caches that
// must stay exactly consistent with it on every accepted move (attr,
// weight, active count). Each chain owns a private RNG so that, with
// seeds derived from a single master seed, parallel dispatch stays
// reproducible regardless of which goroutine runs which chain (see
// internal/ensemble's seed derivation).
type AugmentedMatch[T any] struct {
	Matching    *bipartite.Match
	Attr        T
	Weight      float64
	ActiveCount int

	strategy Strategy[T]
	rng      *rand.Rand
}

// NewAugmentedMatch builds the augmented state for an initial match
// against the current global state.
func NewAugmentedMatch[T any](strategy Strategy[T], m *bipartite.Match, s *anneal.State, rng *rand.Rand) *AugmentedMatch[T] {
	return &AugmentedMatch[T]{
		Matching:    m,
		Attr:        strategy.InitialAttr(m, s),
		Weight:      s.WeightOfMatch(m),
		ActiveCount: s.ActiveCountOfMatch(m),
		strategy:    strategy,
		rng:         rng,
	}
}

// Recompute rebuilds all three caches from scratch against the current
// global state. Used when a large weight update makes the incrementally
// maintained caches worth re-deriving exactly (the recompute flag of
// Evolve, spec §4.8).
func (am *AugmentedMatch[T]) Recompute(s *anneal.State) {
	am.Attr = am.strategy.InitialAttr(am.Matching, s)
	am.Weight = s.WeightOfMatch(am.Matching)
	am.ActiveCount = s.ActiveCountOfMatch(am.Matching)
}

// choosePair picks two distinct indices within the match uniformly at random.
func (am *AugmentedMatch[T]) choosePair() (int, int) {
	n := len(am.Matching.Edges)
	i := am.rng.Intn(n)
	j := am.rng.Intn(n - 1)
	if j >= i {
		j++
	}

	return i, j
}

// ChooseWeightedEdge samples one edge of the match with probability
// proportional to its current weight, used to vote in the histogram.
func (am *AugmentedMatch[T]) ChooseWeightedEdge(s *anneal.State) bipartite.Edge {
	total := 0.0
	for _, e := range am.Matching.Edges {
		total += s.WeightOfEdge(e.U, e.V)
	}
	target := am.rng.Float64() * total
	acc := 0.0
	for _, e := range am.Matching.Edges {
		acc += s.WeightOfEdge(e.U, e.V)
		if acc >= target {
			return e
		}
	}

	return am.Matching.Edges[len(am.Matching.Edges)-1]
}

// acceptance computes the full Metropolis-Hastings acceptance probability
// (spec §4.5) for swapping positions i,j, along with the filter's updated
// attribute and the proposal it evaluated.
func (am *AugmentedMatch[T]) acceptance(i, j int, s *anneal.State) (float64, T, Proposal) {
	e1, e2 := am.Matching.Edges[i], am.Matching.Edges[j]
	p := Proposal{U1: e1.U, V1: e1.V, U2: e2.U, V2: e2.V}

	ratio, newAttr := am.strategy.Ratio(am.Attr, am.Matching, p, s)

	nextWeight := am.Weight -
		s.WeightOfEdge(p.U1, p.V1) - s.WeightOfEdge(p.U2, p.V2) +
		s.WeightOfEdge(p.U1, p.V2) + s.WeightOfEdge(p.U2, p.V1)
	nextActive := am.ActiveCount -
		s.ActivityOfEdge(p.U1, p.V1) - s.ActivityOfEdge(p.U2, p.V2) +
		s.ActivityOfEdge(p.U1, p.V2) + s.ActivityOfEdge(p.U2, p.V1)

	weightRatio := nextWeight / am.Weight
	activeRatio := math.Exp(s.Beta * float64(nextActive-am.ActiveCount))

	probability := ratio * weightRatio * activeRatio
	if probability > 1.0 {
		probability = 1.0
	}

	return probability, newAttr, p
}

// Transit attempts one swap move at positions i,j and applies it if
// accepted, updating all three caches in lockstep with the match.
func (am *AugmentedMatch[T]) Transit(i, j int, s *anneal.State) bool {
	probability, newAttr, p := am.acceptance(i, j, s)
	if am.rng.Float64() >= probability {
		return false
	}

	am.Matching.Edges[i] = bipartite.Edge{U: p.U1, V: p.V2}
	am.Matching.Edges[j] = bipartite.Edge{U: p.U2, V: p.V1}
	am.Attr = newAttr
	am.Weight = am.Weight -
		s.WeightOfEdge(p.U1, p.V1) - s.WeightOfEdge(p.U2, p.V2) +
		s.WeightOfEdge(p.U1, p.V2) + s.WeightOfEdge(p.U2, p.V1)
	am.ActiveCount = am.ActiveCount -
		s.ActivityOfEdge(p.U1, p.V1) - s.ActivityOfEdge(p.U2, p.V2) +
		s.ActivityOfEdge(p.U1, p.V2) + s.ActivityOfEdge(p.U2, p.V1)

	return true
}

// TransitNTimes performs n independent Transit attempts, each on a fresh
// uniformly chosen pair of positions.
func (am *AugmentedMatch[T]) TransitNTimes(s *anneal.State, n int) {
	for k := 0; k < n; k++ {
		i, j := am.choosePair()
		am.Transit(i, j, s)
	}
}

// RejectionSample implements the estimator sub-phase's sampling
// primitive (spec §4.6, §9 Open Questions): after `interval` ordinary
// transitions, it draws one further candidate swap and admits the
// current active count as a sample iff that candidate's own Metropolis
// acceptance probability clears an independent uniform threshold. The
// candidate move itself is never applied, regardless of outcome -- this
// step only decides whether to *admit* a decorrelated active-count
// sample, leaving the chain's stationary distribution untouched.
func (am *AugmentedMatch[T]) RejectionSample(s *anneal.State, interval int) (int, bool) {
	am.TransitNTimes(s, interval)

	i, j := am.choosePair()
	probability, _, _ := am.acceptance(i, j, s)
	if am.rng.Float64() >= probability {
		return 0, false
	}

	return am.ActiveCount, true
}
