// Package filter implements the three Metropolis filter families that
// share the chain's swap-move call sites: Constant, Additive, and
// Multiplicative. Each contributes a different per-match attribute and a
// different "ratio_filter" factor to the acceptance probability (spec
// §4.5); the ensemble is monomorphic in the chosen filter (it is a Go
// generic type parameter, not a runtime interface) so the ratio formula
// stays branch-free in the inner loop.
package filter

import (
	"github.com/katalvlaran/permanent/internal/anneal"
	"github.com/katalvlaran/permanent/internal/bipartite"
)

// Proposal names the four weights involved in a 2-edge swap: edges
// (u1,v1) and (u2,v2) would be replaced by (u1,v2) and (u2,v1).
type Proposal struct {
	U1, V1, U2, V2 int
}

// Strategy is implemented by Constant, Additive, and Multiplicative. T is
// the per-match attribute each strategy caches (struct{} / float64 / float64).
type Strategy[T any] interface {
	// InitialAttr computes T from scratch against the current weights.
	InitialAttr(m *bipartite.Match, s *anneal.State) T
	// Ratio returns the filter's contribution to the acceptance
	// probability for proposal p, plus the attribute's new value should
	// the proposal be accepted.
	Ratio(attr T, m *bipartite.Match, p Proposal, s *anneal.State) (float64, T)
}

// Constant is the trivial filter: ratio_filter is always 1, attr is unit.
type Constant struct{}

// InitialAttr returns the unit attribute.
func (Constant) InitialAttr(*bipartite.Match, *anneal.State) struct{} { return struct{}{} }

// Ratio always contributes 1.
func (Constant) Ratio(struct{}, *bipartite.Match, Proposal, *anneal.State) (float64, struct{}) {
	return 1.0, struct{}{}
}

// Additive tracks attr = sum of W over the match's edges.
type Additive struct{}

// InitialAttr sums W over every edge of m.
func (Additive) InitialAttr(m *bipartite.Match, s *anneal.State) float64 {
	return s.WeightOfMatch(m)
}

// Ratio applies the additive update attr' = attr - a - b + c + d and
// contributes (attr'/attr)*((c+d)/(a+b)).
func (Additive) Ratio(attr float64, _ *bipartite.Match, p Proposal, s *anneal.State) (float64, float64) {
	a := s.WeightOfEdge(p.U1, p.V1)
	b := s.WeightOfEdge(p.U2, p.V2)
	c := s.WeightOfEdge(p.U1, p.V2)
	d := s.WeightOfEdge(p.U2, p.V1)
	newAttr := attr - a - b + c + d

	return newAttr / attr * (c + d) / (a + b), newAttr
}

// Multiplicative tracks attr = sum over ordered pairs of match edges of
// the product of their weights.
type Multiplicative struct{}

// InitialAttr requires the full O(n^2) construction: the sum of
// W(e_i)*W(e_j) over every ordered pair of edges in m.
func (Multiplicative) InitialAttr(m *bipartite.Match, s *anneal.State) float64 {
	attr := 0.0
	for _, ei := range m.Edges {
		wi := s.WeightOfEdge(ei.U, ei.V)
		for _, ej := range m.Edges {
			attr += wi * s.WeightOfEdge(ej.U, ej.V)
		}
	}

	return attr
}

// Ratio applies the O(n) incremental update: every other edge of the
// match appears in two ordered pairs with each swapped edge, so its
// weight contributes 2*((c+d)-(a+b)); the pairs formed among the two
// swapped edges themselves change from (a+b)^2 to (c+d)^2.
func (Multiplicative) Ratio(attr float64, m *bipartite.Match, p Proposal, s *anneal.State) (float64, float64) {
	a := s.WeightOfEdge(p.U1, p.V1)
	b := s.WeightOfEdge(p.U2, p.V2)
	c := s.WeightOfEdge(p.U1, p.V2)
	d := s.WeightOfEdge(p.U2, p.V1)

	newAttr := attr
	for _, e := range m.Edges {
		if (e.U == p.U1 && e.V == p.V1) || (e.U == p.U2 && e.V == p.V2) {
			continue
		}
		w := s.WeightOfEdge(e.U, e.V)
		newAttr += 2 * w * (-(a + b) + (c + d))
	}
	newAttr += (c+d)*(c+d) - (a+b)*(a+b)

	return newAttr / attr * (c * d) / (a * b), newAttr
}
