package filter_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/permanent/internal/anneal"
	"github.com/katalvlaran/permanent/internal/bipartite"
	"github.com/katalvlaran/permanent/internal/filter"
)

type FilterSuite struct {
	suite.Suite
}

func (s *FilterSuite) state() *anneal.State {
	g, err := bipartite.New(3, [][]int{{0, 1, 2}, {0, 1, 2}, {0, 1, 2}})
	require.NoError(s.T(), err)
	st := anneal.New(g)
	st.Weight.Set(0, 0, 2)
	st.Weight.Set(1, 1, 3)
	st.Weight.Set(2, 2, 5)
	st.Weight.Set(0, 1, 7)
	st.Weight.Set(1, 0, 11)

	return st
}

func (s *FilterSuite) identity() *bipartite.Match {
	return &bipartite.Match{Edges: []bipartite.Edge{{U: 0, V: 0}, {U: 1, V: 1}, {U: 2, V: 2}}}
}

func (s *FilterSuite) TestConstantAlwaysOne() {
	st := s.state()
	m := s.identity()
	ratio, _ := filter.Constant{}.Ratio(struct{}{}, m, filter.Proposal{U1: 0, V1: 0, U2: 1, V2: 1}, st)
	require.Equal(s.T(), 1.0, ratio)
}

func (s *FilterSuite) TestAdditiveInitialAttrIsWeightSum() {
	st := s.state()
	m := s.identity()
	attr := filter.Additive{}.InitialAttr(m, st)
	require.Equal(s.T(), 2.0+3.0+5.0, attr)
}

func (s *FilterSuite) TestAdditiveRatioMatchesClosedForm() {
	st := s.state()
	m := s.identity()
	attr := filter.Additive{}.InitialAttr(m, st)
	p := filter.Proposal{U1: 0, V1: 0, U2: 1, V2: 1}
	ratio, newAttr := filter.Additive{}.Ratio(attr, m, p, st)

	a, b, c, d := st.WeightOfEdge(0, 0), st.WeightOfEdge(1, 1), st.WeightOfEdge(0, 1), st.WeightOfEdge(1, 0)
	wantAttr := attr - a - b + c + d
	wantRatio := wantAttr / attr * (c + d) / (a + b)

	require.InDelta(s.T(), wantAttr, newAttr, 1e-9)
	require.InDelta(s.T(), wantRatio, ratio, 1e-9)
}

func (s *FilterSuite) TestMultiplicativeInitialAttrIsPairwiseProductSum() {
	st := s.state()
	m := s.identity()
	attr := filter.Multiplicative{}.InitialAttr(m, st)
	// sum over ordered pairs (i,j), including i==j.
	want := 0.0
	for _, ei := range m.Edges {
		for _, ej := range m.Edges {
			want += st.WeightOfEdge(ei.U, ei.V) * st.WeightOfEdge(ej.U, ej.V)
		}
	}
	require.InDelta(s.T(), want, attr, 1e-9)
}

func (s *FilterSuite) TestAugmentedMatchTransitPreservesCachesConsistency() {
	st := s.state()
	rng := deterministicRNG()
	am := filter.NewAugmentedMatch[struct{}](filter.Constant{}, s.identity(), st, rng)

	am.TransitNTimes(st, 50)

	require.InDelta(s.T(), st.WeightOfMatch(am.Matching), am.Weight, 1e-6)
	require.Equal(s.T(), st.ActiveCountOfMatch(am.Matching), am.ActiveCount)
}

func (s *FilterSuite) TestRejectionSampleNeverMutatesMatchSize() {
	st := s.state()
	rng := deterministicRNG()
	am := filter.NewAugmentedMatch[struct{}](filter.Constant{}, s.identity(), st, rng)

	before := am.Matching.Size()
	_, _ = am.RejectionSample(st, 4)
	require.Equal(s.T(), before, am.Matching.Size())
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterSuite))
}
