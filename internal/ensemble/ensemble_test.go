package ensemble_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/permanent/internal/bipartite"
	"github.com/katalvlaran/permanent/internal/ensemble"
	"github.com/katalvlaran/permanent/internal/filter"
	"github.com/katalvlaran/permanent/internal/schedule"
)

type EnsembleSuite struct {
	suite.Suite
}

// completeK3 is small enough to run every chain/step combination quickly
// while still exercising a non-trivial permanent (K3,3 has permanent 6).
func (s *EnsembleSuite) completeK3() *bipartite.Graph {
	g, err := bipartite.New(3, [][]int{{0, 1, 2}, {0, 1, 2}, {0, 1, 2}})
	require.NoError(s.T(), err)

	return g
}

func (s *EnsembleSuite) smallConfig() ensemble.Config {
	cfg := ensemble.DefaultConfig()
	cfg.NumChains = 4
	cfg.WarmupTimes = 8
	cfg.WeightSampleInterval = 2
	cfg.EstimatorSampleInterval = 2
	cfg.NumWeightEstimations = 4
	cfg.NumEstimatorEstimations = 4
	cfg.Workers = 2

	return cfg
}

func (s *EnsembleSuite) TestWarmupDoesNotError() {
	e := ensemble.New[struct{}](filter.Constant{}, s.completeK3(), s.smallConfig())
	require.NoError(s.T(), e.Warmup(context.Background()))
}

func (s *EnsembleSuite) TestEvolveProducesBoundedRatio() {
	e := ensemble.New[struct{}](filter.Constant{}, s.completeK3(), s.smallConfig())
	require.NoError(s.T(), e.Warmup(context.Background()))

	ratio, err := e.Evolve(context.Background(), 0.1, false)
	require.NoError(s.T(), err)
	require.LessOrEqual(s.T(), ratio, 1.0)
	require.GreaterOrEqual(s.T(), ratio, 0.0)
}

func (s *EnsembleSuite) TestCoolingEvolveRunsToCompletionAndStaysPositive() {
	e := ensemble.New[float64](filter.Additive{}, s.completeK3(), s.smallConfig())
	require.NoError(s.T(), e.Warmup(context.Background()))

	sched, err := schedule.New(schedule.Config{N: 3, AdditiveRatio: 1, MultiplicativeRatio: 1})
	require.NoError(s.T(), err)

	steps := 0
	value, err := e.CoolingEvolve(context.Background(), sched, false, func(beta, estimator, ratio float64) {
		steps++
	})
	require.NoError(s.T(), err)
	require.Greater(s.T(), value, 0.0)
	require.Greater(s.T(), steps, 0)
}

func TestEnsembleSuite(t *testing.T) {
	suite.Run(t, new(EnsembleSuite))
}
