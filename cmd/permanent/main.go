// Command permanent estimates the permanent of a 0/1 bipartite
// biadjacency matrix via simulated-annealing Markov chain Monte Carlo
// (spec §6: CLI surface and exit-code contract).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/permanent/internal/ensemble"
	"github.com/katalvlaran/permanent/internal/estimator"
	"github.com/katalvlaran/permanent/internal/graphio"
	"github.com/katalvlaran/permanent/internal/logx"
	"github.com/katalvlaran/permanent/internal/matrix"
)

var (
	graphPath     string
	numChains     int
	warmupTimes   int
	weightSampleN int
	estSampleN    int
	numWeightEst  int
	numEstimEst   int
	numThreads    int
	additiveSlow  int
	multSlow      int
	filterName    string
	recompute     bool
	penalty       float64
	masterSeed    int64
	gcPercent     int
)

var rootCmd = &cobra.Command{
	Use:   "permanent",
	Short: "Estimate the permanent of a bipartite graph's biadjacency matrix",
	Long: `permanent estimates the number of perfect matchings (the matrix
permanent) of a bipartite graph by annealing a population of Markov
chains from a uniform proposal distribution toward the target
distribution, and telescoping the ratio of partition functions across
a two-phase additive/multiplicative cooling schedule.`,
	RunE: runEstimate,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&graphPath, "graph-path", "g", "", "path to the input graph JSON document (required)")
	flags.IntVarP(&numChains, "num-of-chains", "n", ensemble.DefaultConfig().NumChains, "number of parallel Markov chains")
	flags.IntVarP(&warmupTimes, "warmup-times", "w", ensemble.DefaultConfig().WarmupTimes, "transit attempts per chain before sampling begins")
	flags.IntVarP(&weightSampleN, "weight-sample-intervals", "W", ensemble.DefaultConfig().WeightSampleInterval, "transit attempts between weight-histogram samples")
	flags.IntVarP(&estSampleN, "estimator-sample-intervals", "e", ensemble.DefaultConfig().EstimatorSampleInterval, "transit attempts between estimator samples")
	flags.IntVarP(&numWeightEst, "num-of-weight-estimations", "q", ensemble.DefaultConfig().NumWeightEstimations, "weight samples collected per chain per step")
	flags.IntVarP(&numEstimEst, "num-of-estimator-estimations", "p", ensemble.DefaultConfig().NumEstimatorEstimations, "estimator samples attempted per chain per step")
	flags.IntVarP(&numThreads, "num-of-threads", "t", 0, "worker cap for chain dispatch (0 = GOMAXPROCS)")
	flags.IntVar(&additiveSlow, "additive-slow-down", 1, "additive-phase ratio r_a")
	flags.IntVar(&multSlow, "mutiplicative-slow-down", 1, "multiplicative-phase ratio r_m")
	flags.StringVarP(&filterName, "filter", "f", string(estimator.KindAdditive), "filter strategy: constant, additive, or multiplicative")
	flags.BoolVar(&recompute, "recompute", false, "recompute each chain's cached attribute from scratch every step")
	flags.Float64Var(&penalty, "penalty", 0, "importance-weight penalty exponent")
	flags.Int64Var(&masterSeed, "seed", ensemble.DefaultConfig().MasterSeed, "master RNG seed")
	flags.IntVar(&gcPercent, "gc-percent", -1, "GOGC target percentage for the run (-1 = runtime default, unchanged)")

	_ = rootCmd.MarkFlagRequired("graph-path")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	logger := logx.Default()
	out := cmd.OutOrStdout()

	if gcPercent >= 0 {
		debug.SetGCPercent(gcPercent)
	}

	cfg := estimator.Config{
		GraphPath:           graphPath,
		Filter:              estimator.Kind(filterName),
		AdditiveRatio:       additiveSlow,
		MultiplicativeRatio: multSlow,
		Recompute:           recompute,
		Logger:              logger,
		Ensemble: ensemble.Config{
			NumChains:               numChains,
			WarmupTimes:             warmupTimes,
			WeightSampleInterval:    weightSampleN,
			EstimatorSampleInterval: estSampleN,
			NumWeightEstimations:    numWeightEst,
			NumEstimatorEstimations: numEstimEst,
			Workers:                 numThreads,
			Penalty:                 penalty,
			MasterSeed:              masterSeed,
		},
		Observe: func(beta, value, ratio float64) {
			fmt.Fprintf(out, "beta=%.6f estimator=%.6g ratio=%.6f\n", beta, value, ratio)
		},
	}

	result, err := estimator.Run(cmd.Context(), cfg)
	if err != nil {
		if err == graphio.ErrInfeasible {
			return fmt.Errorf("graph admits no perfect matching: %w", err)
		}

		return err
	}

	fmt.Fprintf(out, "permanent estimate: %.6g\n", result.Estimator)
	printReciprocalWeights(out, result.ReciprocalWeights)

	return nil
}

// printReciprocalWeights prints 1/W row by row (spec §6): the final
// learned weight matrix still carries the annealing's own reciprocal
// convention, so the CLI inverts it once more at print time, exactly as
// the reference implementation's `1.0 / state.global_state.weight.get(i, j)`
// does.
func printReciprocalWeights(out io.Writer, w *matrix.Dense) {
	n := w.Dimension()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprintf(out, "%.2f", 1.0/w.Get(i, j))
		}
		fmt.Fprintln(out)
	}
}

func main() {
	ctx := context.Background()
	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
