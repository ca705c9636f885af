// Package permanent estimates the permanent of a 0/1 bipartite
// biadjacency matrix -- the number of perfect matchings of the graph it
// encodes -- via simulated-annealing Markov chain Monte Carlo.
//
// A population of Markov chains starts from a uniform proposal
// distribution over permutation matchings and is annealed, step by
// step, toward the target distribution defined by the graph's own
// adjacency. Each step's ratio of partition functions is estimated from
// importance-weighted samples and telescoped into a running product,
// which converges to the permanent as the schedule completes.
//
// Packages are organized under internal/:
//
//	bipartite/ — the input graph and Match type
//	flow/      — Dinic max-flow, used for the feasibility gate
//	matrix/    — dense float64 and bit-packed boolean n×n containers
//	anneal/    — the shared adjacency/weight/beta annealing state
//	filter/    — the Constant/Additive/Multiplicative acceptance filters
//	histogram/ — the lock-free per-step edge-incidence counter
//	schedule/  — the two-phase additive/multiplicative cooling schedule
//	ensemble/  — the parallel chain population and its evolve loop
//	estimator/ — pipeline orchestration from graph path to final estimate
//	graphio/   — JSON graph decoding and the feasibility gate
//	logx/      — the leveled logger
//
// The CLI entrypoint lives in cmd/permanent.
package permanent
