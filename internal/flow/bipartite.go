package flow

import "github.com/katalvlaran/permanent/internal/bipartite"

// FindPerfectMatching runs Dinic once over the unit-capacity network
// s -> left vertices -> right vertices -> t built from g, and returns the
// resulting Match together with the max-flow value (== Match.Size() when
// a perfect matching exists).
//
// Network layout: node ids [0,n) are left copies, [n,2n) are right
// copies, 2n is the source, 2n+1 is the sink.
func FindPerfectMatching(g *bipartite.Graph) (*bipartite.Match, int) {
	n := g.Size
	source, sink := 2*n, 2*n+1
	network := New(2*n+2, source, sink)

	for i := 0; i < n; i++ {
		// AddEdge never returns an error for non-negative literal capacities.
		_, _ = network.AddEdge(source, i, 1)
		_, _ = network.AddEdge(n+i, sink, 1)
	}
	for u := 0; u < n; u++ {
		for _, v := range g.Edges(u) {
			_, _ = network.AddEdge(u, n+v, 1)
		}
	}

	flow := network.MaxFlow()

	edges := make([]bipartite.Edge, 0, flow)
	network.ForwardFlows(func(from, to, f int) {
		if from < n {
			edges = append(edges, bipartite.Edge{U: from, V: to - n})
		}
	})

	return &bipartite.Match{Edges: edges}, flow
}
