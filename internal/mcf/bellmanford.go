package mcf

import "math"

// WeightedEdge is a directed edge with a (possibly negative) weight,
// used by BellmanFordLimited for W-FLOW's residual-graph filtering
// (spec.md §4.5) — a different graph from the flow network Solve
// operates on (no capacities, just reachability + shortest weight).
type WeightedEdge struct {
	From, To int
	Weight   float64
}

// BellmanFordLimited computes shortest-path distances from source over
// a graph given as an adjacency list, running at most maxPasses
// relaxation rounds and stopping early once a full pass relaxes
// nothing. spec.md §4.5 specifies exactly this: "Bellman–Ford limited
// to |V|-1 = q + K - 2 passes with early termination when a full pass
// makes no improvement." Negative-weight edges are expected (residual
// "left-going" edges carry -w); spec.md argues any negative cycle
// reachable must lie off the one path of interest, so this does not
// attempt negative-cycle detection — it simply stops after maxPasses.
func BellmanFordLimited(numNodes int, adjacency [][]WeightedEdge, source int, maxPasses int) []float64 {
	dist := make([]float64, numNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0

	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for u := 0; u < numNodes; u++ {
			if math.IsInf(dist[u], 1) {
				continue
			}
			for _, e := range adjacency[u] {
				nd := dist[u] + e.Weight
				if nd < dist[e.To]-1e-12 {
					dist[e.To] = nd
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return dist
}
