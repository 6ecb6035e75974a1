package mcf

import (
	"context"
	"errors"
	"math"
)

// ErrInfeasible is returned when the network cannot carry the requested
// flow from source to sink at all (e.g. a cluster has no admissible arc
// from any unassigned point). W-FLOW treats this as a subtree failure
// (spec.md §4.5).
var ErrInfeasible = errors.New("mcf: required flow infeasible")

// Options holds the "quiet mode" / "network-simplex hint" settings
// spec.md §6 lists for the MCF solver interface. Solve does not take or
// read an Options value: it never logs, and it always runs Successive
// Shortest Path (network simplex is not implemented).
type Options struct {
	Quiet                bool
	PreferNetworkSimplex bool
}

// Result is the outcome of a min-cost-flow solve.
type Result struct {
	Objective float64       // total cost of the flow found
	FlowByArc map[ArcID]int // flow carried on each arc added via AddArc (0 if none)
	Flow      int           // total flow pushed from source to sink
}

// Solve computes the minimum-cost flow of value requiredFlow from the
// network's source to its sink using Successive Shortest Path: repeat
// "find a cheapest augmenting path in the residual graph, push flow
// along it" until requiredFlow units have been routed or no path
// remains. Shortest paths are found with Bellman-Ford (SPFA) so that
// negative-cost residual (reverse) arcs never need a potential
// correction, at the cost of extra iterations versus Dijkstra with
// Johnson potentials — acceptable here because W-FLOW's networks have
// at most N+K nodes.
func Solve(ctx context.Context, n *Network, requiredFlow int) (Result, error) {
	flowed := 0
	cost := 0.0

	for flowed < requiredFlow {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		dist, inEdge, ok := n.shortestPathSPFA()
		if !ok || math.IsInf(dist[n.sink], 1) {
			break
		}

		bottleneck := requiredFlow - flowed
		for v := n.sink; v != n.source; {
			e := inEdge[v]
			residual := n.edges[e].cap - n.edges[e].flow
			if residual < bottleneck {
				bottleneck = residual
			}
			v = n.edges[e^1].to
		}

		for v := n.sink; v != n.source; {
			e := inEdge[v]
			n.edges[e].flow += bottleneck
			n.edges[e^1].flow -= bottleneck
			cost += float64(bottleneck) * n.edges[e].cost
			v = n.edges[e^1].to
		}
		flowed += bottleneck
	}

	flowByArc := make(map[ArcID]int, len(n.arcOf))
	for id, fwd := range n.arcOf {
		flowByArc[ArcID(id)] = n.edges[fwd].flow
	}

	if flowed < requiredFlow {
		return Result{Objective: cost, FlowByArc: flowByArc, Flow: flowed}, ErrInfeasible
	}
	return Result{Objective: cost, FlowByArc: flowByArc, Flow: flowed}, nil
}

// shortestPathSPFA runs a Bellman-Ford/SPFA shortest-path search over
// the residual graph from the network's source, returning per-node
// distance and the residual edge used to reach each node.
func (n *Network) shortestPathSPFA() (dist []float64, inEdge []int, reachedSink bool) {
	dist = make([]float64, n.numNodes)
	inEdge = make([]int, n.numNodes)
	inQueue := make([]bool, n.numNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
		inEdge[i] = -1
	}
	dist[n.source] = 0

	queue := []int{n.source}
	inQueue[n.source] = true
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		inQueue[u] = false

		for _, e := range n.graph[u] {
			edg := n.edges[e]
			if edg.cap-edg.flow <= 0 {
				continue
			}
			nd := dist[u] + edg.cost
			if nd < dist[edg.to]-1e-12 {
				dist[edg.to] = nd
				inEdge[edg.to] = e
				if !inQueue[edg.to] {
					queue = append(queue, edg.to)
					inQueue[edg.to] = true
				}
			}
		}
	}
	return dist, inEdge, !math.IsInf(dist[n.sink], 1)
}
