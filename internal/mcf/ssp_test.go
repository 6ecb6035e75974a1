package mcf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSolveMatchesBruteForceAssignment cross-checks Solve on a small
// transportation instance (2 sources, 2 sinks, unit capacities) against
// the brute-force optimal assignment.
func TestSolveMatchesBruteForceAssignment(t *testing.T) {
	// nodes: 0=source, 1,2=left (u0,u1), 3,4=right (c0,c1), 5=sink
	costs := [2][2]float64{
		{1, 4},
		{3, 2},
	}

	net := NewNetwork(6, 0, 5)
	net.AddArc(0, 1, 1, 0)
	net.AddArc(0, 2, 1, 0)
	arc00 := net.AddArc(1, 3, 1, costs[0][0])
	arc01 := net.AddArc(1, 4, 1, costs[0][1])
	arc10 := net.AddArc(2, 3, 1, costs[1][0])
	arc11 := net.AddArc(2, 4, 1, costs[1][1])
	net.AddArc(3, 5, 1, 0)
	net.AddArc(4, 5, 1, 0)

	result, err := Solve(context.Background(), net, 2)
	require.NoError(t, err)

	// brute force: either (u0->c0,u1->c1)=1+2=3 or (u0->c1,u1->c0)=4+3=7
	require.InDelta(t, 3.0, result.Objective, 1e-9)
	require.Equal(t, 2, result.Flow)

	require.Equal(t, 1, result.FlowByArc[arc00])
	require.Equal(t, 0, result.FlowByArc[arc01])
	require.Equal(t, 0, result.FlowByArc[arc10])
	require.Equal(t, 1, result.FlowByArc[arc11])
}

func TestSolveReportsInfeasibleWhenUnderCapacity(t *testing.T) {
	net := NewNetwork(4, 0, 3)
	net.AddArc(0, 1, 1, 0)
	net.AddArc(1, 2, 1, 1)
	net.AddArc(2, 3, 1, 0)

	_, err := Solve(context.Background(), net, 2)
	require.ErrorIs(t, err, ErrInfeasible)
}

func TestBellmanFordLimitedFindsShortestPath(t *testing.T) {
	edges := [][]WeightedEdge{
		0: {{From: 0, To: 1, Weight: 1}, {From: 0, To: 2, Weight: 5}},
		1: {{From: 1, To: 2, Weight: 1}},
		2: {},
	}
	dist := BellmanFordLimited(3, edges, 0, 2)
	require.InDelta(t, 0.0, dist[0], 1e-12)
	require.InDelta(t, 1.0, dist[1], 1e-12)
	require.InDelta(t, 2.0, dist[2], 1e-12)
}
