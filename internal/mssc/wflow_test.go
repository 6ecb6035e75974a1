package mssc

import (
	"testing"

	"github.com/clusterkit/cardmssc/internal/cpengine"
	"github.com/stretchr/testify/require"
)

func TestNewWFlowRequiresTarget(t *testing.T) {
	inst := squareInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	_, err := NewWFlow(store, inst, vars)
	require.ErrorIs(t, err, ErrTargetRequired)
}

// TestWFlowBindsFirstPointWhenFullyUnassigned mirrors W-CARD's special
// case (spec.md §4.5: "preliminary steps identical to W-CARD").
func TestWFlowBindsFirstPointWhenFullyUnassigned(t *testing.T) {
	inst := cardInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	w, err := NewWFlow(store, inst, vars)
	require.NoError(t, err)

	_, err = w.Propagate(store)
	require.NoError(t, err)
	require.True(t, vars[0].IsFixed())
	require.Equal(t, 0, vars[0].Value())
}

// TestWFlowTightensObjectiveOnPartialAssignment solves a small
// transportation problem via internal/mcf and checks the resulting
// bound is strictly positive and doesn't error.
func TestWFlowTightensObjectiveOnPartialAssignment(t *testing.T) {
	inst := cardInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	require.NoError(t, vars[0].Fix(0))

	w, err := NewWFlow(store, inst, vars)
	require.NoError(t, err)
	_, err = w.Propagate(store)
	require.NoError(t, err)

	require.Greater(t, store.Objective().Min(), 0.0)
}

// TestWFlowIncrementalityReusesPreviousSolve is spec.md §8 seed test 6:
// once the MCF has been solved and nothing relevant has changed (no
// variable newly fixed, destination still valid), needsMCFResolve must
// report false so the cached lb_global is reused instead of re-solving.
// Needs K>=3 so a domain can lose one value and remain unfixed,
// isolating "a value was removed" from "a variable became fixed".
func TestWFlowIncrementalityReusesPreviousSolve(t *testing.T) {
	inst := &Instance{
		N: 6, K: 3,
		D: [][]float64{
			{0, 1, 8, 8, 8, 8},
			{1, 0, 8, 8, 8, 8},
			{8, 8, 0, 1, 8, 8},
			{8, 8, 1, 0, 8, 8},
			{8, 8, 8, 8, 0, 1},
			{8, 8, 8, 8, 1, 0},
		},
		Target: []int{2, 2, 2},
	}
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	require.NoError(t, vars[0].Fix(0))

	w, err := NewWFlow(store, inst, vars)
	require.NoError(t, err)

	require.True(t, w.needsMCFResolve(), "first propagate must always resolve")
	_, err = w.Propagate(store)
	require.NoError(t, err)

	require.False(t, w.needsMCFResolve(), "nothing changed since the last solve")

	// Remove a non-destination value from an unassigned variable whose
	// domain still has another value left afterwards: it stays unfixed
	// and its cached destination is still in-domain, so no resolve
	// should be triggered.
	dest := w.destination.Get()
	touched := -1
	for _, u := range w.part.U {
		for c := 0; c < inst.K; c++ {
			if c != dest[u] && vars[u].Has(c) && vars[u].Count() > 2 {
				require.NoError(t, vars[u].RemoveValue(c))
				touched = u
				break
			}
		}
		if touched != -1 {
			break
		}
	}
	require.NotEqual(t, -1, touched, "expected a candidate variable with a prunable non-destination value")
	require.False(t, w.needsMCFResolve())
}

// TestWFlowOverfullClusterFails mirrors W-CARD's saturation guard.
func TestWFlowOverfullClusterFails(t *testing.T) {
	inst := cardInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	require.NoError(t, vars[0].Fix(0))
	require.NoError(t, vars[1].Fix(0))
	require.NoError(t, vars[2].Fix(0))

	w, err := NewWFlow(store, inst, vars)
	require.NoError(t, err)
	_, err = w.Propagate(store)
	require.ErrorIs(t, err, cpengine.ErrFail)
}
