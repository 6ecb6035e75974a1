package mssc

import (
	"testing"

	"github.com/clusterkit/cardmssc/internal/cpengine"
	"github.com/stretchr/testify/require"
)

func cardInstance() *Instance {
	return &Instance{
		N: 4, K: 2,
		D: [][]float64{
			{0, 1, 9, 9},
			{1, 0, 9, 9},
			{9, 9, 0, 1},
			{9, 9, 1, 0},
		},
		Target: []int{2, 2},
	}
}

func TestNewWCardRequiresTarget(t *testing.T) {
	inst := squareInstance() // no Target set
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	_, err := NewWCard(store, inst, vars)
	require.ErrorIs(t, err, ErrTargetRequired)
}

// TestWCardBindsFirstPointWhenFullyUnassigned is spec.md §4.4's
// "special case": on an entry with nothing fixed, bind x0=0 to
// cooperate with value-precedence symmetry breaking.
func TestWCardBindsFirstPointWhenFullyUnassigned(t *testing.T) {
	inst := cardInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	w, err := NewWCard(store, inst, vars)
	require.NoError(t, err)

	_, err = w.Propagate(store)
	require.NoError(t, err)
	require.True(t, vars[0].IsFixed())
	require.Equal(t, 0, vars[0].Value())
}

// TestWCardSaturatesFullCluster: once a cluster's target is met, every
// remaining unassigned point must lose that cluster value, per spec.md
// §4.4's preliminary domain-tightening loop.
func TestWCardSaturatesFullCluster(t *testing.T) {
	inst := cardInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	require.NoError(t, vars[0].Fix(0))
	require.NoError(t, vars[1].Fix(0))

	w, err := NewWCard(store, inst, vars)
	require.NoError(t, err)
	_, err = w.Propagate(store)
	require.NoError(t, err)

	require.False(t, vars[2].Has(0))
	require.False(t, vars[3].Has(0))
	require.True(t, vars[2].IsFixed())
	require.Equal(t, 1, vars[2].Value())
	require.True(t, vars[3].IsFixed())
	require.Equal(t, 1, vars[3].Value())
}

// TestWCardOverfullClusterFails: more points bound to a cluster than
// its target allows must raise ErrFail.
func TestWCardOverfullClusterFails(t *testing.T) {
	inst := cardInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	require.NoError(t, vars[0].Fix(0))
	require.NoError(t, vars[1].Fix(0))
	require.NoError(t, vars[2].Fix(0))

	w, err := NewWCard(store, inst, vars)
	require.NoError(t, err)
	_, err = w.Propagate(store)
	require.ErrorIs(t, err, cpengine.ErrFail)
}

// TestWCardTightensObjectiveOnPartialAssignment checks the no-DP-needed
// global bound (Σ_c lb_sched[c][0]) is computed and tightens V.
func TestWCardTightensObjectiveOnPartialAssignment(t *testing.T) {
	inst := cardInstance()
	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}
	require.NoError(t, vars[0].Fix(0))

	w, err := NewWCard(store, inst, vars)
	require.NoError(t, err)
	_, err = w.Propagate(store)
	require.NoError(t, err)

	require.Greater(t, store.Objective().Min(), 0.0)
}
