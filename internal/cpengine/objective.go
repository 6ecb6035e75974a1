package cpengine

import "math"

// ObjectiveVar is the continuous objective variable V of spec.md §3: a
// reversible lower bound (tightened by propagation, undone on
// backtrack) paired with a global, monotonically non-increasing upper
// bound (the best incumbent found so far, which must survive
// backtracking — spec.md is explicit that "the incumbent V provides the
// upper bound for subsequent cost-based filtering" across the whole
// remaining search, not just the subtree it was found in).
type ObjectiveVar struct {
	store *Store
	min   float64 // reversible: this node's propagated lower bound
	max   float64 // global: best incumbent WCSS found so far (or +Inf)
}

// Min returns the current (reversible) lower bound.
func (o *ObjectiveVar) Min() float64 { return o.min }

// Max returns the current (global) incumbent upper bound.
func (o *ObjectiveVar) Max() float64 { return o.max }

// TightenMin raises the lower bound to newMin, trailing the previous
// value. Fails if newMin would exceed the incumbent upper bound, which
// signals this subtree cannot beat the best solution found so far.
func (o *ObjectiveVar) TightenMin(newMin float64) error {
	if newMin <= o.min {
		return nil
	}
	if newMin > o.max {
		return Fail("objective lower bound exceeds incumbent")
	}
	old := o.min
	o.store.record(func() { o.min = old })
	o.min = newMin
	return nil
}

// RecordIncumbent lowers the global upper bound to v if v improves on
// it. Never trailed: once a better solution is known, the bound it
// establishes applies to every remaining branch of the search, even
// after backtracking past the node that found it.
func (o *ObjectiveVar) RecordIncumbent(v float64) {
	if v < o.max {
		o.max = v
	}
}

func newObjectiveVar(store *Store) *ObjectiveVar {
	return &ObjectiveVar{store: store, min: 0, max: math.Inf(1)}
}
