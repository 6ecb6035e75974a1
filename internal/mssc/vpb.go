package mssc

import "github.com/clusterkit/cardmssc/internal/cpengine"

// VPB enforces spec.md §4.1's value-precedence-binary constraint on a
// value pair (s, t): the first index of x holding either s or t must
// hold s. Ported from Law & Lee (2004)'s binary variant, tracked with
// three reversible pointers into [0,N] — alpha (smallest index still
// able to hold s), beta (the next such index after alpha), gamma
// (smallest index already bound to t).
//
// spec.md describes VPB as demon-triggered (a "main" action on domain
// change, a "gamma" action on bind). This engine instead calls
// Propagate repeatedly to a fixed point with no per-event hooks, so the
// algorithm below is expressed as an idempotent full rescan from the
// current pointers rather than incremental event handlers; the fixed
// point reached is the same GAC state the demon-triggered version
// converges to; it just does more redundant scanning per call.
type VPB struct {
	s, t int
	vars []*cpengine.IntVar
	n    int

	alpha *cpengine.Reversible[int]
	beta  *cpengine.Reversible[int]
	gamma *cpengine.Reversible[int]
}

// NewVPB posts precedence(s, t) over vars.
func NewVPB(store *cpengine.Store, vars []*cpengine.IntVar, s, t int) *VPB {
	n := len(vars)
	return &VPB{
		s: s, t: t, vars: vars, n: n,
		alpha: cpengine.NewReversible(store, 0),
		beta:  cpengine.NewReversible(store, 0),
		gamma: cpengine.NewReversible(store, n),
	}
}

func (c *VPB) Propagate(store *cpengine.Store) (bool, error) {
	changed := false

	a := c.alpha.Get()
	for a < c.n && !c.vars[a].Has(c.s) {
		if c.vars[a].Has(c.t) {
			if err := c.vars[a].RemoveValue(c.t); err != nil {
				return changed, err
			}
			changed = true
		}
		a++
	}
	if a != c.alpha.Get() {
		c.alpha.Set(a)
		changed = true
	}

	if a >= c.n {
		return changed, nil
	}

	if c.vars[a].Has(c.t) {
		if err := c.vars[a].RemoveValue(c.t); err != nil {
			return changed, err
		}
		changed = true
	}

	b := c.beta.Get()
	if b <= a {
		b = a + 1
	}
	for b < c.n && !c.vars[b].Has(c.s) {
		b++
	}
	if b != c.beta.Get() {
		c.beta.Set(b)
		changed = true
	}

	newGamma := c.n
	for i := 0; i < c.n; i++ {
		if c.vars[i].IsFixed() && c.vars[i].Value() == c.t {
			newGamma = i
			break
		}
	}
	if newGamma != c.gamma.Get() {
		c.gamma.Set(newGamma)
		changed = true
	}

	if b > newGamma && !c.vars[a].IsFixed() {
		if err := c.vars[a].Fix(c.s); err != nil {
			return changed, err
		}
		changed = true
	}

	return changed, nil
}
