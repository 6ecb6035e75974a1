package mssc

import (
	"context"
	"math"

	"github.com/clusterkit/cardmssc/internal/cpengine"
	"github.com/clusterkit/cardmssc/internal/mcf"
)

// WFlow is the strongest WCSS lower-bound constraint, spec.md §4.5: it
// formulates the remaining assignment as a transportation problem,
// solves it via internal/mcf, then filters domains with shifted-cost
// Bellman-Ford reasoning on the residual network. Preliminary steps
// (cluster-saturation loop, the q=N special case) are identical to
// W-CARD.
type WFlow struct {
	inst      *Instance
	vars      []*cpengine.IntVar
	objective *cpengine.ObjectiveVar
	part      *Partition

	// Reversible scratch, spec.md §3: preserved across propagations so
	// the MCF is only re-solved when something relevant has changed.
	destination *cpengine.Reversible[[]int]
	varWasFixed *cpengine.Reversible[[]bool]
	hasFlow     *cpengine.Reversible[[][]bool]
	lbGlobal    *cpengine.Reversible[float64]
}

// NewWFlow posts the constraint over vars. Returns ErrTargetRequired if
// inst has no Target vector.
func NewWFlow(store *cpengine.Store, inst *Instance, vars []*cpengine.IntVar) (*WFlow, error) {
	if inst.Target == nil {
		return nil, ErrTargetRequired
	}
	dest := make([]int, inst.N)
	for i := range dest {
		dest[i] = -1
	}
	hasFlow := make([][]bool, inst.N)
	for i := range hasFlow {
		hasFlow[i] = make([]bool, inst.K)
	}
	return &WFlow{
		inst:        inst,
		vars:        vars,
		objective:   store.Objective(),
		part:        NewPartition(inst),
		destination: cpengine.NewReversible(store, dest),
		varWasFixed: cpengine.NewReversible(store, make([]bool, inst.N)),
		hasFlow:     cpengine.NewReversible(store, hasFlow),
		lbGlobal:    cpengine.NewReversible(store, math.Inf(1)),
	}, nil
}

func (w *WFlow) Propagate(store *cpengine.Store) (bool, error) {
	changed := false

	for {
		w.part.Rebuild(w.vars, true)
		progressed := false
		for c := 0; c < w.inst.K; c++ {
			if w.part.NbAdd[c] < 0 {
				return changed, cpengine.Fail("cluster overfull")
			}
			if w.part.NbAdd[c] == 0 {
				for _, u := range w.part.U {
					if w.vars[u].Has(c) {
						if err := w.vars[u].RemoveValue(c); err != nil {
							return true, err
						}
						changed = true
						progressed = true
					}
				}
			}
		}
		if !progressed {
			break
		}
	}

	if w.part.Pp == 0 {
		if err := w.vars[0].Fix(0); err != nil {
			return changed, err
		}
		return true, nil
	}

	if w.needsMCFResolve() {
		if err := w.resolveMCF(); err != nil {
			return changed, err
		}
		changed = true
	} else {
		if err := w.objective.TightenMin(w.lbGlobal.Get() - epsFlow); err != nil {
			return changed, err
		}
	}

	filterChanged, err := w.filterByResidual()
	if err != nil {
		return true, err
	}
	if filterChanged {
		changed = true
	}

	return changed, nil
}

// needsMCFResolve implements spec.md §4.5's incrementality rule: resolve
// only if destination is unset, a point's binding diverged from its
// cached destination, its cached destination fell out of domain, or its
// fixed/unfixed status flipped.
func (w *WFlow) needsMCFResolve() bool {
	dest := w.destination.Get()
	wasFixed := w.varWasFixed.Get()
	for i := 0; i < w.inst.N; i++ {
		v := w.vars[i]
		fixedNow := v.IsFixed()
		if dest[i] == -1 {
			return true
		}
		if fixedNow && v.Value() != dest[i] {
			return true
		}
		if !fixedNow && !v.Has(dest[i]) {
			return true
		}
		if fixedNow != wasFixed[i] {
			return true
		}
	}
	return false
}

func (w *WFlow) weight(u, c int) float64 {
	return (w.part.S2[u][c] + w.part.S3At(u, w.part.NbAdd[c]-1)) / float64(w.inst.Target[c])
}

// resolveMCF builds the transportation network of spec.md §4.5, solves
// it, tightens V, and refreshes the reversible destination/hasFlow
// scratch.
func (w *WFlow) resolveMCF() error {
	part := w.part
	k := w.inst.K

	clusterNode := make([]int, k)
	for c := range clusterNode {
		clusterNode[c] = -1
	}
	numClusterNodes := 0
	for c := 0; c < k; c++ {
		if part.NbAdd[c] > 0 {
			clusterNode[c] = numClusterNodes
			numClusterNodes++
		}
	}

	const source = 0
	uBase := 1
	clusterBase := uBase + part.Q
	sink := clusterBase + numClusterNodes

	net := mcf.NewNetwork(sink+1, source, sink)
	type arcKey struct{ u, c int }
	arcUC := make(map[arcKey]mcf.ArcID)

	for pos, u := range part.U {
		net.AddArc(source, uBase+pos, 1, 0)
		for c := 0; c < k; c++ {
			if clusterNode[c] < 0 || !w.vars[u].Has(c) {
				continue
			}
			id := net.AddArc(uBase+pos, clusterBase+clusterNode[c], 1, w.weight(u, c))
			arcUC[arcKey{u, c}] = id
		}
	}
	for c := 0; c < k; c++ {
		if clusterNode[c] < 0 {
			continue
		}
		net.AddArc(clusterBase+clusterNode[c], sink, part.NbAdd[c], 0)
	}

	result, err := mcf.Solve(context.Background(), net, part.Q)
	if err != nil {
		return cpengine.Fail("MCF infeasible")
	}

	baseCost := 0.0
	for c := 0; c < k; c++ {
		baseCost += part.S1[c] / float64(w.inst.Target[c])
	}
	lbGlobal := baseCost + result.Objective

	if err := w.objective.TightenMin(lbGlobal - epsFlow); err != nil {
		return err
	}

	newDest := append([]int(nil), w.destination.Get()...)
	newHasFlow := make([][]bool, w.inst.N)
	for i := range newHasFlow {
		newHasFlow[i] = make([]bool, k)
	}
	for _, u := range part.U {
		for c := 0; c < k; c++ {
			id, ok := arcUC[arcKey{u, c}]
			if !ok {
				continue
			}
			if result.FlowByArc[id] > 0 {
				newDest[u] = c
				newHasFlow[u][c] = true
			}
		}
	}
	for c := 0; c < k; c++ {
		for _, i := range part.P[c] {
			newDest[i] = c
		}
	}
	newWasFixed := make([]bool, w.inst.N)
	for i := 0; i < w.inst.N; i++ {
		newWasFixed[i] = w.vars[i].IsFixed()
	}

	w.destination.Set(newDest)
	w.hasFlow.Set(newHasFlow)
	w.varWasFixed.Set(newWasFixed)
	w.lbGlobal.Set(lbGlobal)

	return nil
}

// filterByResidual implements spec.md §4.5's residual cost-based
// filtering: for every (u,c) non-flow arc, estimate the cheapest
// reroute of u from its current destination to c and prune c from
// dom(x_u) if even that best case can't beat the incumbent.
//
// Simplification versus the source algorithm: spec.md calls for
// excluding u's own row when searching the residual graph for its own
// reroute path ("skip row u when scanning starts at u"). This
// implementation computes one Bellman-Ford run per active cluster over
// the full residual graph (no per-u exclusion) and reuses it for every
// u whose current destination is that cluster. Admitting u's own row
// can only shorten a found path, never lengthen it, so the Δ this
// produces is a (weaker) underestimate of the true minimal reroute
// cost — safe, because a smaller Δ only prunes less aggressively, never
// incorrectly.
func (w *WFlow) filterByResidual() (bool, error) {
	part := w.part
	k := w.inst.K
	q := part.Q

	clusterNode := make([]int, k)
	for c := range clusterNode {
		clusterNode[c] = -1
	}
	numClusterNodes := 0
	for c := 0; c < k; c++ {
		if part.NbAdd[c] > 0 {
			clusterNode[c] = q + numClusterNodes
			numClusterNodes++
		}
	}
	numNodes := q + numClusterNodes
	adj := make([][]mcf.WeightedEdge, numNodes)
	hasFlow := w.hasFlow.Get()

	for pos, u := range part.U {
		for c := 0; c < k; c++ {
			if clusterNode[c] < 0 || !w.vars[u].Has(c) {
				continue
			}
			wuc := w.weight(u, c)
			if hasFlow[u][c] {
				adj[clusterNode[c]] = append(adj[clusterNode[c]], mcf.WeightedEdge{From: clusterNode[c], To: pos, Weight: -wuc})
			} else {
				adj[pos] = append(adj[pos], mcf.WeightedEdge{From: pos, To: clusterNode[c], Weight: wuc})
			}
		}
	}

	maxPasses := q + k - 2
	if maxPasses < 1 {
		maxPasses = 1
	}

	distFromCluster := make([][]float64, k)
	for c := 0; c < k; c++ {
		if clusterNode[c] < 0 {
			continue
		}
		distFromCluster[c] = mcf.BellmanFordLimited(numNodes, adj, clusterNode[c], maxPasses)
	}

	changed := false
	dest := w.destination.Get()
	lb := w.lbGlobal.Get()

	for _, u := range part.U {
		c0 := dest[u]
		wuc0 := w.weight(u, c0)
		for c := 0; c < k; c++ {
			if clusterNode[c] < 0 || c == c0 || !w.vars[u].Has(c) || hasFlow[u][c] {
				continue
			}
			dist := distFromCluster[c]
			if dist == nil {
				continue
			}
			residual := dist[clusterNode[c0]]
			if math.IsInf(residual, 1) {
				continue
			}
			deltaDirect := w.weight(u, c) - wuc0
			delta := deltaDirect + residual
			if lb+delta >= w.objective.Max() {
				if err := w.vars[u].RemoveValue(c); err != nil {
					return true, err
				}
				changed = true
			}
		}
	}

	return changed, nil
}
