package mssc

import (
	"sort"

	"github.com/clusterkit/cardmssc/internal/cpengine"
)

// WCard is the cardinality-aware WCSS lower-bound constraint of
// spec.md §4.4: a tighter variant of W-GEN exploiting fixed target
// cluster sizes, needing no DP since every cluster's final size is
// already known.
type WCard struct {
	inst      *Instance
	vars      []*cpengine.IntVar
	objective *cpengine.ObjectiveVar
	part      *Partition

	lbSched [][2]float64 // lb_sched[c][0] (full schedule), lb_sched[c][1] (one fewer)
}

// NewWCard posts the constraint over vars. Returns ErrTargetRequired if
// inst has no Target vector.
func NewWCard(store *cpengine.Store, inst *Instance, vars []*cpengine.IntVar) (*WCard, error) {
	if inst.Target == nil {
		return nil, ErrTargetRequired
	}
	return &WCard{
		inst:      inst,
		vars:      vars,
		objective: store.Objective(),
		part:      NewPartition(inst),
		lbSched:   make([][2]float64, inst.K),
	}, nil
}

func (w *WCard) Propagate(store *cpengine.Store) (bool, error) {
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
		// nothing fixed on entry: cooperate with value-precedence symmetry
		// breaking by binding the very first point to cluster 0.
		if err := w.vars[0].Fix(0); err != nil {
			return changed, err
		}
		return true, nil
	}

	k := w.inst.K
	for c := 0; c < k; c++ {
		na := w.part.NbAdd[c]
		sizeC := w.part.SizeCluster[c]
		w.lbSched[c][0] = wcardSchedule(w.part, c, na, na, sizeC)
		w.lbSched[c][1] = wcardSchedule(w.part, c, na, na-1, sizeC)
	}

	lbGlobal := 0.0
	for c := 0; c < k; c++ {
		lbGlobal += w.lbSched[c][0]
	}
	if err := w.objective.TightenMin(lbGlobal - epsCard); err != nil {
		return changed, err
	}

	for c := 0; c < k; c++ {
		na := w.part.NbAdd[c]
		sizeC := w.part.SizeCluster[c]
		lbExcept := lbGlobal - w.lbSched[c][0]
		for _, i := range w.part.U {
			if !w.vars[i].Has(c) {
				continue
			}
			lbPrime := (float64(sizeC+na-1)*w.lbSched[c][1] + w.part.S2[i][c] + w.part.S3At(i, na-1)) / float64(sizeC+na)
			total := lbExcept + lbPrime
			if total >= w.objective.Max() {
				if err := w.vars[i].RemoveValue(c); err != nil {
					return true, err
				}
				changed = true
			}
		}
	}

	return changed, nil
}

// wcardSchedule computes lb_sched[c][m] where m is expressed directly
// as "how many of the nbAddForS3-1-indexed s3 column to use and how
// many of the sorted values to take" (take = nb_add[c] for the m=0
// schedule, nb_add[c]-1 for m=1; the s3 column stays pinned at
// nb_add[c]-1 in both cases per spec.md §4.4's formula).
func wcardSchedule(part *Partition, c, nbAddForS3, take, sizeCluster int) float64 {
	if take <= 0 {
		if sizeCluster > 0 {
			return part.S1[c] / float64(sizeCluster)
		}
		return 0
	}
	vals := make([]float64, 0, len(part.U))
	for _, u := range part.U {
		vals = append(vals, part.S2[u][c]+part.S3At(u, nbAddForS3-1))
	}
	sort.Float64s(vals)

	sum := part.S1[c]
	limit := take
	if limit > len(vals) {
		limit = len(vals)
	}
	for i := 0; i < limit; i++ {
		sum += vals[i]
	}
	return sum / float64(sizeCluster+take)
}
