package mssc

import (
	"math"
	"sort"

	"github.com/clusterkit/cardmssc/internal/cpengine"
)

// WGen is the general WCSS lower-bound constraint of spec.md §4.3: a
// dynamic-programming bound over per-cluster schedules lb_sched[c][m],
// ignoring target cardinalities entirely (there are none to exploit
// when no Target is supplied).
type WGen struct {
	inst      *Instance
	vars      []*cpengine.IntVar
	objective *cpengine.ObjectiveVar
	part      *Partition

	lbSched [][]float64 // [c][0..N], only [:q+1] used per call
	dp      [][]float64 // F[c][0..N], only [:q+1] used per call
}

// NewWGen posts the general WCSS lower-bound constraint over vars.
func NewWGen(store *cpengine.Store, inst *Instance, vars []*cpengine.IntVar) *WGen {
	w := &WGen{
		inst:      inst,
		vars:      vars,
		objective: store.Objective(),
		part:      NewPartition(inst),
		lbSched:   make([][]float64, inst.K),
		dp:        make([][]float64, inst.K),
	}
	for c := 0; c < inst.K; c++ {
		w.lbSched[c] = make([]float64, inst.N+1)
		w.dp[c] = make([]float64, inst.N+1)
	}
	return w
}

func (w *WGen) Propagate(store *cpengine.Store) (bool, error) {
	w.part.Rebuild(w.vars, false)
	q := w.part.Q
	k := w.inst.K

	for c := 0; c < k; c++ {
		sizeC := w.part.SizeCluster[c]
		if sizeC > 0 {
			w.lbSched[c][0] = w.part.S1[c] / float64(sizeC)
		} else {
			w.lbSched[c][0] = 0
		}
		for m := 1; m <= q; m++ {
			w.lbSched[c][m] = wgenSchedule(w.part, c, m, sizeC)
		}
	}

	copy(w.dp[0][:q+1], w.lbSched[0][:q+1])
	for c := 1; c < k; c++ {
		for m := 0; m <= q; m++ {
			best := math.Inf(1)
			for i := 0; i <= m; i++ {
				v := w.dp[c-1][i] + w.lbSched[c][m-i]
				if v < best {
					best = v
				}
			}
			w.dp[c][m] = best
		}
	}

	// open question #1 (resolved): q=0 collapses every m-loop above to
	// its single m=0 term, so w.dp[k-1][0] already equals Σ_c
	// S1[c]/sizeCluster[c]. No special-case branch is needed; this
	// comment documents why, per SPEC_FULL.md's decision.
	lbGlobal := w.dp[k-1][q]

	changed := false
	if err := w.objective.TightenMin(lbGlobal - epsGen); err != nil {
		return changed, err
	}

	for c := 0; c < k; c++ {
		lbExcept := make([]float64, q+1)
		for m := 0; m <= q; m++ {
			best := math.Inf(-1)
			for j := m; j <= q; j++ {
				v := w.dp[k-1][j] - w.lbSched[c][j-m]
				if v > best {
					best = v
				}
			}
			lbExcept[m] = best
		}

		sizeC := w.part.SizeCluster[c]
		for _, i := range w.part.U {
			if !w.vars[i].Has(c) {
				continue
			}
			best := math.Inf(1)
			for m := 0; m <= q-1; m++ {
				lbPrime := (float64(sizeC+m)*w.lbSched[c][m] + w.part.S2[i][c] + w.part.S3At(i, m)) / float64(sizeC+m+1)
				total := lbExcept[q-1-m] + lbPrime
				if total < best {
					best = total
				}
			}
			if best >= w.objective.Max() {
				if err := w.vars[i].RemoveValue(c); err != nil {
					return true, err
				}
				changed = true
			}
		}
	}

	return changed, nil
}

// wgenSchedule computes lb_sched[c][m] for m >= 1: (S1[c] + sum of the m
// smallest values of s2[u][c]+s3[u][m-1] over u in U) / (sizeCluster[c]+m).
// Values of u for which c is not in dom(x_u) carry +Inf in s2 and so
// never enter the m-smallest selection as long as m doesn't exceed the
// count of admissible u — the same sentinel trick spec.md's bookkeeping
// relies on elsewhere.
func wgenSchedule(part *Partition, c, m, sizeCluster int) float64 {
	vals := make([]float64, 0, len(part.U))
	for _, u := range part.U {
		vals = append(vals, part.S2[u][c]+part.S3At(u, m-1))
	}
	sort.Float64s(vals)

	sum := part.S1[c]
	limit := m
	if limit > len(vals) {
		limit = len(vals)
	}
	for i := 0; i < limit; i++ {
		sum += vals[i]
	}
	return sum / float64(sizeCluster+m)
}
