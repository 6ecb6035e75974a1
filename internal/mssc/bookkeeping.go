package mssc

import (
	"math"
	"sort"

	"github.com/clusterkit/cardmssc/internal/cpengine"
)

var posInf = math.Inf(1)

// Partition is the derived, per-propagation-rebuilt bookkeeping shared
// by W-GEN, W-CARD, and W-FLOW (spec.md §4.2): the fixed/unassigned
// split, per-cluster intra sums, and the s2/s3 tables the bound
// formulas select from. All slices are allocated once, at construction,
// and overwritten (never reallocated) on each Rebuild call, per
// spec.md §3's "Lifecycle" note.
type Partition struct {
	inst *Instance

	P           [][]int // P[c]: fixed indices assigned to cluster c
	U           []int   // unassigned indices, ascending
	SizeCluster []int   // SizeCluster[c] = len(P[c])
	NbAdd       []int   // NbAdd[c] = target[c] - SizeCluster[c]; nil if inst.Target == nil
	Q, Pp       int     // q = len(U); p = N - q

	S1 []float64   // S1[c] = intra-cluster WCSD of P[c]
	S2 [][]float64 // S2[u][c], indexed by point id; +Inf when c not in dom(x_u)
	S3 [][]float64 // S3[u][0..L], indexed by point id; prefix sums of half-distances to other members of U
}

// NewPartition allocates the fixed-size scratch for an instance of N
// points and K clusters. cardinality-aware callers (W-CARD, W-FLOW)
// still get a usable NbAdd slice only once Target is set on inst —
// Rebuild leaves it nil otherwise.
func NewPartition(inst *Instance) *Partition {
	n, k := inst.N, inst.K
	p := &Partition{
		inst:        inst,
		P:           make([][]int, k),
		U:           make([]int, 0, n),
		SizeCluster: make([]int, k),
		S1:          make([]float64, k),
		S2:          make([][]float64, n),
		S3:          make([][]float64, n),
	}
	if inst.Target != nil {
		p.NbAdd = make([]int, k)
	}
	for i := 0; i < n; i++ {
		p.S2[i] = make([]float64, k)
	}
	return p
}

// Rebuild recomputes every field from the current variable domains, per
// spec.md §4.2. When limitS3ToCardinality is false (W-GEN), the s3
// prefix-sum table is built out to its full length q; when true
// (W-CARD, W-FLOW), it is built only out to max_c NbAdd[c], since
// those constraints never index s3 beyond nb_add[c]-1.
func (p *Partition) Rebuild(vars []*cpengine.IntVar, limitS3ToCardinality bool) {
	inst := p.inst
	k := inst.K

	for c := 0; c < k; c++ {
		p.P[c] = p.P[c][:0]
	}
	p.U = p.U[:0]

	for i, v := range vars {
		if v.IsFixed() {
			c := v.Value()
			p.P[c] = append(p.P[c], i)
		} else {
			p.U = append(p.U, i)
		}
	}

	for c := 0; c < k; c++ {
		p.SizeCluster[c] = len(p.P[c])
		sum := 0.0
		members := p.P[c]
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				sum += inst.D[members[a]][members[b]]
			}
		}
		p.S1[c] = sum
		if p.NbAdd != nil {
			p.NbAdd[c] = inst.Target[c] - p.SizeCluster[c]
		}
	}

	p.Q = len(p.U)
	p.Pp = inst.N - p.Q

	for _, u := range p.U {
		row := p.S2[u]
		v := vars[u]
		for c := 0; c < k; c++ {
			if !v.Has(c) {
				row[c] = posInf
				continue
			}
			sum := 0.0
			for _, j := range p.P[c] {
				sum += inst.D[u][j]
			}
			row[c] = sum
		}
	}

	s3Len := p.Q
	if limitS3ToCardinality && p.NbAdd != nil {
		maxNb := 0
		for _, na := range p.NbAdd {
			if na > maxNb {
				maxNb = na
			}
		}
		s3Len = maxNb
	}
	if s3Len < 0 {
		s3Len = 0
	}

	half := make([]float64, 0, p.Q)
	for _, u := range p.U {
		half = half[:0]
		for _, w := range p.U {
			if w == u {
				continue
			}
			half = append(half, inst.D[u][w]/2)
		}
		sort.Float64s(half)

		limit := s3Len
		if limit > len(half) {
			limit = len(half)
		}

		prefix := p.S3[u]
		if cap(prefix) < limit+1 {
			prefix = make([]float64, limit+1)
		} else {
			prefix = prefix[:limit+1]
		}
		prefix[0] = 0
		running := 0.0
		for m := 0; m < limit; m++ {
			running += half[m]
			prefix[m+1] = running
		}
		p.S3[u] = prefix
	}
}

// S3At returns s3[u][m], clamped to the largest prefix actually computed
// (m beyond that means "every remaining unassigned point", which is
// exactly the clamp represents).
func (p *Partition) S3At(u, m int) float64 {
	row := p.S3[u]
	if m < 0 {
		m = 0
	}
	if m >= len(row) {
		m = len(row) - 1
	}
	return row[m]
}
