package mssc

import (
	"math"

	"github.com/clusterkit/cardmssc/internal/cpengine"
)

// InitialSolutionMode selects spec.md §4.6's initial-solution phase.
type InitialSolutionMode int

const (
	InitialNone InitialSolutionMode = iota
	InitialGreedyInit
	InitialMembershipsAsIndicated
)

// MainSearchMode selects the main-search phase. spec.md §6 only
// recognizes one mode; the type exists so SearchConfig reads the same
// way the other two enums do and a second mode can be added later
// without an API break.
type MainSearchMode int

const (
	MainMaxMinVar MainSearchMode = iota
)

// TieHandlingMode selects the tie-breaking heuristic of spec.md §4.6.
type TieHandlingMode int

const (
	TieNone TieHandlingMode = iota
	TieUnboundFarthestTotalSS
	TieFixedFarthestDist
	TieFixedMaxMin
	TieFarthestPointFromBiggestCenter
	TieMaxMinPointFromAllCenters
)

// SearchConfig is spec.md §6's "Search configuration".
type SearchConfig struct {
	InitialSolution InitialSolutionMode
	MainSearch      MainSearchMode
	TieHandling     TieHandlingMode
}

// Strategy implements cpengine.BranchStrategy: spec.md §4.6's single
// binary-branching goal, dispatching to the initial-solution, main, or
// tie-breaking mode per its state machine.
type Strategy struct {
	inst   *Instance
	vars   []*cpengine.IntVar
	config SearchConfig

	solFound     bool
	lastI, lastJ int
	part         *Partition
}

// NewStrategy builds a branching strategy for vars under config.
func NewStrategy(inst *Instance, vars []*cpengine.IntVar, config SearchConfig) *Strategy {
	return &Strategy{
		inst: inst, vars: vars, config: config,
		part:  NewPartition(inst),
		lastI: -1, lastJ: -1,
	}
}

// NotifySolutionFound switches the strategy out of initial-solution
// mode for the remainder of the search, per spec.md §4.6's state
// machine ("initial-solution branch if !solFound").
func (st *Strategy) NotifySolutionFound() { st.solFound = true }

// SelectBranch implements cpengine.BranchStrategy.
func (st *Strategy) SelectBranch(store *cpengine.Store) (int, int, bool) {
	st.part.Rebuild(st.vars, false)
	if st.part.Q == 0 {
		return 0, 0, false
	}

	if !st.solFound && st.config.InitialSolution != InitialNone {
		switch st.config.InitialSolution {
		case InitialGreedyInit:
			i, j := st.greedyInit()
			return i, j, true
		case InitialMembershipsAsIndicated:
			i, j := st.membershipsAsIndicated()
			return i, j, true
		}
	}

	i, j, tie := st.maxMinVar()
	if tie {
		if st.config.TieHandling != TieNone {
			if ti, tc, ok := st.tieBreak(); ok {
				st.lastI, st.lastJ = ti, tc
				return ti, tc, true
			}
		}
	}
	st.lastI, st.lastJ = i, j
	return i, j, true
}

// greedyInit: among variables with the smallest current domain size,
// pick the (i, value) minimizing Δ-objective.
func (st *Strategy) greedyInit() (int, int) {
	minSize := st.inst.K + 1
	for _, u := range st.part.U {
		if c := st.vars[u].Count(); c < minSize {
			minSize = c
		}
	}

	bestI, bestJ := st.part.U[0], -1
	var bestDelta int64
	first := true
	for _, u := range st.part.U {
		if st.vars[u].Count() != minSize {
			continue
		}
		st.vars[u].Each(func(c int) {
			d := deltaObjective(st.inst, st.part.P[c], st.part.S1[c], u)
			if first || d < bestDelta {
				bestI, bestJ, bestDelta, first = u, c, d, false
			}
		})
	}
	return bestI, bestJ
}

func (st *Strategy) membershipsAsIndicated() (int, int) {
	i := st.part.U[0]
	return i, st.inst.InitialMembership[i]
}

// maxMinVar implements MAX_MIN_VAR: for each unfixed i, δ*(i) is the
// minimum Δ-objective over its domain; pick i maximizing δ*(i). The
// maximum being exactly 0 (every candidate's best move is free, e.g. at
// the start or when an empty cluster exists) signals a tie.
func (st *Strategy) maxMinVar() (besti, bestj int, tie bool) {
	besti, bestj = st.part.U[0], -1
	var bestDeltaStar int64 = -1
	for _, u := range st.part.U {
		var jStar int = -1
		var dStar int64
		first := true
		st.vars[u].Each(func(c int) {
			d := deltaObjective(st.inst, st.part.P[c], st.part.S1[c], u)
			if first || d < dStar {
				dStar, jStar, first = d, c, false
			}
		})
		if jStar != -1 && dStar > bestDeltaStar {
			besti, bestj, bestDeltaStar = u, jStar, dStar
		}
	}
	return besti, bestj, bestDeltaStar == 0
}

// occupiedClustersAndNextGap scans fixed variables for the first gap in
// cluster indices (spec.md §4.6's tie-break cluster pick, respecting
// value-precedence symmetry).
func (st *Strategy) occupiedClustersAndNextGap() (occupied []int, cStar int) {
	k := st.inst.K
	for c := 0; c < k; c++ {
		if st.part.SizeCluster[c] > 0 {
			occupied = append(occupied, c)
		} else {
			return occupied, c
		}
	}
	return occupied, k - 1
}

func (st *Strategy) tieBreak() (int, int, bool) {
	occupied, cStar := st.occupiedClustersAndNextGap()

	var candidates []int
	for _, u := range st.part.U {
		if st.vars[u].Has(cStar) {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return 0, 0, false
	}

	var iStar int
	switch st.config.TieHandling {
	case TieUnboundFarthestTotalSS:
		iStar = pickMax(candidates, func(i int) int64 {
			return totalSS(st.inst, i, st.part.U)
		})
	case TieFixedFarthestDist:
		iStar = pickMax(candidates, func(i int) int64 {
			best := -1.0
			for c := 0; c < st.inst.K; c++ {
				for _, j := range st.part.P[c] {
					if st.inst.D[i][j] > best {
						best = st.inst.D[i][j]
					}
				}
			}
			return int64(math.Round(best * totalSSScale))
		})
	case TieFixedMaxMin:
		iStar = pickMax(candidates, func(i int) int64 {
			minOfMins := math.Inf(1)
			for _, c := range occupied {
				minD := math.Inf(1)
				for _, j := range st.part.P[c] {
					if st.inst.D[i][j] < minD {
						minD = st.inst.D[i][j]
					}
				}
				if minD < minOfMins {
					minOfMins = minD
				}
			}
			if math.IsInf(minOfMins, 1) {
				minOfMins = 0
			}
			return int64(math.Round(minOfMins * totalSSScale))
		})
	case TieFarthestPointFromBiggestCenter:
		biggest, bestSize := -1, -1
		for _, c := range occupied {
			if st.part.SizeCluster[c] > bestSize {
				bestSize, biggest = st.part.SizeCluster[c], c
			}
		}
		if biggest == -1 {
			iStar = candidates[0]
		} else {
			mu := centroid(st.inst, st.part.P[biggest])
			iStar = pickMax(candidates, func(i int) int64 {
				return int64(math.Round(sqDist(st.inst.Coords[i], mu) * totalSSScale))
			})
		}
	case TieMaxMinPointFromAllCenters:
		centroids := make(map[int][]float64, len(occupied))
		for _, c := range occupied {
			centroids[c] = centroid(st.inst, st.part.P[c])
		}
		iStar = pickMax(candidates, func(i int) int64 {
			minDist := math.Inf(1)
			for _, c := range occupied {
				if d := sqDist(st.inst.Coords[i], centroids[c]); d < minDist {
					minDist = d
				}
			}
			if math.IsInf(minDist, 1) {
				minDist = 0
			}
			return int64(math.Round(minDist * totalSSScale))
		})
	default:
		return 0, 0, false
	}

	return iStar, cStar, true
}

func pickMax(candidates []int, score func(int) int64) int {
	best := candidates[0]
	bestScore := score(best)
	for _, i := range candidates[1:] {
		if s := score(i); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}
