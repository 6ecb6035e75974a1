package mssc

import (
	"fmt"
	"math"
)

// Instance is the immutable problem bundle of spec.md §3: N points
// (with an optional S-dimensional coordinate matrix, consulted only by
// centroid-based tie-breakers), a symmetric squared-Euclidean
// dissimilarity matrix D, a cluster count K, and optional target
// cardinalities / an initial membership hint.
type Instance struct {
	N, K, S int
	D       [][]float64

	Coords            [][]float64 // optional, N x S
	Target            []int       // optional, length K, sums to N
	InitialMembership []int       // optional, length N, values in [0,K)
}

// Validate checks the invariants spec.md §3/§6 require of an instance.
// Failures here are caller errors (spec.md §7): they are surfaced to
// the embedding program at posting time, never as a search-time Fail.
func (inst *Instance) Validate() error {
	if inst.N <= 0 {
		return fmt.Errorf("mssc: instance has non-positive N=%d", inst.N)
	}
	if inst.K <= 0 || inst.K > inst.N {
		return fmt.Errorf("mssc: instance has invalid K=%d for N=%d", inst.K, inst.N)
	}
	if len(inst.D) != inst.N {
		return fmt.Errorf("mssc: D has %d rows, want %d", len(inst.D), inst.N)
	}
	for i, row := range inst.D {
		if len(row) != inst.N {
			return fmt.Errorf("mssc: D row %d has %d entries, want %d", i, len(row), inst.N)
		}
		if row[i] != 0 {
			return fmt.Errorf("mssc: D[%d][%d] = %v, want 0 (zero diagonal)", i, i, row[i])
		}
		for j := 0; j < inst.N; j++ {
			if row[j] < 0 {
				return fmt.Errorf("mssc: D[%d][%d] = %v is negative", i, j, row[j])
			}
			if math.Abs(row[j]-inst.D[j][i]) > 1e-9 {
				return fmt.Errorf("mssc: D is not symmetric at (%d,%d)", i, j)
			}
		}
	}
	if inst.Target != nil {
		if len(inst.Target) != inst.K {
			return fmt.Errorf("mssc: target has %d entries, want K=%d", len(inst.Target), inst.K)
		}
		sum := 0
		for c, t := range inst.Target {
			if t <= 0 {
				return fmt.Errorf("mssc: target[%d] = %d is non-positive", c, t)
			}
			sum += t
		}
		if sum != inst.N {
			return fmt.Errorf("mssc: target sums to %d, want N=%d", sum, inst.N)
		}
	}
	if inst.Coords != nil {
		if len(inst.Coords) != inst.N {
			return fmt.Errorf("mssc: coords has %d rows, want N=%d", len(inst.Coords), inst.N)
		}
		for i, row := range inst.Coords {
			if inst.S > 0 && len(row) != inst.S {
				return fmt.Errorf("mssc: coords row %d has %d entries, want S=%d", i, len(row), inst.S)
			}
		}
	}
	if inst.InitialMembership != nil && len(inst.InitialMembership) != inst.N {
		return fmt.Errorf("mssc: memberships has %d entries, want N=%d", len(inst.InitialMembership), inst.N)
	}
	return nil
}
