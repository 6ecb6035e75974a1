package mssc

import (
	"context"
	"time"

	"github.com/clusterkit/cardmssc/internal/cpengine"
	"github.com/sirupsen/logrus"
)

// ConstraintSet selects which WCSS lower-bound constraint to post,
// spec.md §8's property test ("the three WCSS constraints, posted
// individually, produce the same optimal solution; only search size
// differs").
type ConstraintSet int

const (
	ConstraintWGen ConstraintSet = iota
	ConstraintWCard
	ConstraintWFlow
)

// SolveOptions bundles the search configuration with the chosen bound
// constraint, an optional wall-clock timeout, and a logger for
// structured progress reporting.
type SolveOptions struct {
	Constraints ConstraintSet
	Search      SearchConfig
	Timeout     time.Duration
	Logger      *logrus.Logger
}

// Result is the outcome of a complete solve.
type Result struct {
	Assignment []int
	Objective  float64
	Monitor    cpengine.Monitor
}

// Solve builds the engine, posts the value-precedence chain plus the
// requested WCSS bound constraint, and runs branch-and-bound search to
// exact optimality (spec.md §1–§4).
func Solve(inst *Instance, opts SolveOptions) (Result, error) {
	if err := inst.Validate(); err != nil {
		return Result{}, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	store := cpengine.NewStore()
	vars := make([]*cpengine.IntVar, inst.N)
	for i := range vars {
		vars[i] = store.NewIntVar(inst.K)
	}

	for s := 0; s < inst.K-1; s++ {
		store.Register(NewVPB(store, vars, s, s+1))
	}

	switch opts.Constraints {
	case ConstraintWCard:
		wc, err := NewWCard(store, inst, vars)
		if err != nil {
			return Result{}, err
		}
		store.Register(wc)
	case ConstraintWFlow:
		wf, err := NewWFlow(store, inst, vars)
		if err != nil {
			return Result{}, err
		}
		store.Register(wf)
	default:
		store.Register(NewWGen(store, inst, vars))
	}

	strategy := NewStrategy(inst, vars, opts.Search)

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var best Result
	found := false

	err := cpengine.Search(ctx, store, strategy, func(s *cpengine.Store) (bool, error) {
		// Objective().Min() is the propagated lower bound, deliberately
		// shaved by an epsilon (epsGen/epsCard/epsFlow) for sound pruning;
		// it must never be reported as the result. At a leaf every
		// variable is fixed, so recompute the exact WCSS from scratch.
		assignment := s.Solution()
		v := trueWCSS(inst, assignment)
		if !found || v < best.Objective {
			best = Result{Assignment: assignment, Objective: v}
			found = true
			s.Objective().RecordIncumbent(v)
			strategy.NotifySolutionFound()
			logger.WithFields(logrus.Fields{
				"objective": v,
				"nodes":     s.Monitor().NodesExplored,
			}).Info("incumbent found")
		}
		return false, nil
	})
	if err != nil {
		return Result{}, err
	}
	if !found {
		return Result{}, cpengine.Fail("no feasible assignment found")
	}
	best.Monitor = store.Monitor().Snapshot()
	return best, nil
}
