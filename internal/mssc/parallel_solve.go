package mssc

import (
	"context"
	"sync"

	"github.com/clusterkit/cardmssc/internal/parallel"
)

// SolveParallel runs a portfolio of solves concurrently, one per
// SolveOptions variant, and returns the best result found (spec.md §5:
// "If the engine offers parallel search (portfolio), each worker owns
// an independent copy of all reversible state; constraints are not
// shared across workers"). Each variant gets its own cpengine.Store,
// assignment variables, and Strategy — nothing is shared across
// goroutines except the read-only Instance and the final result
// collection, so no additional synchronization is needed inside Solve
// itself.
//
// variants is typically a handful of tie-handling heuristics run
// against the same instance; the caller picks the overall best. An
// error from any single variant is recorded but does not abort the
// others — SolveParallel only fails if every variant fails.
func SolveParallel(ctx context.Context, inst *Instance, variants []SolveOptions) (Result, error) {
	if len(variants) == 0 {
		return Result{}, ErrNoVariants
	}

	pool := parallel.NewWorkerPool(len(variants))
	defer pool.Shutdown()

	type outcome struct {
		result Result
		err    error
	}
	outcomes := make([]outcome, len(variants))

	var wg sync.WaitGroup
	for idx, opts := range variants {
		idx, opts := idx, opts
		wg.Add(1)
		task := func() {
			defer wg.Done()
			res, err := Solve(inst, opts)
			outcomes[idx] = outcome{result: res, err: err}
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			outcomes[idx] = outcome{err: err}
		}
	}
	wg.Wait()

	best := Result{}
	found := false
	var lastErr error
	for _, o := range outcomes {
		if o.err != nil {
			lastErr = o.err
			continue
		}
		if !found || o.result.Objective < best.Objective {
			best = o.result
			found = true
		}
	}
	if !found {
		return Result{}, lastErr
	}
	return best, nil
}
