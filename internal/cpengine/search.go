package cpengine

import "context"

// BranchStrategy picks the next binary branch of spec.md §4.6: assign
// xi = j, or remove j from dom(xi). Returning ok=false means every
// variable is already fixed — the current state is a complete
// assignment and the search records it as a solution.
type BranchStrategy interface {
	SelectBranch(store *Store) (varID, value int, ok bool)
}

// Search runs an iterative depth-first binary-branching search, adapted
// from the teacher's DFSSearch.Search (search.go): an explicit frame
// stack instead of recursion, snapshot/undo at every choice point. Each
// frame tries "xi = j" before "xi != j", matching spec.md §4.6's
// left-to-right convention.
//
// onSolution is called with the store positioned at a complete,
// propagated assignment; returning stop=true ends the search early
// (e.g. once the caller only wants the first / an any-optimal solution
// under a node budget). A non-nil error from onSolution aborts the
// search and is returned from Search.
func Search(ctx context.Context, store *Store, strategy BranchStrategy, onSolution func(store *Store) (stop bool, err error)) error {
	if err := store.Propagate(); err != nil {
		return err
	}

	type frame struct {
		mark  int // trail snapshot taken when this frame was pushed
		varID int
		value int
		phase int // 0: try xi=j next, 1: try xi!=j next, 2: exhausted
	}

	pushChild := func(stack []frame) ([]frame, bool, error) {
		varID, value, ok := strategy.SelectBranch(store)
		if !ok {
			store.monitor.solutionFound()
			stop, err := onSolution(store)
			return stack, stop, err
		}
		store.monitor.nodeExplored()
		stack = append(stack, frame{mark: store.Snapshot(), varID: varID, value: value, phase: 0})
		return stack, false, nil
	}

	var stack []frame
	stack, stop, err := pushChild(stack)
	if err != nil || stop {
		return err
	}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f := &stack[len(stack)-1]

		switch f.phase {
		case 0:
			f.phase = 1
			attemptMark := store.Snapshot()
			branchErr := store.IntVar(f.varID).Fix(f.value)
			if branchErr == nil {
				branchErr = store.Propagate()
			}
			if branchErr == nil {
				var childStop bool
				stack, childStop, err = pushChild(stack)
				if err != nil {
					return err
				}
				if childStop {
					return nil
				}
				continue
			}
			store.Undo(attemptMark)
		case 1:
			f.phase = 2
			store.Undo(f.mark)
			attemptMark := store.Snapshot()
			branchErr := store.IntVar(f.varID).RemoveValue(f.value)
			if branchErr == nil {
				branchErr = store.Propagate()
			}
			if branchErr == nil {
				var childStop bool
				stack, childStop, err = pushChild(stack)
				if err != nil {
					return err
				}
				if childStop {
					return nil
				}
				continue
			}
			store.Undo(attemptMark)
		default:
			store.monitor.backtrack()
			store.Undo(f.mark)
			stack = stack[:len(stack)-1]
		}
	}

	return nil
}
