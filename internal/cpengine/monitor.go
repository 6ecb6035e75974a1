package cpengine

import "sync/atomic"

// Monitor accumulates search-progress counters. Every Store carries
// one; callers (the CLI, tests) read it for structured logging instead
// of instrumenting the search loop themselves. Adapted from the
// teacher's SolverMonitor (fd_monitor.go) — same atomic-counter idiom,
// generalized from Sudoku/N-Queens search events to this engine's
// node/backtrack/propagation events.
type Monitor struct {
	NodesExplored    int64
	Backtracks       int64
	SolutionsFound   int64
	PropagationCount int64
}

func (m *Monitor) nodeExplored()   { atomic.AddInt64(&m.NodesExplored, 1) }
func (m *Monitor) backtrack()      { atomic.AddInt64(&m.Backtracks, 1) }
func (m *Monitor) solutionFound()  { atomic.AddInt64(&m.SolutionsFound, 1) }
func (m *Monitor) propagationRan() { atomic.AddInt64(&m.PropagationCount, 1) }

// Snapshot returns a point-in-time copy, safe to read while search
// continues on another goroutine (e.g. a parallel portfolio worker).
func (m *Monitor) Snapshot() Monitor {
	return Monitor{
		NodesExplored:    atomic.LoadInt64(&m.NodesExplored),
		Backtracks:       atomic.LoadInt64(&m.Backtracks),
		SolutionsFound:   atomic.LoadInt64(&m.SolutionsFound),
		PropagationCount: atomic.LoadInt64(&m.PropagationCount),
	}
}
