package cpengine

// Reversible wraps one scalar (or small aggregate, e.g. a slice treated
// as copy-on-write) of arbitrary type as a trailed value, for
// propagators that own reversible state beyond the variables themselves
// — W-FLOW's destination/hasFlow/varWasFixed/lb_global scratch and
// VPB's alpha/beta/gamma pointers (spec.md §3, §4.1). Generalizes the
// teacher's trail-append-a-snapshot pattern (fd.go's FDChange, fd_custom.go's
// store.trail append) from "domain bitset" to "any value a constraint
// needs to survive backtracking".
type Reversible[T any] struct {
	store *Store
	value T
}

// NewReversible creates a reversible scalar owned by store, initialized
// to initial. Constraints call this once at post time.
func NewReversible[T any](store *Store, initial T) *Reversible[T] {
	return &Reversible[T]{store: store, value: initial}
}

// Get returns the current value.
func (r *Reversible[T]) Get() T { return r.value }

// Set replaces the value, trailing the previous one so a later Undo
// restores it. Callers that mutate composite values (slices, maps)
// must pass a new value rather than mutating the old one in place —
// the old value must remain intact in memory for the trail to restore.
func (r *Reversible[T]) Set(v T) {
	old := r.value
	r.store.record(func() { r.value = old })
	r.value = v
}
