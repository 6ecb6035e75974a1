package cpengine

import "errors"

// Sentinel errors mirroring the teacher's FDStore error taxonomy
// (fd.go), distinguishing the backtrackable "fail" outcome from
// caller-side misuse, which is reported as a plain error at post time
// instead of a search-time fail (spec.md §7).
var (
	// ErrFail is returned by a Propagator (or produced internally by the
	// Store) when the current search node is inconsistent. The search
	// driver treats it as an ordinary signal to backtrack, not a crash.
	ErrFail = errors.New("cpengine: search node failed")

	// ErrDomainEmpty names the emptied-domain outcome. IntVar.RemoveValue
	// reports that outcome with Fail, which unwraps to ErrFail only; it
	// does not wrap ErrDomainEmpty.
	ErrDomainEmpty = errors.New("cpengine: domain emptied")

	// ErrInvalidValue is a caller error: the value is outside the
	// variable's declared range.
	ErrInvalidValue = errors.New("cpengine: value out of range")
)

// Fail wraps a reason into ErrFail so callers can match with
// errors.Is(err, ErrFail) while still seeing the specific cause via
// errors.Unwrap / %v formatting.
func Fail(reason string) error {
	return &failError{reason: reason}
}

type failError struct {
	reason string
}

func (e *failError) Error() string { return "cpengine: fail: " + e.reason }

func (e *failError) Unwrap() error { return ErrFail }
