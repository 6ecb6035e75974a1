package mssc

import "errors"

// ErrTargetRequired is a caller error (spec.md §7): W-CARD and W-FLOW
// both exploit fixed target cardinalities and cannot be posted against
// an Instance that doesn't supply Target.
var ErrTargetRequired = errors.New("mssc: target cardinalities required for this constraint")

// ErrNoVariants is a caller error: SolveParallel needs at least one
// SolveOptions variant to run.
var ErrNoVariants = errors.New("mssc: no search variants given to SolveParallel")
