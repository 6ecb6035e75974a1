package mssc

// Numerical constants of spec.md §6: epsilon guards against
// floating-point underestimation of a lower bound versus the incumbent
// upper bound, and integer scale factors keep Δ-objective / total-SS
// tie comparisons in the search strategy exact.
const (
	epsGen  = 5e-5
	epsCard = 5e-5
	epsFlow = 5e-3

	deltaObjectiveScale = 1000
	totalSSScale        = 100
)
