package types

// ScoreDirector owns the working solution and calculates its score.
//
// The scoring engine itself is an external collaborator; the phases only use
// the operations below. See the director package for a reference
// implementation.
//
// Implementations are not required to be safe for concurrent use: a solver
// run uses its director from a single goroutine.
type ScoreDirector interface {
	// SetSpeculative toggles the "all changes will be undone before the step
	// ends" mode. While set, the director may use cheaper delta bookkeeping
	// because no permanent commit is imminent.
	SetSpeculative(speculative bool)

	// DoAndProcessMove applies the move, calculates the resulting score,
	// invokes onScored with it and undoes the move again.
	//
	// Parameters:
	//   - move: Doable move to evaluate
	//   - assertFromScratch: Recalculate the score from scratch and report corruption
	//   - onScored: Callback receiving the score of the solution with the move applied
	//
	// Returns:
	//   - error: ErrScoreCorruption when assertFromScratch detects a mismatch
	DoAndProcessMove(move Move, assertFromScratch bool, onScored func(Score)) error

	// CalculateScore returns the score of the working solution.
	CalculateScore() Score

	// CalculationCount returns the number of score calculations done so far.
	CalculationCount() int64

	// ConstraintMatchEnabled reports whether ConstraintMatchTotals is supported.
	ConstraintMatchEnabled() bool

	// ConstraintMatchTotals returns the per-constraint totals for the working solution.
	ConstraintMatchTotals() map[string]ConstraintMatchTotal

	// AssertExpectedUndoMoveScore verifies that, after move was evaluated and
	// undone, the working score equals before.
	//
	// Returns:
	//   - error: ErrUndoMoveCorruption on mismatch
	AssertExpectedUndoMoveScore(move Move, before Score) error

	// AssertWorkingScoreFromScratch verifies that expected equals the score of
	// the working solution calculated from scratch.
	//
	// Parameters:
	//   - expected: Score predicted by the phase
	//   - completedAction: Description of what produced the score, for the error message
	//
	// Returns:
	//   - error: ErrScoreCorruption on mismatch
	AssertWorkingScoreFromScratch(expected Score, completedAction string) error

	// WorkingSolution returns the solution the director mutates.
	WorkingSolution() any

	// CloneWorkingSolution returns a deep copy of the working solution.
	CloneWorkingSolution() any
}
