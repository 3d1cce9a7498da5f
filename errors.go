package solvo

import "github.com/arloliu/solvo/types"

// Sentinel errors returned by the Solver.
//
// They are re-exported from the types package so callers can check them with
// errors.Is without importing types.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrScoreDirectorRequired is returned when the score director is nil.
	ErrScoreDirectorRequired = types.ErrScoreDirectorRequired

	// ErrNoPhases is returned when a solver is built without any phase.
	ErrNoPhases = types.ErrNoPhases

	// ErrAlreadySolving is returned when Solve is called while a run is in progress.
	ErrAlreadySolving = types.ErrAlreadySolving

	// ErrNoSolvers is returned when a portfolio has no solvers.
	ErrNoSolvers = types.ErrNoSolvers

	// ErrStepNotPicked is the fatal inconsistency of a step that selected moves without picking one.
	ErrStepNotPicked = types.ErrStepNotPicked

	// ErrScoreCorruption is returned by assertion modes when a score differs from its from-scratch value.
	ErrScoreCorruption = types.ErrScoreCorruption

	// ErrUndoMoveCorruption is returned by assertion modes when an undo move does not restore the score.
	ErrUndoMoveCorruption = types.ErrUndoMoveCorruption
)
