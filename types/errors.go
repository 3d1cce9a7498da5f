package types

import "errors"

// Sentinel errors for the solvo library.
//
// Use errors.Is() to check for these conditions. Components wrap them with
// context using fmt.Errorf("%w: ...", err) so the sentinel identity survives.

// Solver errors - Public API errors returned by the Solver.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrScoreDirectorRequired is returned when the score director is nil.
	ErrScoreDirectorRequired = errors.New("score director is required")

	// ErrNoPhases is returned when a solver is built without any phase.
	ErrNoPhases = errors.New("at least one phase is required")

	// ErrAlreadySolving is returned when Solve is called on a solver that is still running.
	ErrAlreadySolving = errors.New("solver already solving")

	// ErrNoSolvers is returned when a portfolio is run without solvers.
	ErrNoSolvers = errors.New("no solvers to run")
)

// Phase errors - Errors raised by the phase step loop.
var (
	// ErrStepNotPicked is the fatal inconsistency raised when a step selected
	// (or accepted) moves but the decider failed to pick one of them.
	ErrStepNotPicked = errors.New("step has selected moves but failed to pick a next step")

	// ErrPhaseAlreadyRunning is returned when a phase is re-entered while solving.
	ErrPhaseAlreadyRunning = errors.New("phase already running")

	// ErrSelectorRequired is returned when a phase is built without a move selector.
	ErrSelectorRequired = errors.New("move selector is required")

	// ErrPlacerRequired is returned when a construction phase is built without a placer.
	ErrPlacerRequired = errors.New("entity placer is required")

	// ErrAcceptorRequired is returned when a local search phase is built without an acceptor.
	ErrAcceptorRequired = errors.New("acceptor is required")

	// ErrForagerRequired is returned when a local search phase is built without a forager.
	ErrForagerRequired = errors.New("forager is required")
)

// Director errors - Errors raised when building a score director.
var (
	// ErrCalculatorRequired is returned when a director is built without a score calculator.
	ErrCalculatorRequired = errors.New("score calculator is required")

	// ErrClonerRequired is returned when a director is built without a
	// solution cloner. Best-solution snapshots must not share state with
	// the working solution.
	ErrClonerRequired = errors.New("solution cloner is required")
)

// Assertion errors - Raised only when an assertion environment mode is enabled.
var (
	// ErrScoreCorruption is returned when an incrementally calculated score
	// differs from the score calculated from scratch.
	ErrScoreCorruption = errors.New("score corruption")

	// ErrUndoMoveCorruption is returned when undoing a move does not restore
	// the score that was observed before the move was done.
	ErrUndoMoveCorruption = errors.New("undo move corruption")
)

// Publisher errors - Errors raised by best-solution event sinks.
var (
	// ErrPublishFailed is returned when publishing a best-solution event fails.
	ErrPublishFailed = errors.New("failed to publish best solution event")

	// ErrNATSConnectionRequired is returned when a NATS connection is nil.
	ErrNATSConnectionRequired = errors.New("NATS connection is required")
)
