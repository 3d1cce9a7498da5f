package types

// PhaseType identifies the algorithm a phase runs.
type PhaseType int

const (
	// PhaseConstructionHeuristic builds an initial solution placement by placement.
	PhaseConstructionHeuristic PhaseType = iota

	// PhaseLocalSearch improves a solution with acceptor and forager policies.
	PhaseLocalSearch

	// PhaseCustom runs the simplified strict-improvement hill climber.
	PhaseCustom
)

// String returns the string representation of the phase type.
func (t PhaseType) String() string {
	switch t {
	case PhaseConstructionHeuristic:
		return "ConstructionHeuristic"
	case PhaseLocalSearch:
		return "LocalSearch"
	case PhaseCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// PhaseState represents the lifecycle state of a phase runner.
//
// A runner progresses through:
//
//	PhaseStateIdle → PhaseStateStarted → PhaseStateStepping → PhaseStateEnded
//
// and returns to PhaseStateIdle when the next solve begins.
type PhaseState int

const (
	// PhaseStateIdle indicates the phase is not running.
	PhaseStateIdle PhaseState = iota

	// PhaseStateStarted indicates PhaseStarted callbacks have run.
	PhaseStateStarted

	// PhaseStateStepping indicates the step loop is running.
	PhaseStateStepping

	// PhaseStateEnded indicates PhaseEnded callbacks have run.
	PhaseStateEnded
)

// String returns the string representation of the phase state.
func (s PhaseState) String() string {
	switch s {
	case PhaseStateIdle:
		return "Idle"
	case PhaseStateStarted:
		return "Started"
	case PhaseStateStepping:
		return "Stepping"
	case PhaseStateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// PhaseOutcome describes why a phase stopped.
type PhaseOutcome int

const (
	// PhaseOutcomeExhausted indicates the move or placement source ran dry.
	PhaseOutcomeExhausted PhaseOutcome = iota

	// PhaseOutcomeTerminated indicates the termination predicate fired.
	PhaseOutcomeTerminated

	// PhaseOutcomeNoDoableMove indicates a step found no doable move (graceful degradation).
	PhaseOutcomeNoDoableMove

	// PhaseOutcomeLocalOptimum indicates the custom phase found no strict improvement.
	PhaseOutcomeLocalOptimum

	// PhaseOutcomeFailed indicates a fatal inconsistency aborted the phase.
	PhaseOutcomeFailed
)

// String returns the string representation of the phase outcome.
func (o PhaseOutcome) String() string {
	switch o {
	case PhaseOutcomeExhausted:
		return "exhausted"
	case PhaseOutcomeTerminated:
		return "terminated"
	case PhaseOutcomeNoDoableMove:
		return "no_doable_move"
	case PhaseOutcomeLocalOptimum:
		return "local_optimum"
	case PhaseOutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
