package types

import (
	"context"
	"iter"
)

// MoveSelector produces a lazy, finite sequence of moves.
//
// Moves is called once per step; the returned sequence must be restartable,
// i.e. a later call yields a fresh sequence for the then-current working
// solution. Ordering policy (original, random, filtered) belongs to the
// selector.
type MoveSelector interface {
	PhaseLifecycleListener

	// Moves returns the moves to evaluate in the current step.
	Moves() iter.Seq[Move]
}

// EntityPlacer produces the lazy, ordered sequence of placements used by a
// construction heuristic phase.
type EntityPlacer interface {
	PhaseLifecycleListener

	// Placements returns the placements of the phase. The sequence is pulled
	// one placement per step, after the previous step was committed.
	Placements() iter.Seq[*Placement]
}

// Acceptor decides whether a speculatively scored move stays eligible for
// selection in the current step.
//
// Implementations: hill climbing, late acceptance, simulated annealing,
// great deluge, tabu search and composites of these.
type Acceptor interface {
	PhaseLifecycleListener

	// IsAccepted is called exactly once per doable move, after scoring and
	// before the move is handed to the forager.
	IsAccepted(m *MoveScope) bool
}

// Forager collects the candidate moves of a step and picks the winner.
type Forager interface {
	PhaseLifecycleListener

	// AddMove records a scored candidate. Non-accepted moves may be ignored.
	AddMove(m *MoveScope)

	// IsQuitEarly reports whether scanning should stop now. It is checked
	// after every AddMove.
	IsQuitEarly() bool

	// PickMove returns the winning move of the step, or nil when nothing
	// qualified. It is called exactly once per step after scanning ends.
	//
	// Contract: the result is non-nil if and only if at least one accepted
	// move was added during the step.
	PickMove(st *StepScope) *MoveScope
}

// Termination decides when a phase must stop and reports progress.
type Termination interface {
	PhaseLifecycleListener

	// IsPhaseTerminated reports whether the phase must stop.
	IsPhaseTerminated(p *PhaseScope) bool

	// PhaseTimeGradient returns the progress through the phase budget in
	// [0,1]: 0.0 at phase start and 1.0 when the budget is exhausted. A
	// termination without a budget notion returns 0.
	PhaseTimeGradient(p *PhaseScope) float64
}

// BestSolutionRecaller remembers the best solution seen during solving.
//
// The core reports candidates; the recaller owns comparison and
// replacement. The core never mutates the best-solution snapshot.
type BestSolutionRecaller interface {
	// SolvingStarted resets the recaller with the starting working solution.
	SolvingStarted(s *SolverScope)

	// ProcessCandidate is invoked once per committed step.
	ProcessCandidate(st *StepScope)

	// Flush is invoked once per phase end.
	Flush(s *SolverScope)
}

// Yielder is the cooperative checkpoint of the step-scan loop.
//
// CheckYield is invoked once after every evaluated candidate move. It may
// block to let an external coordinator pause solving. A non-nil error stops
// the scan and is treated as phase termination.
type Yielder interface {
	CheckYield(ctx context.Context) error
}

// YielderFunc adapts a function to the Yielder interface.
type YielderFunc func(ctx context.Context) error

// CheckYield calls f(ctx).
func (f YielderFunc) CheckYield(ctx context.Context) error {
	return f(ctx)
}
