package types

import (
	"iter"
	"slices"
)

// Move is an atomic, reversible edit to the working solution.
//
// Moves are created lazily by a MoveSelector or EntityPlacer. During one step
// a move may be applied and undone speculatively many times; at most one move
// per step is applied permanently.
//
// Invariant: applying a move and then the move returned by Do restores
// identical variable assignments and an identical score.
type Move interface {
	// IsDoable reports whether the move can legally be applied to the current
	// working solution.
	IsDoable(d ScoreDirector) bool

	// Do applies the move to the working solution owned by d and returns the
	// exact inverse move.
	Do(d ScoreDirector) Move

	// String returns a short description used in diagnostics.
	String() string
}

// TabuMove is implemented by moves that expose the planning objects they
// touch. Tabu acceptors use these keys; moves without them fall back to
// their String() representation.
type TabuMove interface {
	Move

	// TabuKeys returns the objects that become tabu when this move is the step.
	TabuKeys() []any
}

// Placement is a named group of candidate moves that all target the same
// yet-unassigned planning entity.
//
// A placement is emitted once by an EntityPlacer and consumed once by the
// construction heuristic decider.
type Placement struct {
	// Name identifies the entity being placed, used in diagnostics.
	Name string

	// Moves yields the candidate moves in evaluation order.
	Moves iter.Seq[Move]
}

// NewPlacement creates a placement over a fixed list of moves.
//
// Parameters:
//   - name: Entity name for diagnostics
//   - moves: Candidate moves in evaluation order
//
// Returns:
//   - *Placement: Placement yielding the given moves
func NewPlacement(name string, moves ...Move) *Placement {
	return &Placement{Name: name, Moves: slices.Values(moves)}
}

// String returns the placement name.
func (p *Placement) String() string {
	return p.Name
}
