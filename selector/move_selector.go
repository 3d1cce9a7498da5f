package selector

import (
	"iter"
	"slices"

	"github.com/arloliu/solvo/types"
)

// Static yields the same fixed list of moves every step.
type Static struct {
	types.NopLifecycle

	moves []types.Move
}

var _ types.MoveSelector = (*Static)(nil)

// NewStatic creates a selector over a fixed move list.
func NewStatic(moves ...types.Move) *Static {
	return &Static{moves: moves}
}

// Moves yields the moves in list order.
func (s *Static) Moves() iter.Seq[types.Move] {
	return slices.Values(s.moves)
}

// MoveFunc generates the moves of one step from the working solution.
type MoveFunc func(d types.ScoreDirector) iter.Seq[types.Move]

// Func yields the moves generated by a function for the current working solution.
type Func struct {
	types.NopLifecycle

	fn       MoveFunc
	director types.ScoreDirector
}

var _ types.MoveSelector = (*Func)(nil)

// NewFunc creates a selector over a move generator.
//
// Example:
//
//	sel := selector.NewFunc(func(d types.ScoreDirector) iter.Seq[types.Move] {
//	    board, _ := director.Solution[*Board](d)
//	    return board.ChangeMoves()
//	})
func NewFunc(fn MoveFunc) *Func {
	return &Func{fn: fn}
}

// SolvingStarted captures the score director of the run.
func (s *Func) SolvingStarted(scope *types.SolverScope) {
	s.director = scope.Director
}

// PhaseStarted captures the score director of the run.
func (s *Func) PhaseStarted(p *types.PhaseScope) {
	s.director = p.Director()
}

// SolvingEnded releases the score director.
func (s *Func) SolvingEnded(*types.SolverScope) {
	s.director = nil
}

// Moves yields the generated moves.
func (s *Func) Moves() iter.Seq[types.Move] {
	if s.director == nil {
		return func(func(types.Move) bool) {}
	}

	return s.fn(s.director)
}

// Shuffled yields the moves of a nested selector in a random order that
// changes every step.
//
// The nested sequence is drained into a slice at the start of each scan and
// shuffled with the seeded random source of the run.
type Shuffled struct {
	inner types.MoveSelector
	step  *types.StepScope
}

var _ types.MoveSelector = (*Shuffled)(nil)

// NewShuffled wraps a selector with per-step shuffling.
func NewShuffled(inner types.MoveSelector) *Shuffled {
	return &Shuffled{inner: inner}
}

// SolvingStarted forwards the call.
func (s *Shuffled) SolvingStarted(scope *types.SolverScope) { s.inner.SolvingStarted(scope) }

// PhaseStarted forwards the call.
func (s *Shuffled) PhaseStarted(p *types.PhaseScope) { s.inner.PhaseStarted(p) }

// StepStarted remembers the step for its random source and forwards the call.
func (s *Shuffled) StepStarted(st *types.StepScope) {
	s.step = st
	s.inner.StepStarted(st)
}

// StepEnded forwards the call.
func (s *Shuffled) StepEnded(st *types.StepScope) {
	s.inner.StepEnded(st)
	s.step = nil
}

// PhaseEnded forwards the call.
func (s *Shuffled) PhaseEnded(p *types.PhaseScope) {
	s.step = nil
	s.inner.PhaseEnded(p)
}

// SolvingEnded forwards the call.
func (s *Shuffled) SolvingEnded(scope *types.SolverScope) { s.inner.SolvingEnded(scope) }

// Moves yields the nested moves in shuffled order.
func (s *Shuffled) Moves() iter.Seq[types.Move] {
	return func(yield func(types.Move) bool) {
		moves := slices.Collect(s.inner.Moves())
		if s.step != nil && s.step.Rand() != nil {
			s.step.Rand().Shuffle(len(moves), func(i, j int) {
				moves[i], moves[j] = moves[j], moves[i]
			})
		}
		for _, m := range moves {
			if !yield(m) {
				return
			}
		}
	}
}
