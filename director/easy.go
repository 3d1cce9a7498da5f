// Package director provides a reference ScoreDirector.
//
// Easy recalculates the full score after every change. It is intended for
// small problems, prototypes and tests; production problems plug in an
// incremental director implementing types.ScoreDirector.
package director

import (
	"fmt"

	"github.com/arloliu/solvo/types"
)

// Calculator calculates the score of a solution from scratch.
type Calculator[S any] func(solution S) types.Score

// Cloner deep-copies a solution.
type Cloner[S any] func(solution S) S

// ConstraintMatcher breaks the score of a solution down per constraint.
type ConstraintMatcher[S any] func(solution S) map[string]types.ConstraintMatchTotal

// Easy is a ScoreDirector that scores the working solution from scratch.
//
// Moves reach the working solution through WorkingSolution (or the typed
// helper Solution) and mutate it in place.
type Easy[S any] struct {
	solution  S
	calculate Calculator[S]
	clone     Cloner[S]
	matcher   ConstraintMatcher[S]

	speculative      bool
	evaluating       bool
	calcCount        int64
	speculativeCalcs int64
}

var _ types.ScoreDirector = (*Easy[int])(nil)

// EasyOption configures an Easy director.
type EasyOption[S any] func(*Easy[S])

// WithConstraintMatcher enables constraint match totals.
func WithConstraintMatcher[S any](matcher ConstraintMatcher[S]) EasyOption[S] {
	return func(e *Easy[S]) {
		e.matcher = matcher
	}
}

// NewEasy creates an Easy director owning solution.
//
// Parameters:
//   - solution: Working solution (typically a pointer type mutated by moves)
//   - calculate: From-scratch score calculator
//   - clone: Deep copy used for best-solution snapshots; a snapshot must
//     not share any state that moves mutate
//   - opts: Optional constraint matcher
//
// Returns:
//   - *Easy[S]: Initialized director
//   - error: types.ErrCalculatorRequired or types.ErrClonerRequired
//
// Example:
//
//	d, err := director.NewEasy(board, scoreBoard, (*Board).Clone)
func NewEasy[S any](solution S, calculate Calculator[S], clone Cloner[S], opts ...EasyOption[S]) (*Easy[S], error) {
	if calculate == nil {
		return nil, types.ErrCalculatorRequired
	}
	if clone == nil {
		return nil, types.ErrClonerRequired
	}

	e := &Easy[S]{
		solution:  solution,
		calculate: calculate,
		clone:     clone,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Solution returns the typed working solution of a director created by NewEasy.
//
// Parameters:
//   - d: Score director passed to Move.Do / Move.IsDoable
//
// Returns:
//   - S: Working solution
//   - bool: false when d does not own an S
func Solution[S any](d types.ScoreDirector) (S, bool) {
	s, ok := d.WorkingSolution().(S)

	return s, ok
}

// SetSpeculative toggles speculative mode.
func (e *Easy[S]) SetSpeculative(speculative bool) {
	e.speculative = speculative
}

// IsSpeculative reports whether speculative mode is on.
func (e *Easy[S]) IsSpeculative() bool {
	return e.speculative
}

// DoAndProcessMove applies move, scores it, calls onScored and undoes it.
func (e *Easy[S]) DoAndProcessMove(move types.Move, assertFromScratch bool, onScored func(types.Score)) error {
	e.evaluating = true
	defer func() { e.evaluating = false }()

	undo := move.Do(e)
	score := e.CalculateScore()

	var err error
	if assertFromScratch {
		err = e.AssertWorkingScoreFromScratch(score, move.String())
	}
	if err == nil {
		onScored(score)
	}
	undo.Do(e)

	return err
}

// IsEvaluating reports whether a DoAndProcessMove call is in progress, i.e.
// whether a move being applied right now will be undone again.
func (e *Easy[S]) IsEvaluating() bool {
	return e.evaluating
}

// CalculateScore scores the working solution from scratch.
func (e *Easy[S]) CalculateScore() types.Score {
	e.calcCount++
	if e.speculative {
		e.speculativeCalcs++
	}

	return e.calculate(e.solution)
}

// CalculationCount returns the number of CalculateScore calls.
func (e *Easy[S]) CalculationCount() int64 {
	return e.calcCount
}

// SpeculativeCalculationCount returns the calculations done in speculative mode.
func (e *Easy[S]) SpeculativeCalculationCount() int64 {
	return e.speculativeCalcs
}

// ConstraintMatchEnabled reports whether a constraint matcher is configured.
func (e *Easy[S]) ConstraintMatchEnabled() bool {
	return e.matcher != nil
}

// ConstraintMatchTotals returns the per-constraint totals, or nil when disabled.
func (e *Easy[S]) ConstraintMatchTotals() map[string]types.ConstraintMatchTotal {
	if e.matcher == nil {
		return nil
	}

	return e.matcher(e.solution)
}

// AssertExpectedUndoMoveScore verifies the working score equals before.
func (e *Easy[S]) AssertExpectedUndoMoveScore(move types.Move, before types.Score) error {
	after := e.calculate(e.solution)
	if before != nil && after.Compare(before) != 0 {
		return fmt.Errorf("%w: undo of move (%s) resulted in score (%s) instead of (%s)",
			types.ErrUndoMoveCorruption, move, after, before)
	}

	return nil
}

// AssertWorkingScoreFromScratch verifies expected against a fresh calculation.
func (e *Easy[S]) AssertWorkingScoreFromScratch(expected types.Score, completedAction string) error {
	actual := e.calculate(e.solution)
	if expected != nil && actual.Compare(expected) != 0 {
		return fmt.Errorf("%w: score (%s) after (%s) differs from scratch score (%s)",
			types.ErrScoreCorruption, expected, completedAction, actual)
	}

	return nil
}

// WorkingSolution returns the working solution.
func (e *Easy[S]) WorkingSolution() any {
	return e.solution
}

// CloneWorkingSolution returns a deep copy made by the cloner.
func (e *Easy[S]) CloneWorkingSolution() any {
	return e.clone(e.solution)
}
