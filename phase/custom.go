package phase

import (
	"github.com/arloliu/solvo/types"
)

// Custom is a greedy hill climber.
//
// Each step applies, scores and undoes every move of the selector, then
// commits the first move with the strictly highest score. The phase ends
// when that score does not strictly exceed the best score of the run.
//
// The stop rule compares against the global best score, not the last step
// score, so a phase that starts below the best score may end before it
// reaches it, and a plateau of equal-best moves ends the phase.
type Custom struct {
	*Runner

	decider *customDecider
}

// NewCustom creates a custom phase.
//
// Parameters:
//   - selector: Move source (required)
//   - termination: Phase termination (nil runs until a local optimum)
//
// Returns:
//   - *Custom: Phase ready to be added to a solver
//   - error: types.ErrSelectorRequired when selector is nil
func NewCustom(selector types.MoveSelector, termination types.Termination) (*Custom, error) {
	if selector == nil {
		return nil, types.ErrSelectorRequired
	}

	d := &customDecider{selector: selector}
	r := NewRunner(types.PhaseCustom, d, termination, selector)
	d.runner = r

	return &Custom{Runner: r, decider: d}, nil
}

type customDecider struct {
	runner   *Runner
	selector types.MoveSelector
}

var _ Stepper = (*customDecider)(nil)

func (d *customDecider) PhaseStarted(*types.PhaseScope) {}

func (d *customDecider) PhaseEnded(*types.PhaseScope) {}

func (d *customDecider) DecideNextStep(st *types.StepScope) error {
	p := st.Phase
	s := p.Solver
	director := s.Director
	log := logOf(s)

	var best *types.MoveScope
	index := 0
	for move := range d.selector.Moves() {
		ms := types.NewMoveScope(st, index, move)
		index++

		st.SelectedMoveCount++
		if err := director.DoAndProcessMove(move, s.AssertMoveScoreFromScratch, func(sc types.Score) {
			ms.Score = sc
		}); err != nil {
			return err
		}
		if best == nil || types.ScoreBetter(ms.Score, best.Score) {
			best = ms
		}

		if d.runner.YieldOnly(st) {
			p.Outcome = types.PhaseOutcomeTerminated
			log.Debug("custom step interrupted by yield checkpoint", "stepIndex", st.StepIndex)

			return nil
		}
	}

	if best == nil {
		p.Outcome = types.PhaseOutcomeNoDoableMove
		log.Warn("custom phase has no moves, terminating phase early",
			"phaseIndex", p.PhaseIndex, "stepIndex", st.StepIndex)

		return nil
	}

	st.Score = best.Score
	if !types.ScoreBetter(best.Score, s.BestScore) {
		p.Outcome = types.PhaseOutcomeLocalOptimum
		log.Debug("no move improves the best score",
			"stepIndex", st.StepIndex,
			"maxScore", scoreString(best.Score),
			"bestScore", scoreString(s.BestScore))

		return nil
	}

	best.Accepted = true
	st.AcceptedMoveCount = 1
	st.Step = best.Move
	st.StepString = best.Move.String()

	return nil
}
