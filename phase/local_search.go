package phase

import (
	"github.com/arloliu/solvo/types"
)

// LocalSearch improves the working solution step by step.
//
// Each step scans the MoveSelector, scores every doable move speculatively,
// filters it through the Acceptor and lets the Forager pick the winner,
// which is then applied permanently.
type LocalSearch struct {
	*Runner

	decider *localSearchDecider
}

// NewLocalSearch creates a local search phase.
//
// Parameters:
//   - selector: Move source (required)
//   - acceptor: Acceptance policy (required)
//   - forager: Selection policy (required)
//   - termination: Phase termination (nil runs until no move is accepted)
//
// Returns:
//   - *LocalSearch: Phase ready to be added to a solver
//   - error: Sentinel error naming the missing component
//
// Example:
//
//	ls, err := phase.NewLocalSearch(sel, acceptor.NewLateAcceptance(400),
//	    forager.NewAccepted(forager.Config{AcceptedCountLimit: 1}),
//	    termination.NewStepCountLimit(10_000))
func NewLocalSearch(
	selector types.MoveSelector,
	acceptor types.Acceptor,
	forager types.Forager,
	termination types.Termination,
) (*LocalSearch, error) {
	switch {
	case selector == nil:
		return nil, types.ErrSelectorRequired
	case acceptor == nil:
		return nil, types.ErrAcceptorRequired
	case forager == nil:
		return nil, types.ErrForagerRequired
	}

	d := &localSearchDecider{selector: selector, acceptor: acceptor, forager: forager}
	r := NewRunner(types.PhaseLocalSearch, d, termination, selector, acceptor, forager)
	d.runner = r

	return &LocalSearch{Runner: r, decider: d}, nil
}

type localSearchDecider struct {
	runner   *Runner
	selector types.MoveSelector
	acceptor types.Acceptor
	forager  types.Forager
}

var _ Stepper = (*localSearchDecider)(nil)

func (d *localSearchDecider) PhaseStarted(*types.PhaseScope) {}

func (d *localSearchDecider) PhaseEnded(*types.PhaseScope) {}

func (d *localSearchDecider) DecideNextStep(st *types.StepScope) error {
	s := st.Phase.Solver
	director := s.Director
	log := logOf(s)

	director.SetSpeculative(true)
	index := 0
	for move := range d.selector.Moves() {
		ms := types.NewMoveScope(st, index, move)
		index++

		if !move.IsDoable(director) {
			log.Debug("move not doable, ignoring", "moveIndex", ms.MoveIndex, "move", move.String())
		} else {
			if err := d.doMove(ms); err != nil {
				director.SetSpeculative(false)
				return err
			}
			if d.forager.IsQuitEarly() {
				break
			}
		}

		if d.runner.Checkpoint(st) {
			break
		}
	}
	director.SetSpeculative(false)

	picked := d.forager.PickMove(st)
	if picked == nil {
		return d.runner.DiagnoseNoStep(st)
	}

	st.Step = picked.Move
	st.StepString = picked.Move.String()
	st.Score = picked.Score

	return nil
}

// doMove scores a doable move speculatively and runs it through the
// acceptor and the forager.
func (d *localSearchDecider) doMove(ms *types.MoveScope) error {
	st := ms.Step
	p := st.Phase
	s := p.Solver
	director := s.Director

	st.SelectedMoveCount++
	if err := director.DoAndProcessMove(ms.Move, s.AssertMoveScoreFromScratch, func(sc types.Score) {
		ms.Score = sc
		ms.Accepted = d.acceptor.IsAccepted(ms)
		if ms.Accepted {
			st.AcceptedMoveCount++
		}
		d.forager.AddMove(ms)
	}); err != nil {
		return err
	}
	if s.AssertExpectedUndoMoveScore {
		if err := director.AssertExpectedUndoMoveScore(ms.Move, p.LastCompletedStepScore); err != nil {
			return err
		}
	}

	logOf(s).Debug("move evaluated",
		"moveIndex", ms.MoveIndex,
		"score", scoreString(ms.Score),
		"accepted", ms.Accepted,
		"move", ms.Move.String())

	return nil
}
