package phase

import (
	"iter"

	"github.com/arloliu/solvo/types"
)

// ConstructionHeuristic builds a solution one placement per step.
//
// Each step pulls the next placement from the EntityPlacer, evaluates every
// doable move of it and commits the best one (ties go to the first seen).
type ConstructionHeuristic struct {
	*Runner

	decider *constructionDecider
}

// NewConstructionHeuristic creates a construction heuristic phase.
//
// Parameters:
//   - placer: Source of placements (required)
//   - termination: Phase termination (nil runs until the placer is exhausted)
//
// Returns:
//   - *ConstructionHeuristic: Phase ready to be added to a solver
//   - error: types.ErrPlacerRequired when placer is nil
func NewConstructionHeuristic(placer types.EntityPlacer, termination types.Termination) (*ConstructionHeuristic, error) {
	if placer == nil {
		return nil, types.ErrPlacerRequired
	}

	d := &constructionDecider{placer: placer}
	r := NewRunner(types.PhaseConstructionHeuristic, d, termination, placer)
	d.runner = r

	return &ConstructionHeuristic{Runner: r, decider: d}, nil
}

type constructionDecider struct {
	runner *Runner
	placer types.EntityPlacer

	next func() (*types.Placement, bool)
	stop func()
}

var _ Stepper = (*constructionDecider)(nil)

func (d *constructionDecider) PhaseStarted(*types.PhaseScope) {
	d.next, d.stop = iter.Pull(d.placer.Placements())
}

func (d *constructionDecider) PhaseEnded(*types.PhaseScope) {
	if d.stop != nil {
		d.stop()
	}
	d.next, d.stop = nil, nil
}

func (d *constructionDecider) DecideNextStep(st *types.StepScope) error {
	p := st.Phase
	s := p.Solver
	director := s.Director
	log := logOf(s)

	placement, ok := d.next()
	if !ok {
		p.Outcome = types.PhaseOutcomeExhausted
		return nil
	}

	var best *types.MoveScope
	index := 0
	for move := range placement.Moves {
		ms := types.NewMoveScope(st, index, move)
		index++

		if !move.IsDoable(director) {
			log.Debug("move not doable, ignoring",
				"placement", placement.Name, "moveIndex", ms.MoveIndex, "move", move.String())
			continue
		}

		st.SelectedMoveCount++
		if err := director.DoAndProcessMove(move, s.AssertMoveScoreFromScratch, func(sc types.Score) {
			ms.Score = sc
		}); err != nil {
			return err
		}
		if s.AssertExpectedUndoMoveScore {
			if err := director.AssertExpectedUndoMoveScore(move, p.LastCompletedStepScore); err != nil {
				return err
			}
		}

		ms.Accepted = true
		st.AcceptedMoveCount++
		if best == nil || types.ScoreBetter(ms.Score, best.Score) {
			best = ms
		}

		if d.runner.Checkpoint(st) {
			log.Debug("placement scan terminated",
				"placement", placement.Name, "stepIndex", st.StepIndex, "moveIndex", ms.MoveIndex)
			break
		}
	}

	// Every doable move is accepted, so best is nil only when none was selected.
	if best == nil {
		return d.runner.DiagnoseNoStep(st)
	}

	st.Step = best.Move
	st.StepString = placement.Name + ": " + best.Move.String()
	st.Score = best.Score

	return nil
}
