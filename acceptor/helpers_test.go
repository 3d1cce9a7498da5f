package acceptor

import (
	"context"
	"math/rand/v2"

	"github.com/arloliu/solvo/internal/testutil"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/types"
)

// scopes is a minimal solver/phase scope chain for driving acceptors by hand.
type scopes struct {
	solver *types.SolverScope
	phase  *types.PhaseScope
	step   *types.StepScope
}

func newScopes(starting int64) *scopes {
	d, _ := testutil.NewScriptedDirector(starting)
	s := types.NewSolverScope(context.Background(), "acceptor-test", d, rand.New(rand.NewPCG(7, 11)))
	s.BestScore = score.Simple(starting)
	p := types.NewPhaseScope(s, 0, types.PhaseLocalSearch)

	return &scopes{solver: s, phase: p}
}

// startStep begins the next step at the given time gradient.
func (sc *scopes) startStep(a types.Acceptor, gradient float64) {
	sc.step = types.NewStepScope(sc.phase)
	sc.step.TimeGradient = gradient
	a.StepStarted(sc.step)
}

// endStep commits a step with the given move and score.
func (sc *scopes) endStep(a types.Acceptor, move types.Move, stepScore int64) {
	sc.step.Step = move
	sc.step.Score = score.Simple(stepScore)
	if types.ScoreBetter(sc.step.Score, sc.solver.BestScore) {
		sc.solver.BestScore = sc.step.Score
	}
	a.StepEnded(sc.step)
	sc.phase.CompleteStep(sc.step)
	sc.phase.NextStepIndex++
}

func (sc *scopes) move(m types.Move, moveScore int64) *types.MoveScope {
	ms := types.NewMoveScope(sc.step, 0, m)
	ms.Score = score.Simple(moveScore)

	return ms
}

func (sc *scopes) accepts(a types.Acceptor, moveScore int64) bool {
	return a.IsAccepted(sc.move(testutil.Move("m", moveScore), moveScore))
}
