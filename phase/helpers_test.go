package phase_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/arloliu/solvo/internal/logger"
	"github.com/arloliu/solvo/internal/recall"
	"github.com/arloliu/solvo/phase"
	"github.com/arloliu/solvo/types"
)

// newSolverScope creates a solver scope with a test logger and a started recaller.
func newSolverScope(t *testing.T, d types.ScoreDirector) (*types.SolverScope, *logger.TestLogger) {
	t.Helper()

	s := types.NewSolverScope(context.Background(), "run-test", d, rand.New(rand.NewPCG(1, 2)))
	log := logger.NewTest(t)
	s.Logger = log
	s.Recaller = recall.New(recall.WithLogger(log))
	s.Recaller.SolvingStarted(s)

	return s, log
}

// runPhase runs a single phase the way the solver does.
func runPhase(s *types.SolverScope, ph phase.Phase) (types.PhaseSummary, error) {
	ph.SolvingStarted(s)
	defer ph.SolvingEnded(s)

	return ph.Solve(s, 0)
}

// acceptorFunc adapts a function to types.Acceptor.
type acceptorFunc struct {
	types.NopLifecycle

	fn func(m *types.MoveScope) bool
}

func (a *acceptorFunc) IsAccepted(m *types.MoveScope) bool { return a.fn(m) }

func acceptAll() *acceptorFunc {
	return &acceptorFunc{fn: func(*types.MoveScope) bool { return true }}
}

// nilForager accepts moves but never picks one.
type nilForager struct {
	types.NopLifecycle
}

func (nilForager) AddMove(*types.MoveScope)                   {}
func (nilForager) IsQuitEarly() bool                          { return false }
func (nilForager) PickMove(*types.StepScope) *types.MoveScope { return nil }

// scriptedTermination reports the given gradients in turn and terminates
// after one step per gradient.
type scriptedTermination struct {
	types.NopLifecycle

	gradients []float64
	calls     int
}

func (t *scriptedTermination) IsPhaseTerminated(p *types.PhaseScope) bool {
	return p.NextStepIndex >= len(t.gradients)
}

func (t *scriptedTermination) PhaseTimeGradient(*types.PhaseScope) float64 {
	g := t.gradients[min(t.calls, len(t.gradients)-1)]
	t.calls++

	return g
}

// nopMetrics is embedded by metrics stubs that override a few methods.
type nopMetrics struct{}

func (nopMetrics) RecordSolvingDuration(float64, string)                {}
func (nopMetrics) RecordBestScoreImproved(types.PhaseType, []float64)   {}
func (nopMetrics) RecordBestSolutionEventDropped()                      {}
func (nopMetrics) RecordPhaseDuration(types.PhaseType, string, float64) {}
func (nopMetrics) RecordStepCount(types.PhaseType, int)                 {}
func (nopMetrics) RecordMoveCountPerStep(types.PhaseType, int64, int64) {}
func (nopMetrics) RecordScoreCalculationSpeed(types.PhaseType, float64) {}
func (nopMetrics) RecordConstraintMatchTotal(string, int, []float64)    {}
