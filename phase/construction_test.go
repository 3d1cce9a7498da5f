package phase_test

import (
	"errors"
	"testing"

	"github.com/arloliu/solvo/internal/testutil"
	"github.com/arloliu/solvo/phase"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/types"
	"github.com/stretchr/testify/require"
)

func TestNewConstructionHeuristic_RequiresPlacer(t *testing.T) {
	_, err := phase.NewConstructionHeuristic(nil, nil)
	require.ErrorIs(t, err, types.ErrPlacerRequired)
}

func TestConstructionHeuristic_AssignsEveryVariable(t *testing.T) {
	v := testutil.NewVector([]int{2, 0, 3}, 3)
	d := testutil.NewVectorDirector(v)
	s, _ := newSolverScope(t, d)

	ch, err := phase.NewConstructionHeuristic(testutil.NewPlacer(testutil.VectorPlacements(v)...), nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ch)
	require.NoError(t, err)

	require.Equal(t, []int{2, 0, 3}, v.Values)
	require.Equal(t, types.PhaseOutcomeExhausted, summary.Outcome)
	require.Equal(t, 3, summary.StepCount)
	require.Equal(t, score.NewHardSoft(0, 0), s.BestScore)
	require.Equal(t, types.PhaseStateIdle, ch.State())
}

func TestConstructionHeuristic_PicksWhenEveryMoveWorsens(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)

	placer := testutil.NewPlacer(
		types.NewPlacement("only", testutil.Blocked("x"), testutil.Move("a", -5), testutil.Move("b", -2)),
	)
	ch, err := phase.NewConstructionHeuristic(placer, nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ch)
	require.NoError(t, err)
	require.Equal(t, types.PhaseOutcomeExhausted, summary.Outcome)
	require.Equal(t, []string{"b"}, sol.Commits)

	steps := placer.Steps()
	require.Equal(t, int64(2), steps[0].SelectedMoveCount)
	require.Equal(t, int64(2), steps[0].AcceptedMoveCount)
}

func TestConstructionHeuristic_EarlyStopOnNonDoablePlacement(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, log := newSolverScope(t, d)

	placer := testutil.NewPlacer(
		types.NewPlacement("first", testutil.Move("a", 1)),
		types.NewPlacement("second", testutil.Blocked("b1"), testutil.Blocked("b2")),
		types.NewPlacement("third", testutil.Move("c", 3)),
	)
	ch, err := phase.NewConstructionHeuristic(placer, nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ch)
	require.NoError(t, err)

	require.Equal(t, 1, summary.StepCount)
	require.Equal(t, types.PhaseOutcomeNoDoableMove, summary.Outcome)
	require.Equal(t, []string{"a"}, sol.Commits)

	steps := placer.Steps()
	require.Len(t, steps, 2)
	require.Equal(t, int64(1), steps[0].SelectedMoveCount)
	require.Equal(t, int64(0), steps[1].SelectedMoveCount)
	require.Nil(t, steps[1].Step)

	require.Equal(t, 1, placer.Count("stepEnded#0"))
	require.Equal(t, 0, placer.Count("stepEnded#1"))
	require.Equal(t, 1, placer.Count("phaseEnded#0"))
	require.Equal(t, 1, log.Count("WARN", "no doable selected move"))
}

func TestConstructionHeuristic_TiesGoToFirstSeen(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)

	placer := testutil.NewPlacer(types.NewPlacement("only",
		testutil.Move("low", 1),
		testutil.Move("first", 5),
		testutil.Move("second", 5),
	))
	ch, err := phase.NewConstructionHeuristic(placer, nil)
	require.NoError(t, err)

	_, err = runPhase(s, ch)
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, sol.Commits)
	require.Equal(t, score.Simple(5), s.BestScore)
}

func TestConstructionHeuristic_YieldsOncePerEvaluatedMove(t *testing.T) {
	v := testutil.NewVector([]int{1, 1}, 2)
	d := testutil.NewVectorDirector(v)
	s, _ := newSolverScope(t, d)
	y := &testutil.CountingYielder{}
	s.Yielder = y

	ch, err := phase.NewConstructionHeuristic(testutil.NewPlacer(testutil.VectorPlacements(v)...), nil)
	require.NoError(t, err)

	_, err = runPhase(s, ch)
	require.NoError(t, err)
	require.Equal(t, 6, y.Calls())
}

func TestConstructionHeuristic_YieldErrorStopsScanAndCommitsBestSoFar(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	s.Yielder = &testutil.CountingYielder{Limit: 2, Err: errors.New("paused for shutdown")}

	placer := testutil.NewPlacer(
		types.NewPlacement("first", testutil.Move("a", 1), testutil.Move("b", 4), testutil.Move("c", 9)),
		types.NewPlacement("second", testutil.Move("d", 10)),
	)
	ch, err := phase.NewConstructionHeuristic(placer, nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ch)
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, sol.Commits)
	require.Equal(t, 1, summary.StepCount)
	require.Equal(t, types.PhaseOutcomeTerminated, summary.Outcome)
}

func TestConstructionHeuristic_AssertionModeDetectsCorruptUndo(t *testing.T) {
	v := testutil.NewVector([]int{1}, 1)
	d := testutil.NewVectorDirector(v)
	s, _ := newSolverScope(t, d)
	s.AssertExpectedUndoMoveScore = true

	placer := testutil.NewPlacer(types.NewPlacement("x0", leakyMove{}))
	ch, err := phase.NewConstructionHeuristic(placer, nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ch)
	require.ErrorIs(t, err, types.ErrUndoMoveCorruption)
	require.Equal(t, types.PhaseOutcomeFailed, summary.Outcome)
	require.Equal(t, types.PhaseStateIdle, ch.State())
}

// leakyMove assigns 1 to x0 and returns an undo move that forgets to restore it.
type leakyMove struct{}

func (leakyMove) IsDoable(types.ScoreDirector) bool { return true }

func (leakyMove) Do(d types.ScoreDirector) types.Move {
	testutil.ChangeMove{Index: 0, To: 1}.Do(d)

	return noopMove{}
}

func (leakyMove) String() string { return "leaky" }

type noopMove struct{}

func (noopMove) IsDoable(types.ScoreDirector) bool { return true }

func (noopMove) Do(types.ScoreDirector) types.Move { return noopMove{} }

func (noopMove) String() string { return "noop" }
