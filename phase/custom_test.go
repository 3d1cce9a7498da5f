package phase_test

import (
	"testing"

	"github.com/arloliu/solvo/internal/testutil"
	"github.com/arloliu/solvo/phase"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/types"
	"github.com/stretchr/testify/require"
)

func TestNewCustom_RequiresSelector(t *testing.T) {
	_, err := phase.NewCustom(nil, nil)
	require.ErrorIs(t, err, types.ErrSelectorRequired)
}

func TestCustom_CommitsFirstStrictMaximumThenStops(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(6)
	s, _ := newSolverScope(t, d)
	require.Equal(t, score.Simple(6), s.BestScore)

	sel := testutil.NewSelector(testutil.Moves(5, 7, 7, 3)...)
	c, err := phase.NewCustom(sel, nil)
	require.NoError(t, err)

	summary, err := runPhase(s, c)
	require.NoError(t, err)

	require.Equal(t, []string{"m1"}, sol.Commits)
	require.Equal(t, 1, summary.StepCount)
	require.Equal(t, types.PhaseOutcomeLocalOptimum, summary.Outcome)
	require.Equal(t, score.Simple(7), s.BestScore)
	require.Equal(t, 0, s.BestStepIndex)

	// Every move of both steps was evaluated.
	require.Equal(t, 8, sel.Yielded)
	require.Equal(t, 1, sel.Count("stepEnded#0"))
	require.Equal(t, 0, sel.Count("stepEnded#1"))
}

// The stop rule compares the best move with the global best score. A
// plateau of moves equal to the best score ends the phase without a commit.
func TestCustom_PlateauEndsPhase(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(7)
	s, _ := newSolverScope(t, d)

	c, err := phase.NewCustom(testutil.NewSelector(testutil.Moves(7, 7, 2)...), nil)
	require.NoError(t, err)

	summary, err := runPhase(s, c)
	require.NoError(t, err)
	require.Empty(t, sol.Commits)
	require.Equal(t, 0, summary.StepCount)
	require.Equal(t, types.PhaseOutcomeLocalOptimum, summary.Outcome)
}

// A working solution below the best score is not improved even when a move
// would improve it, because the stop rule uses the global best.
func TestCustom_StopsBelowGlobalBest(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	s.BestScore = score.Simple(10)

	c, err := phase.NewCustom(testutil.NewSelector(testutil.Moves(5, 8)...), nil)
	require.NoError(t, err)

	_, err = runPhase(s, c)
	require.NoError(t, err)
	require.Empty(t, sol.Commits)
	require.Equal(t, int64(0), sol.Current)
}

func TestCustom_EmptySelectorEndsPhaseWithWarning(t *testing.T) {
	d, _ := testutil.NewScriptedDirector(0)
	s, log := newSolverScope(t, d)

	c, err := phase.NewCustom(testutil.NewSelector(), nil)
	require.NoError(t, err)

	summary, err := runPhase(s, c)
	require.NoError(t, err)
	require.Equal(t, types.PhaseOutcomeNoDoableMove, summary.Outcome)
	require.Equal(t, 1, log.Count("WARN", "custom phase has no moves"))
}

func TestCustom_YieldsOncePerMove(t *testing.T) {
	d, _ := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	y := &testutil.CountingYielder{}
	s.Yielder = y

	c, err := phase.NewCustom(testutil.NewSelector(testutil.Moves(1, 3, 2)...), nil)
	require.NoError(t, err)

	_, err = runPhase(s, c)
	require.NoError(t, err)

	// Step 0 commits 3, step 1 finds no improvement.
	require.Equal(t, 6, y.Calls())
}
