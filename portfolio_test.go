package solvo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/solvo"
	"github.com/arloliu/solvo/acceptor"
	"github.com/arloliu/solvo/internal/testutil"
	"github.com/arloliu/solvo/phase"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/selector"
)

// localSearchSolver builds a hill climbing solver over its own vector that
// stops once every variable hits its target.
func localSearchSolver(t *testing.T, stepLimit int) *solvo.Solver {
	t.Helper()

	v := testutil.NewAssignedVector([]int{0, 0, 0}, []int{2, 1, 2}, 2)
	cfg := hillClimbingConfig()
	cfg.LocalSearch.Termination.StepCountLimit = stepLimit

	ls, err := solvo.NewLocalSearchPhase(&cfg, selector.NewStatic(testutil.AllChangeMoves(v)...))
	require.NoError(t, err)
	s, err := solvo.NewSolver(&cfg, testutil.NewVectorDirector(v), []solvo.Phase{ls})
	require.NoError(t, err)

	return s
}

func TestNewPortfolio_RequiresSolvers(t *testing.T) {
	_, err := solvo.NewPortfolio()
	require.ErrorIs(t, err, solvo.ErrNoSolvers)

	_, err = solvo.NewPortfolio(localSearchSolver(t, 0), nil)
	require.ErrorIs(t, err, solvo.ErrNoSolvers)
}

func TestPortfolio_KeepsBestResult(t *testing.T) {
	p, err := solvo.NewPortfolio(localSearchSolver(t, 1), localSearchSolver(t, 0), localSearchSolver(t, 0))
	require.NoError(t, err)

	result, err := p.Solve(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Results, 3)
	require.Equal(t, score.NewHardSoft(0, -3), result.Results[0].BestScore)
	require.Equal(t, score.NewHardSoft(0, 0), result.Best.BestScore)
	// Ties keep the earlier solver.
	require.Equal(t, 1, result.BestIndex)
	require.Equal(t, result.Results[1].RunID, result.Best.RunID)
}

func TestPortfolio_FatalErrorCancelsOthers(t *testing.T) {
	v := testutil.NewAssignedVector([]int{0, 0}, []int{1, 1}, 1)
	cfg := hillClimbingConfig()
	broken, err := phase.NewLocalSearch(selector.NewStatic(testutil.AllChangeMoves(v)...), acceptor.NewHillClimbing(), stuckForager{}, nil)
	require.NoError(t, err)
	failing, err := solvo.NewSolver(&cfg, testutil.NewVectorDirector(v), []solvo.Phase{broken})
	require.NoError(t, err)

	paused := localSearchSolver(t, 0)
	paused.Pause()

	p, err := solvo.NewPortfolio(paused, failing)
	require.NoError(t, err)

	result, err := p.Solve(context.Background())
	require.ErrorIs(t, err, solvo.ErrStepNotPicked)

	// The paused solver is released by the cancellation and keeps its starting solution.
	require.Equal(t, score.NewHardSoft(0, -5), result.Results[0].BestScore)
	require.Zero(t, result.Results[0].StepCount)

	// The failed run still reports the best solution it had.
	require.Equal(t, 1, result.BestIndex)
	require.Equal(t, score.NewHardSoft(0, -2), result.Best.BestScore)
}
