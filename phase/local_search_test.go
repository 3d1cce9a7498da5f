package phase_test

import (
	"errors"
	"testing"

	"github.com/arloliu/solvo/acceptor"
	"github.com/arloliu/solvo/forager"
	"github.com/arloliu/solvo/internal/testutil"
	"github.com/arloliu/solvo/phase"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/termination"
	"github.com/arloliu/solvo/types"
	"github.com/stretchr/testify/require"
)

func TestNewLocalSearch_RequiresComponents(t *testing.T) {
	sel := testutil.NewSelector()
	acc := acceptor.NewHillClimbing()
	fg := forager.NewAccepted(forager.Config{})

	tests := []struct {
		name    string
		build   func() error
		wantErr error
	}{
		{"selector", func() error { _, err := phase.NewLocalSearch(nil, acc, fg, nil); return err }, types.ErrSelectorRequired},
		{"acceptor", func() error { _, err := phase.NewLocalSearch(sel, nil, fg, nil); return err }, types.ErrAcceptorRequired},
		{"forager", func() error { _, err := phase.NewLocalSearch(sel, acc, nil, nil); return err }, types.ErrForagerRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.build(), tt.wantErr)
		})
	}
}

func TestLocalSearch_HillClimbingReachesTargets(t *testing.T) {
	v := testutil.NewAssignedVector([]int{0, 0, 0}, []int{2, 1, 3}, 3)
	d := testutil.NewVectorDirector(v)
	s, _ := newSolverScope(t, d)

	ls, err := phase.NewLocalSearch(
		testutil.NewSelector(testutil.AllChangeMoves(v)...),
		acceptor.NewHillClimbing(),
		forager.NewAccepted(forager.Config{}),
		termination.NewOr(termination.NewStepCountLimit(20), termination.NewBestScore(score.NewHardSoft(0, 0))),
	)
	require.NoError(t, err)

	summary, err := runPhase(s, ls)
	require.NoError(t, err)

	require.Equal(t, []int{2, 1, 3}, v.Values)
	require.Equal(t, score.NewHardSoft(0, 0), s.BestScore)
	require.Equal(t, types.PhaseOutcomeTerminated, summary.Outcome)
	require.Equal(t, 3, summary.StepCount)
	require.False(t, d.IsSpeculative())
}

func TestLocalSearch_LifecycleOrdering(t *testing.T) {
	d, _ := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	sel := testutil.NewSelector(testutil.Moves(1, 2)...)

	ls, err := phase.NewLocalSearch(sel, acceptAll(), forager.NewAccepted(forager.Config{}), termination.NewStepCountLimit(2))
	require.NoError(t, err)

	_, err = runPhase(s, ls)
	require.NoError(t, err)

	require.Equal(t, []string{
		"solvingStarted",
		"phaseStarted#0",
		"stepStarted#0",
		"stepEnded#0",
		"stepStarted#1",
		"stepEnded#1",
		"phaseEnded#0",
		"solvingEnded",
	}, sel.Events())
}

func TestLocalSearch_SpeculativeFlagOnlyDuringScan(t *testing.T) {
	d, _ := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)

	var duringAccept []bool
	acc := &acceptorFunc{fn: func(*types.MoveScope) bool {
		duringAccept = append(duringAccept, d.IsSpeculative())
		return true
	}}
	fg := &pickSpyForager{Accepted: forager.NewAccepted(forager.Config{}), speculative: d.IsSpeculative}

	ls, err := phase.NewLocalSearch(testutil.NewSelector(testutil.Moves(3, 1)...), acc, fg, termination.NewStepCountLimit(1))
	require.NoError(t, err)

	_, err = runPhase(s, ls)
	require.NoError(t, err)

	require.Equal(t, []bool{true, true}, duringAccept)
	require.Equal(t, []bool{false}, fg.atPick)
	require.False(t, d.IsSpeculative())
	require.Equal(t, int64(2), d.SpeculativeCalculationCount())
}

// pickSpyForager records the speculative state at every PickMove call.
type pickSpyForager struct {
	*forager.Accepted

	speculative func() bool
	atPick      []bool
}

func (f *pickSpyForager) PickMove(st *types.StepScope) *types.MoveScope {
	f.atPick = append(f.atPick, f.speculative())

	return f.Accepted.PickMove(st)
}

func TestLocalSearch_YieldsOncePerCandidate(t *testing.T) {
	d, _ := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	y := &testutil.CountingYielder{}
	s.Yielder = y

	moves := []types.Move{testutil.Move("a", 1), testutil.Blocked("b"), testutil.Move("c", 2), testutil.Move("d", 3)}
	ls, err := phase.NewLocalSearch(testutil.NewSelector(moves...), acceptAll(), forager.NewAccepted(forager.Config{}),
		termination.NewStepCountLimit(1))
	require.NoError(t, err)

	_, err = runPhase(s, ls)
	require.NoError(t, err)
	require.Equal(t, 4, y.Calls())
}

func TestLocalSearch_QuitEarlyStopsScan(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	sel := testutil.NewSelector(testutil.Moves(1, 5, 9)...)

	ls, err := phase.NewLocalSearch(sel, acceptAll(), forager.NewFirstAccepted(), termination.NewStepCountLimit(1))
	require.NoError(t, err)

	_, err = runPhase(s, ls)
	require.NoError(t, err)
	require.Equal(t, 1, sel.Yielded)
	require.Equal(t, []string{"m0"}, sol.Commits)
}

func TestLocalSearch_NoDoableMoveEndsPhaseGracefully(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, log := newSolverScope(t, d)

	ls, err := phase.NewLocalSearch(testutil.NewSelector(testutil.Blocked("x"), testutil.Blocked("y")),
		acceptAll(), forager.NewAccepted(forager.Config{}), nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ls)
	require.NoError(t, err)
	require.Equal(t, types.PhaseOutcomeNoDoableMove, summary.Outcome)
	require.Empty(t, sol.Commits)
	require.Equal(t, 1, log.Count("WARN", "no doable selected move"))
}

func TestLocalSearch_AcceptedButNotPickedIsFatal(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	sel := testutil.NewSelector(testutil.Moves(1, 2, 3)...)

	ls, err := phase.NewLocalSearch(sel, acceptAll(), nilForager{}, nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ls)
	require.ErrorIs(t, err, types.ErrStepNotPicked)
	require.Contains(t, err.Error(), "step index (0)")
	require.Contains(t, err.Error(), "(3/3)")
	require.Equal(t, types.PhaseOutcomeFailed, summary.Outcome)
	require.Empty(t, sol.Commits)

	// PhaseEnded still runs; StepEnded does not.
	require.Equal(t, 1, sel.Count("phaseEnded#0"))
	require.Equal(t, 0, sel.Count("stepEnded#0"))
	require.Equal(t, types.PhaseStateIdle, ls.State())
}

func TestLocalSearch_RejectedEveryMoveIsFatal(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, log := newSolverScope(t, d)
	sel := testutil.NewSelector(testutil.Moves(1, 2, 3)...)

	rejectAll := &acceptorFunc{fn: func(*types.MoveScope) bool { return false }}
	ls, err := phase.NewLocalSearch(sel, rejectAll, forager.NewAccepted(forager.Config{}), nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ls)
	require.ErrorIs(t, err, types.ErrStepNotPicked)
	require.Contains(t, err.Error(), "step index (0)")
	require.Contains(t, err.Error(), "(0/3)")
	require.Equal(t, types.PhaseOutcomeFailed, summary.Outcome)
	require.Empty(t, sol.Commits)
	require.Zero(t, log.Count("WARN", "terminating phase early"))
}

func TestLocalSearch_HillClimbingPastOptimumIsFatal(t *testing.T) {
	v := testutil.NewAssignedVector([]int{2, 1}, []int{2, 1}, 2)
	s, _ := newSolverScope(t, testutil.NewVectorDirector(v))

	ls, err := phase.NewLocalSearch(testutil.NewSelector(testutil.AllChangeMoves(v)...), acceptor.NewHillClimbing(),
		forager.NewAccepted(forager.Config{}), termination.NewStepCountLimit(5))
	require.NoError(t, err)

	_, err = runPhase(s, ls)
	require.ErrorIs(t, err, types.ErrStepNotPicked)
	require.Contains(t, err.Error(), "(0/4)")
	require.Equal(t, []int{2, 1}, v.Values)
}

func TestLocalSearch_TerminationDuringScanWithoutPick(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, log := newSolverScope(t, d)
	s.Yielder = &testutil.CountingYielder{Limit: 1, Err: errors.New("stop")}

	rejectAll := &acceptorFunc{fn: func(*types.MoveScope) bool { return false }}
	ls, err := phase.NewLocalSearch(testutil.NewSelector(testutil.Moves(1, 2)...), rejectAll,
		forager.NewAccepted(forager.Config{}), nil)
	require.NoError(t, err)

	summary, err := runPhase(s, ls)
	require.NoError(t, err)
	require.Equal(t, types.PhaseOutcomeTerminated, summary.Outcome)
	require.Empty(t, sol.Commits)
	require.Equal(t, 1, log.Count("DEBUG", "terminated without picking"))
}

func TestLocalSearch_TimeGradientIsMonotonicAndBounded(t *testing.T) {
	d, _ := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	sel := testutil.NewSelector(testutil.Moves(1)...)

	term := &scriptedTermination{gradients: []float64{0.2, 0.1, 0.5, 1.5, -3, 0.7}}
	ls, err := phase.NewLocalSearch(sel, acceptAll(), forager.NewAccepted(forager.Config{}), term)
	require.NoError(t, err)

	_, err = runPhase(s, ls)
	require.NoError(t, err)

	var got []float64
	for _, st := range sel.Steps() {
		got = append(got, st.TimeGradient)
	}
	require.Equal(t, []float64{0.2, 0.2, 0.5, 1, 1, 1}, got)
}

func TestLocalSearch_SolverTerminationAppliesToPhase(t *testing.T) {
	d, sol := testutil.NewScriptedDirector(0)
	s, _ := newSolverScope(t, d)
	s.Termination = termination.NewStepCountLimit(2)

	ls, err := phase.NewLocalSearch(testutil.NewSelector(testutil.Moves(1)...), acceptAll(),
		forager.NewAccepted(forager.Config{}), termination.NewStepCountLimit(100))
	require.NoError(t, err)

	summary, err := runPhase(s, ls)
	require.NoError(t, err)
	require.Equal(t, 2, summary.StepCount)
	require.Len(t, sol.Commits, 2)
}

func TestLocalSearch_RecordsStepMetrics(t *testing.T) {
	v := testutil.NewAssignedVector([]int{0, 0}, []int{1, 1}, 1)
	d := testutil.NewVectorDirector(v)
	s, _ := newSolverScope(t, d)
	m := &countingMetrics{}
	s.Metrics = m

	ls, err := phase.NewLocalSearch(testutil.NewSelector(testutil.AllChangeMoves(v)...), acceptor.NewHillClimbing(),
		forager.NewAccepted(forager.Config{}), termination.NewStepCountLimit(1))
	require.NoError(t, err)

	_, err = runPhase(s, ls)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, m.selected)
	require.Equal(t, []int64{2}, m.accepted)
	require.ElementsMatch(t, []string{"vector/unassigned", "vector/distance"}, m.constraints)
	require.Equal(t, 1, m.phases)
}

// countingMetrics records the per-step metrics it receives.
type countingMetrics struct {
	nopMetrics

	selected    []int64
	accepted    []int64
	constraints []string
	phases      int
}

func (m *countingMetrics) RecordMoveCountPerStep(_ types.PhaseType, selected, accepted int64) {
	m.selected = append(m.selected, selected)
	m.accepted = append(m.accepted, accepted)
}

func (m *countingMetrics) RecordConstraintMatchTotal(id string, _ int, _ []float64) {
	m.constraints = append(m.constraints, id)
}

func (m *countingMetrics) RecordPhaseDuration(types.PhaseType, string, float64) {
	m.phases++
}
