package recall

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/arloliu/solvo/internal/testutil"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/types"
	"github.com/stretchr/testify/require"
)

type droppedCounter struct {
	types.MetricsCollector

	mu       sync.Mutex
	dropped  int
	improved []types.PhaseType
}

func (m *droppedCounter) RecordBestSolutionEventDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped++
}

func (m *droppedCounter) RecordBestScoreImproved(pt types.PhaseType, _ []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.improved = append(m.improved, pt)
}

func newRun(t *testing.T, start []int) (*types.SolverScope, *testutil.Vector) {
	t.Helper()

	v := testutil.NewAssignedVector(start, []int{1, 1, 1}, 2)
	d := testutil.NewVectorDirector(v)

	return types.NewSolverScope(context.Background(), "run-1", d, rand.New(rand.NewPCG(1, 2))), v
}

// commit applies move permanently in a fresh step of p and returns the step.
func commit(p *types.PhaseScope, move testutil.ChangeMove) *types.StepScope {
	st := types.NewStepScope(p)
	st.Step = move
	st.UndoStep = move.Do(p.Director())
	st.Score = p.Director().CalculateScore()
	p.NextStepIndex++

	return st
}

func TestRecaller_SolvingStartedAdoptsWorkingSolution(t *testing.T) {
	s, v := newRun(t, []int{0, 0, 0})
	r := New()

	r.SolvingStarted(s)
	require.Equal(t, score.NewHardSoft(0, -3), s.BestScore)
	require.Equal(t, -1, s.BestStepIndex)

	best, ok := s.BestSolution.(*testutil.Vector)
	require.True(t, ok)
	require.NotSame(t, v, best)

	_, ok = r.Last()
	require.False(t, ok)
}

func TestRecaller_ProcessCandidateOnlyOnStrictImprovement(t *testing.T) {
	s, v := newRun(t, []int{0, 0, 0})
	m := &droppedCounter{}
	r := New(WithMetrics(m))
	r.SolvingStarted(s)
	p := types.NewPhaseScope(s, 0, types.PhaseLocalSearch)

	improving := commit(p, testutil.ChangeMove{Index: 0, To: 1})
	r.ProcessCandidate(improving)
	require.True(t, improving.BestScoreImproved)
	require.Equal(t, score.NewHardSoft(0, -2), s.BestScore)
	require.Equal(t, 0, s.BestStepIndex)

	// Equal score: x1 0 -> 2 keeps the distance at 1.
	equal := commit(p, testutil.ChangeMove{Index: 1, To: 2})
	r.ProcessCandidate(equal)
	require.False(t, equal.BestScoreImproved)
	require.Equal(t, 0, s.BestStepIndex)

	best := s.BestSolution.(*testutil.Vector)
	require.Equal(t, []int{1, 0, 0}, best.Values)
	require.Equal(t, []int{1, 2, 0}, v.Values)
	require.Equal(t, []types.PhaseType{types.PhaseLocalSearch}, m.improved)
}

func TestRecaller_SubscribersAndListeners(t *testing.T) {
	s, _ := newRun(t, []int{0, 0, 0})
	var heard []types.BestSolutionEvent
	r := New(WithBufferSize(4), WithListener(func(e types.BestSolutionEvent) { heard = append(heard, e) }))
	ch, unsubscribe := r.Subscribe()
	require.Equal(t, 1, r.SubscriberCount())

	r.SolvingStarted(s)
	p := types.NewPhaseScope(s, 0, types.PhaseLocalSearch)
	r.ProcessCandidate(commit(p, testutil.ChangeMove{Index: 0, To: 1}))
	r.Flush(s)

	first := <-ch
	require.Equal(t, "run-1", first.RunID)
	require.Equal(t, "0hard/-2soft", first.ScoreString)
	require.True(t, first.Feasible)
	require.False(t, first.PhaseEnded)

	flushed := <-ch
	require.True(t, flushed.PhaseEnded)
	require.Len(t, heard, 2)

	last, ok := r.Last()
	require.True(t, ok)
	require.True(t, last.PhaseEnded)

	// Nothing changed since the previous flush.
	r.Flush(s)
	require.Len(t, heard, 2)

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	require.False(t, open)
	require.Zero(t, r.SubscriberCount())
}

func TestRecaller_SlowSubscriberDropsEvents(t *testing.T) {
	s, _ := newRun(t, []int{0, 0, 0})
	m := &droppedCounter{}
	r := New(WithBufferSize(1), WithMetrics(m))
	_, unsubscribe := r.Subscribe()
	defer unsubscribe()

	r.SolvingStarted(s)
	p := types.NewPhaseScope(s, 0, types.PhaseLocalSearch)
	r.ProcessCandidate(commit(p, testutil.ChangeMove{Index: 0, To: 1}))
	r.ProcessCandidate(commit(p, testutil.ChangeMove{Index: 1, To: 1}))
	r.ProcessCandidate(commit(p, testutil.ChangeMove{Index: 2, To: 1}))

	require.Equal(t, 2, m.dropped)
}

func TestRecaller_FlushAdoptsWhenNotStarted(t *testing.T) {
	s, _ := newRun(t, []int{1, 1, 1})
	s.CurrentPhaseIndex = 2
	r := New()

	r.Flush(s)
	require.Equal(t, score.NewHardSoft(0, 0), s.BestScore)
	require.Equal(t, 2, s.BestPhaseIndex)

	last, ok := r.Last()
	require.True(t, ok)
	require.True(t, last.PhaseEnded)
}

func TestRecaller_Close(t *testing.T) {
	r := New()
	ch1, _ := r.Subscribe()
	ch2, _ := r.Subscribe()

	r.Close()

	_, open1 := <-ch1
	_, open2 := <-ch2
	require.False(t, open1)
	require.False(t, open2)
	require.Zero(t, r.SubscriberCount())
}
