package recall

import (
	"sync/atomic"

	"github.com/arloliu/solvo/internal/logger"
	"github.com/arloliu/solvo/internal/metrics"
	"github.com/arloliu/solvo/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// DefaultBufferSize is the channel buffer of a subscription.
const DefaultBufferSize = 16

// Listener receives every best-solution event synchronously on the step loop.
//
// Listeners must not block; the solver uses one to dispatch hooks and
// publishers in background goroutines.
type Listener func(event types.BestSolutionEvent)

// Recaller is the default types.BestSolutionRecaller.
//
// ProcessCandidate and Flush run on the step loop of one solver run.
// Subscribe, Unsubscribe and Last are safe for concurrent use.
type Recaller struct {
	logger     types.Logger
	metrics    types.MetricsCollector
	listeners  []Listener
	bufferSize int

	subscribers      *xsync.Map[uint64, *subscriber]
	nextSubscriberID atomic.Uint64

	last              atomic.Pointer[types.BestSolutionEvent]
	changedSinceFlush bool
}

var _ types.BestSolutionRecaller = (*Recaller)(nil)

// Option configures a Recaller.
type Option func(*Recaller)

// WithLogger sets the logger.
func WithLogger(l types.Logger) Option {
	return func(r *Recaller) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m types.MetricsCollector) Option {
	return func(r *Recaller) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithListener adds a synchronous event listener.
func WithListener(l Listener) Option {
	return func(r *Recaller) {
		if l != nil {
			r.listeners = append(r.listeners, l)
		}
	}
}

// WithBufferSize sets the channel buffer of new subscriptions.
func WithBufferSize(n int) Option {
	return func(r *Recaller) {
		if n > 0 {
			r.bufferSize = n
		}
	}
}

// New creates a recaller.
//
// Parameters:
//   - opts: Optional logger, metrics, listeners and buffer size
//
// Returns:
//   - *Recaller: Recaller with no subscribers
func New(opts ...Option) *Recaller {
	r := &Recaller{
		logger:      logger.NewNop(),
		metrics:     metrics.NewNop(),
		bufferSize:  DefaultBufferSize,
		subscribers: xsync.NewMap[uint64, *subscriber](),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// SolvingStarted records the starting working solution as the best solution.
func (r *Recaller) SolvingStarted(s *types.SolverScope) {
	r.changedSinceFlush = false
	r.last.Store(nil)

	s.BestScore = s.Director.CalculateScore()
	s.BestSolution = s.Director.CloneWorkingSolution()
	s.BestPhaseIndex = -1
	s.BestStepIndex = -1
}

// ProcessCandidate snapshots the working solution when the step strictly
// improves the best score.
func (r *Recaller) ProcessCandidate(st *types.StepScope) {
	p := st.Phase
	s := p.Solver
	if !types.ScoreBetter(st.Score, s.BestScore) {
		return
	}

	s.BestScore = st.Score
	s.BestSolution = s.Director.CloneWorkingSolution()
	s.BestPhaseIndex = p.PhaseIndex
	s.BestStepIndex = st.StepIndex
	st.BestScoreImproved = true
	r.changedSinceFlush = true

	r.metrics.RecordBestScoreImproved(p.PhaseType, st.Score.Levels())
	r.publish(r.event(s, false))
}

// Flush runs at every phase end.
//
// It adopts the working solution when no best solution exists yet and
// emits a phase-end event when the best solution changed since the
// previous flush.
func (r *Recaller) Flush(s *types.SolverScope) {
	if s.BestSolution == nil {
		s.BestScore = s.Director.CalculateScore()
		s.BestSolution = s.Director.CloneWorkingSolution()
		s.BestPhaseIndex = s.CurrentPhaseIndex
		r.changedSinceFlush = true
	}
	if !r.changedSinceFlush {
		return
	}

	r.changedSinceFlush = false
	r.publish(r.event(s, true))
}

// Last returns the most recent event.
//
// Returns:
//   - types.BestSolutionEvent: Latest event
//   - bool: false when no event was emitted in the current run
func (r *Recaller) Last() (types.BestSolutionEvent, bool) {
	e := r.last.Load()
	if e == nil {
		return types.BestSolutionEvent{}, false
	}

	return *e, true
}

// Subscribe returns a channel receiving best-solution events.
//
// Sends never block the solver: when the buffer is full the event is
// dropped and counted.
//
// Returns:
//   - <-chan types.BestSolutionEvent: Buffered event channel
//   - func(): Unsubscribe function closing the channel
//
// Example:
//
//	ch, unsubscribe := r.Subscribe()
//	defer unsubscribe()
//	for event := range ch {
//	    fmt.Println(event.ScoreString)
//	}
func (r *Recaller) Subscribe() (<-chan types.BestSolutionEvent, func()) {
	id := r.nextSubscriberID.Add(1)
	sub := &subscriber{ch: make(chan types.BestSolutionEvent, r.bufferSize)}
	r.subscribers.Store(id, sub)

	return sub.ch, func() {
		if s, ok := r.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (r *Recaller) SubscriberCount() int {
	return r.subscribers.Size()
}

// Close closes every subscription.
func (r *Recaller) Close() {
	r.subscribers.Range(func(id uint64, sub *subscriber) bool {
		r.subscribers.Delete(id)
		sub.close()

		return true
	})
}

func (r *Recaller) event(s *types.SolverScope, phaseEnded bool) types.BestSolutionEvent {
	e := types.BestSolutionEvent{
		RunID:      s.RunID,
		PhaseIndex: s.BestPhaseIndex,
		StepIndex:  s.BestStepIndex,
		Score:      s.BestScore,
		Solution:   s.BestSolution,
		TimeSpent:  s.TimeSpent(),
		PhaseEnded: phaseEnded,
	}
	if s.BestScore != nil {
		e.ScoreString = s.BestScore.String()
		e.Feasible = s.BestScore.IsFeasible()
	}

	return e
}

func (r *Recaller) publish(e types.BestSolutionEvent) {
	r.last.Store(&e)

	r.logger.Debug("new best solution",
		"runId", e.RunID,
		"phaseIndex", e.PhaseIndex,
		"stepIndex", e.StepIndex,
		"score", e.ScoreString,
		"phaseEnded", e.PhaseEnded)

	for _, l := range r.listeners {
		l(e)
	}

	r.subscribers.Range(func(_ uint64, sub *subscriber) bool {
		if !sub.trySend(e) {
			r.metrics.RecordBestSolutionEventDropped()
		}

		return true
	})
}
