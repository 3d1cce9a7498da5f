package solvo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/solvo/internal/hooks"
	"github.com/arloliu/solvo/internal/logger"
	"github.com/arloliu/solvo/internal/metrics"
	"github.com/arloliu/solvo/internal/recall"
	"github.com/arloliu/solvo/internal/yield"
	"github.com/arloliu/solvo/types"
)

// pcgStream is the second PCG seed word derived from the configured seed.
const pcgStream = 0x9e3779b97f4a7c15

// SolverState represents the lifecycle state of a Solver.
type SolverState int32

const (
	// SolverStateIdle indicates Solve was never called.
	SolverStateIdle SolverState = iota

	// SolverStateSolving indicates a run is in progress.
	SolverStateSolving

	// SolverStateTerminated indicates the last run ended. Solve may be called again.
	SolverStateTerminated
)

// String returns the string representation of the solver state.
func (s SolverState) String() string {
	switch s {
	case SolverStateIdle:
		return "Idle"
	case SolverStateSolving:
		return "Solving"
	case SolverStateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Result describes a finished solver run.
type Result struct {
	// RunID identifies the run.
	RunID string

	// BestScore is the score of BestSolution.
	BestScore Score

	// BestSolution is a clone of the best working solution found.
	BestSolution any

	// StepCount is the number of committed steps over all phases.
	StepCount int

	// PhaseCount is the number of phases that ran.
	PhaseCount int

	// Duration is the wall-clock time of the run.
	Duration time.Duration

	// CalculationCount is the number of score calculations of the run.
	CalculationCount int64

	// Phases holds the summary of every phase that ran, in order.
	Phases []PhaseSummary
}

// Solver runs a sequence of phases against one score director.
//
// Solver is the main entry point of the solvo library. It handles:
//   - Seeding the shared random source according to the environment mode
//   - Running phases in order, stopping at the first fatal error
//   - Tracking the best solution and fanning out best-solution events
//   - Pausing and resuming the step loop at candidate boundaries
//
// Thread Safety:
//   - Solve must not be called concurrently; a second call returns ErrAlreadySolving
//   - Subscribe, Pause, Resume, State and RunID are safe for concurrent use
//
// Lifecycle:
//   - Create with NewSolver()
//   - Call Solve() to run all phases
//   - Subscribe() or hooks observe new best solutions while solving
//   - Call Close() to close the remaining subscriptions
type Solver struct {
	cfg      Config
	director ScoreDirector
	phases   []Phase

	// Optional dependencies
	hooks        types.Hooks
	userBestHook bool
	metrics      MetricsCollector
	logger       Logger
	yielder      Yielder
	seed         *uint64
	newRunID     func() string

	// Internal components
	gate     *yield.Gate
	recaller *recall.Recaller

	// State management
	state atomic.Int32 // SolverState
	runID atomic.Value // string

	// runCtx is the context of the current Solve call, read on the step loop only.
	runCtx context.Context

	// Outstanding hook goroutines of the current run.
	wg sync.WaitGroup
}

// NewSolver creates a Solver with the provided configuration.
//
// Missing configuration values are filled in with defaults before the
// configuration is validated.
//
// Parameters:
//   - cfg: Solver configuration (modified in place by SetDefaults)
//   - director: Score director owning the working solution
//   - phases: Phases to run in order (see NewConstructionHeuristicPhase, NewLocalSearchPhase, NewCustomPhase)
//   - opts: Optional configuration (hooks, metrics, logger, yielder, seed)
//
// Returns:
//   - *Solver: Initialized solver
//   - error: ErrInvalidConfig, ErrScoreDirectorRequired or ErrNoPhases
//
// Example:
//
//	cfg := solvo.DefaultConfig()
//	cfg.Termination.SpentLimit = 10 * time.Second
//	ch, _ := solvo.NewConstructionHeuristicPhase(&cfg, placer)
//	ls, _ := solvo.NewLocalSearchPhase(&cfg, moves)
//	solver, err := solvo.NewSolver(&cfg, director, []solvo.Phase{ch, ls})
func NewSolver(cfg *Config, director ScoreDirector, phases []Phase, opts ...Option) (*Solver, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if director == nil {
		return nil, ErrScoreDirectorRequired
	}
	if len(phases) == 0 {
		return nil, ErrNoPhases
	}
	for i, p := range phases {
		if p == nil {
			return nil, fmt.Errorf("%w: phase (%d) is nil", ErrInvalidConfig, i)
		}
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &solverOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	newRunID := options.runID
	if newRunID == nil {
		newRunID = uuid.NewString
	}

	s := &Solver{
		cfg:          *cfg,
		director:     director,
		phases:       append([]Phase(nil), phases...),
		hooks:        hooks.WithDefaults(options.hooks),
		userBestHook: options.hooks != nil && options.hooks.OnBestSolutionChanged != nil,
		metrics:      metricsCollector,
		logger:       loggerInstance,
		yielder:      options.yielder,
		seed:         options.randomSeed,
		newRunID:     newRunID,
		gate:         yield.New(),
	}

	recallOpts := []recall.Option{
		recall.WithLogger(loggerInstance),
		recall.WithMetrics(metricsCollector),
		recall.WithBufferSize(cfg.EventBufferSize),
		recall.WithListener(s.onBestSolution),
	}
	for _, l := range options.listeners {
		recallOpts = append(recallOpts, recall.WithListener(l))
	}
	s.recaller = recall.New(recallOpts...)

	s.state.Store(int32(SolverStateIdle))
	s.runID.Store("")

	return s, nil
}

// Solve runs every phase in order and returns the best solution found.
//
// Phases that end gracefully (exhausted, terminated, no doable move, local
// optimum) hand over to the next phase. A fatal error stops the run: the
// remaining phases are skipped and the error is returned together with the
// best result found so far. Canceling ctx terminates the running phase and
// skips the remaining ones without an error.
//
// Parameters:
//   - ctx: Context bounding the run
//
// Returns:
//   - Result: Best solution, score and run statistics
//   - error: ErrAlreadySolving, or a fatal phase error
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	if !s.state.CompareAndSwap(int32(SolverStateIdle), int32(SolverStateSolving)) &&
		!s.state.CompareAndSwap(int32(SolverStateTerminated), int32(SolverStateSolving)) {
		return Result{}, ErrAlreadySolving
	}
	defer s.state.Store(int32(SolverStateTerminated))

	runID := s.newRunID()
	s.runID.Store(runID)
	s.runCtx = ctx

	seed := s.randomSeed()
	scope := types.NewSolverScope(ctx, runID, s.director, rand.New(rand.NewPCG(seed, seed^pcgStream)))
	scope.Yielder = s.checkpoint()
	scope.Recaller = s.recaller
	scope.Logger = s.logger
	scope.Metrics = s.metrics
	scope.Termination = s.cfg.Termination.BuildSolver()
	scope.AssertStepScoreFromScratch = s.cfg.EnvironmentMode.IsAsserted()
	scope.AssertMoveScoreFromScratch = s.cfg.EnvironmentMode.IsFullyAsserted()
	scope.AssertExpectedUndoMoveScore = s.cfg.EnvironmentMode.IsFullyAsserted()

	s.logger.Info("solving started",
		"runId", runID,
		"environmentMode", string(s.cfg.EnvironmentMode),
		"randomSeed", seed,
		"phaseCount", len(s.phases))

	s.solvingStarted(scope)

	result := Result{RunID: runID}
	var err error
	for i, p := range s.phases {
		if ctx.Err() != nil {
			s.logger.Debug("solving canceled before phase", "runId", runID, "phaseIndex", i, "error", ctx.Err())
			break
		}

		summary, perr := p.Solve(scope, i)
		result.Phases = append(result.Phases, summary)
		result.StepCount += summary.StepCount
		s.dispatch("OnPhaseEnded", func() error { return s.hooks.OnPhaseEnded(ctx, summary) })

		if perr != nil {
			err = fmt.Errorf("phase (%d) %s failed: %w", i, p.Type(), perr)
			break
		}
	}

	s.solvingEnded(scope)

	result.PhaseCount = len(result.Phases)
	result.BestScore = scope.BestScore
	result.BestSolution = scope.BestSolution
	result.Duration = scope.TimeSpent()
	result.CalculationCount = scope.CalculationCount()

	if err != nil {
		s.logger.Error("solving failed",
			"runId", runID,
			"timeSpent", result.Duration,
			"bestScore", scoreString(result.BestScore),
			"error", err)
		s.metrics.RecordSolvingDuration(result.Duration.Seconds(), "failed")
		s.dispatch("OnError", func() error { return s.hooks.OnError(ctx, err) })
	} else {
		s.logger.Info("solving ended",
			"runId", runID,
			"timeSpent", result.Duration,
			"bestScore", scoreString(result.BestScore),
			"stepTotal", result.StepCount,
			"calculationCount", result.CalculationCount)
		s.metrics.RecordSolvingDuration(result.Duration.Seconds(), "completed")
	}

	// Hooks may still reference the run; wait so none outlives Solve.
	s.wg.Wait()

	return result, err
}

func (s *Solver) solvingStarted(scope *types.SolverScope) {
	s.recaller.SolvingStarted(scope)
	if t := scope.Termination; t != nil {
		t.SolvingStarted(scope)
	}
	for _, p := range s.phases {
		p.SolvingStarted(scope)
	}
}

func (s *Solver) solvingEnded(scope *types.SolverScope) {
	for _, p := range s.phases {
		p.SolvingEnded(scope)
	}
	if t := scope.Termination; t != nil {
		t.SolvingEnded(scope)
	}
}

// randomSeed returns the seed of the next run.
func (s *Solver) randomSeed() uint64 {
	if s.seed != nil {
		return *s.seed
	}
	if s.cfg.EnvironmentMode.IsReproducible() {
		return s.cfg.RandomSeed
	}

	return rand.Uint64()
}

// checkpoint chains the pause gate and the user yielder.
func (s *Solver) checkpoint() Yielder {
	if s.yielder == nil {
		return s.gate
	}

	return types.YielderFunc(func(ctx context.Context) error {
		if err := s.gate.CheckYield(ctx); err != nil {
			return err
		}

		return s.yielder.CheckYield(ctx)
	})
}

// onBestSolution runs on the step loop for every best-solution event.
func (s *Solver) onBestSolution(event types.BestSolutionEvent) {
	if !s.userBestHook {
		return
	}

	ctx := s.runCtx
	s.dispatch("OnBestSolutionChanged", func() error { return s.hooks.OnBestSolutionChanged(ctx, event) })
}

// dispatch runs a hook in the background so it never blocks the step loop.
func (s *Solver) dispatch(name string, fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(); err != nil {
			s.logger.Error("hook error", "hook", name, "runId", s.RunID(), "error", err)
		}
	}()
}

// Subscribe returns a channel of best-solution events.
//
// Events are never blocking the solver: when the subscriber's buffer
// (Config.EventBufferSize) is full the event is dropped. The channel stays
// open across runs until unsubscribe or Close is called.
//
// Returns:
//   - <-chan BestSolutionEvent: Buffered event channel
//   - func(): Unsubscribe function closing the channel
func (s *Solver) Subscribe() (<-chan BestSolutionEvent, func()) {
	return s.recaller.Subscribe()
}

// LastBestSolution returns the most recent best-solution event of the current or last run.
func (s *Solver) LastBestSolution() (BestSolutionEvent, bool) {
	return s.recaller.Last()
}

// Pause suspends the step loop at the next candidate move boundary.
func (s *Solver) Pause() {
	s.gate.Pause()
	s.logger.Info("solver paused", "runId", s.RunID())
}

// Resume continues a paused step loop.
func (s *Solver) Resume() {
	s.gate.Resume()
	s.logger.Info("solver resumed", "runId", s.RunID())
}

// IsPaused reports whether the solver is paused.
func (s *Solver) IsPaused() bool {
	return s.gate.IsPaused()
}

// State returns the current solver state.
func (s *Solver) State() SolverState {
	return SolverState(s.state.Load())
}

// RunID returns the identifier of the current or last run ("" before the first run).
func (s *Solver) RunID() string {
	id, _ := s.runID.Load().(string)
	return id
}

// Close closes every best-solution subscription.
func (s *Solver) Close() {
	s.recaller.Close()
}

func scoreString(sc Score) string {
	if sc == nil {
		return "<none>"
	}

	return sc.String()
}
