package phase

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/arloliu/solvo/internal/logger"
	"github.com/arloliu/solvo/internal/metrics"
	"github.com/arloliu/solvo/types"
)

// Phase is one algorithm stage of a solver run.
type Phase interface {
	// Type returns the algorithm of the phase.
	Type() types.PhaseType

	// SolvingStarted forwards the solving start to the phase components.
	SolvingStarted(s *types.SolverScope)

	// Solve runs the phase to completion, termination or failure.
	Solve(s *types.SolverScope, phaseIndex int) (types.PhaseSummary, error)

	// SolvingEnded forwards the solving end to the phase components.
	SolvingEnded(s *types.SolverScope)

	// State returns the current lifecycle state of the phase.
	State() types.PhaseState
}

// Stepper is the capability a phase variant plugs into the Runner.
type Stepper interface {
	// PhaseStarted prepares the variant for a new phase.
	PhaseStarted(p *types.PhaseScope)

	// DecideNextStep fills st.Step and st.Score with the step to commit.
	//
	// Leaving st.Step nil ends the phase; the variant records why in
	// st.Phase.Outcome. A non-nil error is fatal and aborts the run.
	DecideNextStep(st *types.StepScope) error

	// PhaseEnded releases the per-phase state of the variant.
	PhaseEnded(p *types.PhaseScope)
}

// Runner is the phase lifecycle state machine shared by all variants.
//
// State transitions:
//
//	Idle → Started → Stepping → Ended → Idle
//
// A Runner is not safe for concurrent Solve calls; a re-entrant call returns
// types.ErrPhaseAlreadyRunning.
type Runner struct {
	phaseType   types.PhaseType
	stepper     Stepper
	termination types.Termination
	listeners   types.Listeners

	state atomic.Int32

	// interrupted holds the yielder error that stopped the current phase.
	interrupted error
}

var _ Phase = (*Runner)(nil)

// NewRunner creates a phase state machine.
//
// Parameters:
//   - phaseType: Algorithm of the phase (reported in metrics and summaries)
//   - stepper: Variant deciding the next step
//   - termination: Phase termination (nil means the phase only ends on exhaustion)
//   - components: Nested policies receiving the lifecycle calls, in order
//
// Returns:
//   - *Runner: Runner in Idle state
func NewRunner(phaseType types.PhaseType, stepper Stepper, termination types.Termination, components ...types.PhaseLifecycleListener) *Runner {
	listeners := make(types.Listeners, 0, len(components)+1)
	listeners = append(listeners, components...)
	if termination != nil {
		listeners = append(listeners, termination)
	}

	r := &Runner{
		phaseType:   phaseType,
		stepper:     stepper,
		termination: termination,
		listeners:   listeners,
	}
	r.state.Store(int32(types.PhaseStateIdle))

	return r
}

// Type returns the algorithm of the phase.
func (r *Runner) Type() types.PhaseType {
	return r.phaseType
}

// State returns the current lifecycle state.
func (r *Runner) State() types.PhaseState {
	return types.PhaseState(r.state.Load())
}

// SolvingStarted forwards the call to the nested policies.
func (r *Runner) SolvingStarted(s *types.SolverScope) {
	r.listeners.SolvingStarted(s)
}

// SolvingEnded forwards the call to the nested policies.
func (r *Runner) SolvingEnded(s *types.SolverScope) {
	r.listeners.SolvingEnded(s)
}

// Solve runs the step loop of one phase.
//
// Parameters:
//   - s: Solver scope of the run
//   - phaseIndex: Position of the phase in the solver
//
// Returns:
//   - types.PhaseSummary: Outcome, step count and best score of the phase
//   - error: Fatal inconsistency (wrapping types.ErrStepNotPicked or an assertion error)
func (r *Runner) Solve(s *types.SolverScope, phaseIndex int) (summary types.PhaseSummary, err error) {
	if !r.state.CompareAndSwap(int32(types.PhaseStateIdle), int32(types.PhaseStateStarted)) {
		return types.PhaseSummary{}, fmt.Errorf("%w: phase (%d) is %s", types.ErrPhaseAlreadyRunning, phaseIndex, r.State())
	}

	s.CurrentPhaseIndex = phaseIndex
	r.interrupted = nil
	p := types.NewPhaseScope(s, phaseIndex, r.phaseType)

	r.listeners.PhaseStarted(p)
	r.stepper.PhaseStarted(p)

	defer func() {
		if err != nil {
			p.Outcome = types.PhaseOutcomeFailed
		}
		summary = r.endPhase(p)
	}()

	r.state.Store(int32(types.PhaseStateStepping))
	for {
		if r.IsTerminated(p) {
			p.Outcome = types.PhaseOutcomeTerminated
			break
		}

		st := types.NewStepScope(p)
		st.TimeGradient = r.TimeGradient(p)
		r.listeners.StepStarted(st)

		if err := r.stepper.DecideNextStep(st); err != nil {
			return summary, err
		}
		if st.Step == nil {
			// StepEnded is not called for an undecided step.
			break
		}

		if err := r.doStep(st); err != nil {
			return summary, err
		}
		r.stepEnded(st)
	}

	return summary, nil
}

// IsTerminated reports whether the phase must stop.
//
// The phase stops when the phase termination or the solver termination
// fires, when the solve context is done or when the yield checkpoint failed.
func (r *Runner) IsTerminated(p *types.PhaseScope) bool {
	if r.interrupted != nil {
		return true
	}
	if p.Solver.Context().Err() != nil {
		return true
	}
	if r.termination != nil && r.termination.IsPhaseTerminated(p) {
		return true
	}
	if t := p.Solver.Termination; t != nil && t.IsPhaseTerminated(p) {
		return true
	}

	return false
}

// TimeGradient returns the monotonic phase progress in [0,1].
//
// The gradient is the maximum of the phase and solver termination
// gradients, clamped and never lower than a previous observation.
func (r *Runner) TimeGradient(p *types.PhaseScope) float64 {
	var g float64
	if r.termination != nil {
		g = r.termination.PhaseTimeGradient(p)
	}
	if t := p.Solver.Termination; t != nil {
		if sg := t.PhaseTimeGradient(p); sg > g {
			g = sg
		}
	}

	return p.ObserveTimeGradient(g)
}

// Checkpoint runs the cooperative yield check after a candidate move and
// reports whether the scan must stop.
func (r *Runner) Checkpoint(st *types.StepScope) bool {
	if err := st.Phase.Solver.CheckYield(); err != nil {
		if r.interrupted == nil {
			logOf(st.Phase.Solver).Debug("yield checkpoint interrupted phase",
				"phaseIndex", st.Phase.PhaseIndex,
				"stepIndex", st.StepIndex,
				"error", err)
		}
		r.interrupted = err
	}

	return r.IsTerminated(st.Phase)
}

// YieldOnly runs the cooperative yield check without polling termination
// and reports whether the yielder interrupted the phase.
func (r *Runner) YieldOnly(st *types.StepScope) bool {
	if err := st.Phase.Solver.CheckYield(); err != nil {
		r.interrupted = err
	}

	return r.interrupted != nil
}

// DiagnoseNoStep classifies a step that ended without a picked move.
//
// Cases:
//   - terminated: expected, debug log, PhaseOutcomeTerminated
//   - zero selected moves: graceful, warning, PhaseOutcomeNoDoableMove
//   - selected moves but no pick: fatal, returns wrapped types.ErrStepNotPicked
//
// A local search step whose acceptor rejected every selected move is fatal
// too; end such a phase with a termination, e.g. a best score limit.
func (r *Runner) DiagnoseNoStep(st *types.StepScope) error {
	p := st.Phase
	log := logOf(p.Solver)

	switch {
	case r.IsTerminated(p):
		p.Outcome = types.PhaseOutcomeTerminated
		log.Debug("step terminated without picking a next step",
			"phaseIndex", p.PhaseIndex,
			"stepIndex", st.StepIndex,
			"timeSpent", p.Solver.TimeSpent())

		return nil
	case st.SelectedMoveCount == 0:
		p.Outcome = types.PhaseOutcomeNoDoableMove
		log.Warn("no doable selected move, terminating phase early",
			"phaseIndex", p.PhaseIndex,
			"phaseType", p.PhaseType.String(),
			"stepIndex", st.StepIndex,
			"timeSpent", p.Solver.TimeSpent())

		return nil
	default:
		p.Outcome = types.PhaseOutcomeFailed

		return fmt.Errorf("%w: step index (%d) has accepted/selected move count (%d/%d)",
			types.ErrStepNotPicked, st.StepIndex, st.AcceptedMoveCount, st.SelectedMoveCount)
	}
}

// doStep commits the decided step and reports it to the recaller.
func (r *Runner) doStep(st *types.StepScope) error {
	s := st.Phase.Solver
	d := s.Director

	st.UndoStep = st.Step.Do(d)
	if s.AssertStepScoreFromScratch {
		if err := d.AssertWorkingScoreFromScratch(st.Score, "step "+st.Step.String()); err != nil {
			return err
		}
	}

	if s.Recaller != nil {
		s.Recaller.ProcessCandidate(st)
	}
	if st.BestScoreImproved {
		st.Phase.BestSolutionStepIndex = st.StepIndex
	}

	return nil
}

func (r *Runner) stepEnded(st *types.StepScope) {
	p := st.Phase
	s := p.Solver

	r.listeners.StepEnded(st)
	p.CompleteStep(st)
	p.NextStepIndex++

	m := metricsOf(s)
	m.RecordMoveCountPerStep(r.phaseType, st.SelectedMoveCount, st.AcceptedMoveCount)
	if r.phaseType == types.PhaseLocalSearch && s.Director.ConstraintMatchEnabled() {
		for id, total := range s.Director.ConstraintMatchTotals() {
			var levels []float64
			if total.Score != nil {
				levels = total.Score.Levels()
			}
			m.RecordConstraintMatchTotal(id, total.MatchCount, levels)
		}
	}

	stepString := st.StepString
	if stepString == "" && st.Step != nil {
		stepString = st.Step.String()
	}
	logOf(s).Debug("step ended",
		"phaseType", r.phaseType.String(),
		"stepIndex", st.StepIndex,
		"timeSpent", s.TimeSpent(),
		"score", scoreString(st.Score),
		"bestScoreImproved", st.BestScoreImproved,
		"bestScore", scoreString(s.BestScore),
		"acceptedMoveCount", st.AcceptedMoveCount,
		"selectedMoveCount", st.SelectedMoveCount,
		"pickedMove", stepString)
}

func (r *Runner) endPhase(p *types.PhaseScope) types.PhaseSummary {
	s := p.Solver
	r.state.Store(int32(types.PhaseStateEnded))

	r.stepper.PhaseEnded(p)
	r.listeners.PhaseEnded(p)
	if s.Recaller != nil {
		s.Recaller.Flush(s)
	}
	p.EndTime = time.Now()

	summary := types.PhaseSummary{
		PhaseIndex:            p.PhaseIndex,
		PhaseType:             p.PhaseType,
		Outcome:               p.Outcome,
		StepCount:             p.StepCount(),
		BestScore:             s.BestScore,
		TimeSpent:             p.TimeSpent(),
		ScoreCalculationSpeed: p.ScoreCalculationSpeed(),
	}

	m := metricsOf(s)
	m.RecordPhaseDuration(p.PhaseType, p.Outcome.String(), summary.TimeSpent.Seconds())
	m.RecordStepCount(p.PhaseType, summary.StepCount)
	m.RecordScoreCalculationSpeed(p.PhaseType, summary.ScoreCalculationSpeed)

	logOf(s).Info("phase ended",
		"phaseIndex", p.PhaseIndex,
		"phaseType", p.PhaseType.String(),
		"outcome", p.Outcome.String(),
		"timeSpent", summary.TimeSpent,
		"bestScore", scoreString(s.BestScore),
		"scoreCalculationSpeed", int64(summary.ScoreCalculationSpeed),
		"stepTotal", summary.StepCount)

	r.state.Store(int32(types.PhaseStateIdle))

	return summary
}

func logOf(s *types.SolverScope) types.Logger {
	if s.Logger == nil {
		return logger.NewNop()
	}

	return s.Logger
}

func metricsOf(s *types.SolverScope) types.MetricsCollector {
	if s.Metrics == nil {
		return metrics.NewNop()
	}

	return s.Metrics
}

func scoreString(sc types.Score) string {
	if sc == nil {
		return "<none>"
	}

	return sc.String()
}
