package types

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// SolverScope holds the state of one solver run.
//
// It is created by Solve and passed down to every phase; nothing retains it
// after Solve returns.
type SolverScope struct {
	ctx context.Context

	// RunID uniquely identifies the solver run.
	RunID string

	// Director owns the working solution.
	Director ScoreDirector

	// Rand is the seeded random source shared by all policies of the run.
	Rand *rand.Rand

	// Yielder is the cooperative checkpoint (nil means never yield).
	Yielder Yielder

	// Recaller tracks the best solution (nil disables recall).
	Recaller BestSolutionRecaller

	// Logger receives phase and step diagnostics (nil means discard).
	Logger Logger

	// Metrics receives phase and step metrics (nil means discard).
	Metrics MetricsCollector

	// Termination is the solver-level termination checked by every phase in
	// addition to its own (nil means none).
	Termination Termination

	// StartTime is when solving started.
	StartTime time.Time

	// BestScore is the best score seen so far. Updated by the recaller only.
	BestScore Score

	// BestSolution is a clone of the best working solution. Updated by the recaller only.
	BestSolution any

	// BestPhaseIndex and BestStepIndex locate the step that produced BestSolution.
	BestPhaseIndex int
	BestStepIndex  int

	// CurrentPhaseIndex is the index of the running phase.
	CurrentPhaseIndex int

	// AssertMoveScoreFromScratch recalculates every speculative move score from scratch.
	AssertMoveScoreFromScratch bool

	// AssertExpectedUndoMoveScore verifies that undo moves restore the last step score.
	AssertExpectedUndoMoveScore bool

	// AssertStepScoreFromScratch verifies every committed step score from scratch.
	AssertStepScoreFromScratch bool

	startCalculationCount int64
}

// NewSolverScope creates a solver scope.
//
// Parameters:
//   - ctx: Context of the Solve call
//   - runID: Unique run identifier
//   - director: Score director owning the working solution
//   - rnd: Seeded random source
//
// Returns:
//   - *SolverScope: Initialized scope with StartTime set to now
func NewSolverScope(ctx context.Context, runID string, director ScoreDirector, rnd *rand.Rand) *SolverScope {
	s := &SolverScope{
		ctx:            ctx,
		RunID:          runID,
		Director:       director,
		Rand:           rnd,
		StartTime:      time.Now(),
		BestPhaseIndex: -1,
		BestStepIndex:  -1,
	}
	if director != nil {
		s.startCalculationCount = director.CalculationCount()
	}

	return s
}

// Context returns the context of the Solve call.
func (s *SolverScope) Context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}

	return s.ctx
}

// CheckYield runs the cooperative checkpoint.
//
// Returns:
//   - error: Non-nil when the yielder asks the scan to stop
func (s *SolverScope) CheckYield() error {
	if s.Yielder == nil {
		return nil
	}

	return s.Yielder.CheckYield(s.Context())
}

// TimeSpent returns the time elapsed since solving started.
func (s *SolverScope) TimeSpent() time.Duration {
	return time.Since(s.StartTime)
}

// CalculationCount returns the score calculations done during this run.
func (s *SolverScope) CalculationCount() int64 {
	if s.Director == nil {
		return 0
	}

	return s.Director.CalculationCount() - s.startCalculationCount
}

// PhaseScope holds the state of one phase execution.
type PhaseScope struct {
	// Solver is the enclosing solver scope.
	Solver *SolverScope

	// PhaseIndex is the position of the phase in the solver's phase list.
	PhaseIndex int

	// PhaseType is the algorithm of the phase.
	PhaseType PhaseType

	// StartTime and EndTime bound the phase execution.
	StartTime time.Time
	EndTime   time.Time

	// StartingScore is the working score when the phase started.
	StartingScore Score

	// LastCompletedStepIndex is -1 before the first committed step.
	LastCompletedStepIndex int

	// LastCompletedStepScore is the working score after the last committed
	// step (StartingScore before the first one).
	LastCompletedStepScore Score

	// NextStepIndex is the index the next step will get.
	NextStepIndex int

	// BestSolutionStepIndex is the last step of this phase that improved the best score.
	BestSolutionStepIndex int

	// Outcome records why the phase stopped.
	Outcome PhaseOutcome

	startCalculationCount int64
	timeGradient          float64
}

// NewPhaseScope creates a phase scope and snapshots the starting score.
//
// Parameters:
//   - s: Enclosing solver scope
//   - phaseIndex: Position of the phase
//   - phaseType: Algorithm of the phase
//
// Returns:
//   - *PhaseScope: Initialized scope
func NewPhaseScope(s *SolverScope, phaseIndex int, phaseType PhaseType) *PhaseScope {
	p := &PhaseScope{
		Solver:                 s,
		PhaseIndex:             phaseIndex,
		PhaseType:              phaseType,
		StartTime:              time.Now(),
		LastCompletedStepIndex: -1,
		BestSolutionStepIndex:  -1,
		startCalculationCount:  s.CalculationCount(),
	}
	if s.Director != nil {
		p.StartingScore = s.Director.CalculateScore()
	}
	p.LastCompletedStepScore = p.StartingScore

	return p
}

// Director returns the score director of the run.
func (p *PhaseScope) Director() ScoreDirector {
	return p.Solver.Director
}

// BestScore returns the best score of the run so far.
func (p *PhaseScope) BestScore() Score {
	return p.Solver.BestScore
}

// TimeSpent returns the time elapsed since the phase started.
func (p *PhaseScope) TimeSpent() time.Duration {
	if !p.EndTime.IsZero() {
		return p.EndTime.Sub(p.StartTime)
	}

	return time.Since(p.StartTime)
}

// StepCount returns the number of committed steps.
func (p *PhaseScope) StepCount() int {
	return p.LastCompletedStepIndex + 1
}

// CalculationCount returns the score calculations done during this phase.
func (p *PhaseScope) CalculationCount() int64 {
	return p.Solver.CalculationCount() - p.startCalculationCount
}

// ScoreCalculationSpeed returns score calculations per second in this phase.
func (p *PhaseScope) ScoreCalculationSpeed() float64 {
	seconds := p.TimeSpent().Seconds()
	if seconds <= 0 {
		return 0
	}

	return float64(p.CalculationCount()) / seconds
}

// ObserveTimeGradient clamps g to [0,1] and never lets the phase gradient decrease.
//
// Parameters:
//   - g: Gradient reported by the termination
//
// Returns:
//   - float64: Monotonic gradient for the current step
func (p *PhaseScope) ObserveTimeGradient(g float64) float64 {
	switch {
	case math.IsNaN(g):
		g = 0
	case g < 0:
		g = 0
	case g > 1:
		g = 1
	}
	if g > p.timeGradient {
		p.timeGradient = g
	}

	return p.timeGradient
}

// CompleteStep records st as the last completed step.
func (p *PhaseScope) CompleteStep(st *StepScope) {
	p.LastCompletedStepIndex = st.StepIndex
	p.LastCompletedStepScore = st.Score
}

// StepScope holds the state of one step.
type StepScope struct {
	// Phase is the enclosing phase scope.
	Phase *PhaseScope

	// StepIndex is the position of the step in the phase.
	StepIndex int

	// Step is the picked move (nil when no step was decided).
	Step Move

	// StepString is the description of Step, filled in when debug output is wanted.
	StepString string

	// UndoStep is the inverse of Step, set once the step is committed.
	UndoStep Move

	// Score is the working score with Step applied.
	Score Score

	// BestScoreImproved is set by the recaller when this step improved the best score.
	BestScoreImproved bool

	// TimeGradient is the phase progress when the step started.
	TimeGradient float64

	// SelectedMoveCount counts doable moves evaluated in this step.
	SelectedMoveCount int64

	// AcceptedMoveCount counts moves the acceptor accepted in this step.
	AcceptedMoveCount int64
}

// NewStepScope creates the scope of the next step of p.
func NewStepScope(p *PhaseScope) *StepScope {
	return &StepScope{
		Phase:     p,
		StepIndex: p.NextStepIndex,
	}
}

// Director returns the score director of the run.
func (st *StepScope) Director() ScoreDirector {
	return st.Phase.Solver.Director
}

// Rand returns the random source of the run.
func (st *StepScope) Rand() *rand.Rand {
	return st.Phase.Solver.Rand
}

// MoveScope holds the evaluation of one candidate move.
type MoveScope struct {
	// Step is the enclosing step scope.
	Step *StepScope

	// MoveIndex is the position of the move in the selector sequence.
	MoveIndex int

	// Move is the candidate.
	Move Move

	// Score is the working score with the move applied speculatively.
	Score Score

	// Accepted records the acceptor decision.
	Accepted bool
}

// NewMoveScope creates the scope of one candidate move.
func NewMoveScope(st *StepScope, index int, move Move) *MoveScope {
	return &MoveScope{Step: st, MoveIndex: index, Move: move}
}

// LastStepScore returns the working score before this step.
func (m *MoveScope) LastStepScore() Score {
	return m.Step.Phase.LastCompletedStepScore
}

// BestScore returns the best score of the run so far.
func (m *MoveScope) BestScore() Score {
	return m.Step.Phase.Solver.BestScore
}

// TimeGradient returns the phase progress of the enclosing step.
func (m *MoveScope) TimeGradient() float64 {
	return m.Step.TimeGradient
}

// Rand returns the random source of the run.
func (m *MoveScope) Rand() *rand.Rand {
	return m.Step.Phase.Solver.Rand
}
