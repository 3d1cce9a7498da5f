package termination

import (
	"time"

	"github.com/arloliu/solvo/types"
)

// TimeLimit terminates a phase after it ran for the given duration.
type TimeLimit struct {
	types.NopLifecycle

	limit time.Duration
}

var _ types.Termination = (*TimeLimit)(nil)

// NewTimeLimit creates a phase time limit.
func NewTimeLimit(limit time.Duration) *TimeLimit {
	return &TimeLimit{limit: limit}
}

// IsPhaseTerminated reports whether the phase time budget is spent.
func (t *TimeLimit) IsPhaseTerminated(p *types.PhaseScope) bool {
	return p.TimeSpent() >= t.limit
}

// PhaseTimeGradient returns the spent share of the phase time budget.
func (t *TimeLimit) PhaseTimeGradient(p *types.PhaseScope) float64 {
	return ratio(float64(p.TimeSpent()), float64(t.limit))
}

// SolverTimeLimit terminates every phase once the solver ran for the given duration.
type SolverTimeLimit struct {
	types.NopLifecycle

	limit time.Duration
}

var _ types.Termination = (*SolverTimeLimit)(nil)

// NewSolverTimeLimit creates a solver time limit.
func NewSolverTimeLimit(limit time.Duration) *SolverTimeLimit {
	return &SolverTimeLimit{limit: limit}
}

// IsPhaseTerminated reports whether the solver time budget is spent.
func (t *SolverTimeLimit) IsPhaseTerminated(p *types.PhaseScope) bool {
	return p.Solver.TimeSpent() >= t.limit
}

// PhaseTimeGradient returns the spent share of the solver time budget.
func (t *SolverTimeLimit) PhaseTimeGradient(p *types.PhaseScope) float64 {
	return ratio(float64(p.Solver.TimeSpent()), float64(t.limit))
}

// StepCountLimit terminates a phase after the given number of steps.
type StepCountLimit struct {
	types.NopLifecycle

	limit int
}

var _ types.Termination = (*StepCountLimit)(nil)

// NewStepCountLimit creates a step count limit.
func NewStepCountLimit(limit int) *StepCountLimit {
	return &StepCountLimit{limit: limit}
}

// IsPhaseTerminated reports whether the phase committed limit steps.
func (t *StepCountLimit) IsPhaseTerminated(p *types.PhaseScope) bool {
	return p.NextStepIndex >= t.limit
}

// PhaseTimeGradient returns the share of steps done.
func (t *StepCountLimit) PhaseTimeGradient(p *types.PhaseScope) float64 {
	return ratio(float64(p.NextStepIndex), float64(t.limit))
}

// UnimprovedStepCount terminates a phase after the given number of steps
// without a best score improvement.
type UnimprovedStepCount struct {
	types.NopLifecycle

	limit int
}

var _ types.Termination = (*UnimprovedStepCount)(nil)

// NewUnimprovedStepCount creates an unimproved step count limit.
func NewUnimprovedStepCount(limit int) *UnimprovedStepCount {
	return &UnimprovedStepCount{limit: limit}
}

// IsPhaseTerminated reports whether limit steps passed without improvement.
func (t *UnimprovedStepCount) IsPhaseTerminated(p *types.PhaseScope) bool {
	return unimprovedSteps(p) >= t.limit
}

// PhaseTimeGradient returns the share of the unimproved step budget spent.
func (t *UnimprovedStepCount) PhaseTimeGradient(p *types.PhaseScope) float64 {
	return ratio(float64(unimprovedSteps(p)), float64(t.limit))
}

func unimprovedSteps(p *types.PhaseScope) int {
	return p.LastCompletedStepIndex - p.BestSolutionStepIndex
}

// ratio returns done/total clamped to [0,1]; a non-positive total is already spent.
func ratio(done, total float64) float64 {
	if total <= 0 {
		return 1
	}
	r := done / total
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
