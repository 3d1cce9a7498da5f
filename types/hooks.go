package types

import (
	"context"
	"time"
)

// BestSolutionEvent announces a new best solution.
type BestSolutionEvent struct {
	// RunID identifies the solver run.
	RunID string `json:"runId"`

	// PhaseIndex and StepIndex locate the step that produced the solution.
	PhaseIndex int `json:"phaseIndex"`
	StepIndex  int `json:"stepIndex"`

	// Score is the best score.
	Score Score `json:"-"`

	// ScoreString is Score.String(), kept for serialized sinks.
	ScoreString string `json:"score"`

	// Feasible reports Score.IsFeasible().
	Feasible bool `json:"feasible"`

	// Solution is a clone of the best solution. Never mutated by the solver.
	Solution any `json:"-"`

	// TimeSpent is the solving time when the solution was found.
	TimeSpent time.Duration `json:"timeSpent"`

	// PhaseEnded is true for the event emitted by the end-of-phase flush.
	PhaseEnded bool `json:"phaseEnded"`
}

// PhaseSummary describes a finished phase.
type PhaseSummary struct {
	PhaseIndex            int
	PhaseType             PhaseType
	Outcome               PhaseOutcome
	StepCount             int
	BestScore             Score
	TimeSpent             time.Duration
	ScoreCalculationSpeed float64
}

// Hooks defines callbacks for solver lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// so they never block the step loop. Solve waits for outstanding hooks before
// it returns.
//
// Hook execution behavior:
//   - Hooks may run concurrently with each other
//   - Hook errors are logged but don't fail solving
//   - The context passed to hooks is the Solve context
type Hooks struct {
	// OnBestSolutionChanged is called when the best solution improves and at
	// each phase end where the best solution changed since the previous flush.
	OnBestSolutionChanged func(ctx context.Context, event BestSolutionEvent) error

	// OnPhaseEnded is called after each phase ends.
	OnPhaseEnded func(ctx context.Context, summary PhaseSummary) error

	// OnError is called when solving aborts with a fatal error.
	OnError func(ctx context.Context, err error) error
}
