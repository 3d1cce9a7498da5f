package types

// MetricsCollector defines methods for recording solver metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from several solver runs concurrently and must be
// thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	SolverMetrics
	PhaseMetrics
	StepMetrics
	ScoreMetrics
}

// SolverMetrics defines metrics for whole solver runs.
type SolverMetrics interface {
	// RecordSolvingDuration records the duration of a Solve call.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - outcome: "completed" or "failed"
	RecordSolvingDuration(duration float64, outcome string)

	// RecordBestScoreImproved records a new best score.
	//
	// Parameters:
	//   - phaseType: Phase that produced the improvement
	//   - levels: Score levels of the new best score
	RecordBestScoreImproved(phaseType PhaseType, levels []float64)

	// RecordBestSolutionEventDropped records an event dropped because a subscriber was slow.
	RecordBestSolutionEventDropped()
}

// PhaseMetrics defines metrics for phase executions.
type PhaseMetrics interface {
	// RecordPhaseDuration records how long a phase ran.
	//
	// Parameters:
	//   - phaseType: Algorithm of the phase
	//   - outcome: PhaseOutcome string
	//   - duration: Time taken in seconds
	RecordPhaseDuration(phaseType PhaseType, outcome string, duration float64)

	// RecordStepCount records the number of committed steps of a phase.
	RecordStepCount(phaseType PhaseType, steps int)
}

// StepMetrics defines per-step metrics.
type StepMetrics interface {
	// RecordMoveCountPerStep records the selected and accepted move counts of a step.
	RecordMoveCountPerStep(phaseType PhaseType, selected, accepted int64)
}

// ScoreMetrics defines score calculation metrics.
type ScoreMetrics interface {
	// RecordScoreCalculationSpeed records score calculations per second of a phase.
	RecordScoreCalculationSpeed(phaseType PhaseType, perSecond float64)

	// RecordConstraintMatchTotal records the match count and score of a constraint.
	//
	// Parameters:
	//   - constraintID: Constraint identifier
	//   - count: Number of matches
	//   - levels: Score impact levels
	RecordConstraintMatchTotal(constraintID string, count int, levels []float64)
}
