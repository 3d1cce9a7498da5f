// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/arloliu/solvo/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. It is the default collector of a Solver.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// SolverMetrics implementation

// RecordSolvingDuration discards the solving duration metric.
func (n *NopMetrics) RecordSolvingDuration(_ /* duration */ float64, _ /* outcome */ string) {}

// RecordBestScoreImproved discards the best score metric.
func (n *NopMetrics) RecordBestScoreImproved(_ /* phaseType */ types.PhaseType, _ /* levels */ []float64) {
}

// RecordBestSolutionEventDropped discards the dropped event metric.
func (n *NopMetrics) RecordBestSolutionEventDropped() {}

// PhaseMetrics implementation

// RecordPhaseDuration discards the phase duration metric.
func (n *NopMetrics) RecordPhaseDuration(_ /* phaseType */ types.PhaseType, _ /* outcome */ string, _ /* duration */ float64) {
}

// RecordStepCount discards the step count metric.
func (n *NopMetrics) RecordStepCount(_ /* phaseType */ types.PhaseType, _ /* steps */ int) {}

// StepMetrics implementation

// RecordMoveCountPerStep discards the move count metric.
func (n *NopMetrics) RecordMoveCountPerStep(_ /* phaseType */ types.PhaseType, _ /* selected */, _ /* accepted */ int64) {
}

// ScoreMetrics implementation

// RecordScoreCalculationSpeed discards the score calculation speed metric.
func (n *NopMetrics) RecordScoreCalculationSpeed(_ /* phaseType */ types.PhaseType, _ /* perSecond */ float64) {
}

// RecordConstraintMatchTotal discards the constraint match metric.
func (n *NopMetrics) RecordConstraintMatchTotal(_ /* constraintID */ string, _ /* count */ int, _ /* levels */ []float64) {
}
