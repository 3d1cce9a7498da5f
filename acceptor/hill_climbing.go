package acceptor

import (
	"github.com/arloliu/solvo/types"
)

// HillClimbing accepts a move iff its score is at least the last step score.
type HillClimbing struct {
	types.NopLifecycle
}

var _ types.Acceptor = (*HillClimbing)(nil)

// NewHillClimbing creates a hill climbing acceptor.
func NewHillClimbing() *HillClimbing {
	return &HillClimbing{}
}

// IsAccepted reports whether the move does not worsen the last step score.
func (a *HillClimbing) IsAccepted(m *types.MoveScope) bool {
	return types.ScoreAtLeast(m.Score, m.LastStepScore())
}

// StepCountingHillClimbing accepts a move iff its score is at least a
// threshold score that is refreshed to the step score every n steps.
//
// Moves that do not worsen the last step score are always accepted.
type StepCountingHillClimbing struct {
	types.NopLifecycle

	stepCountingSize int

	thresholdScore types.Score
	count          int
}

var _ types.Acceptor = (*StepCountingHillClimbing)(nil)

// NewStepCountingHillClimbing creates a step counting hill climbing acceptor.
//
// Parameters:
//   - size: Steps between threshold refreshes (values below 1 are treated as 1)
//
// Returns:
//   - *StepCountingHillClimbing: Acceptor
func NewStepCountingHillClimbing(size int) *StepCountingHillClimbing {
	if size < 1 {
		size = 1
	}

	return &StepCountingHillClimbing{stepCountingSize: size}
}

// PhaseStarted sets the threshold to the starting score.
func (a *StepCountingHillClimbing) PhaseStarted(p *types.PhaseScope) {
	a.thresholdScore = p.LastCompletedStepScore
	a.count = 0
}

// IsAccepted reports whether the move reaches the last step score or the threshold.
func (a *StepCountingHillClimbing) IsAccepted(m *types.MoveScope) bool {
	if types.ScoreAtLeast(m.Score, m.LastStepScore()) {
		return true
	}

	return types.ScoreAtLeast(m.Score, a.thresholdScore)
}

// StepEnded refreshes the threshold every size steps.
func (a *StepCountingHillClimbing) StepEnded(st *types.StepScope) {
	a.count++
	if a.count >= a.stepCountingSize {
		a.thresholdScore = st.Score
		a.count = 0
	}
}

// PhaseEnded clears the threshold.
func (a *StepCountingHillClimbing) PhaseEnded(*types.PhaseScope) {
	a.thresholdScore = nil
	a.count = 0
}
