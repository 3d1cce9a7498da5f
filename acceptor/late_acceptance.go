package acceptor

import (
	"github.com/arloliu/solvo/types"
)

// LateAcceptance accepts a move iff its score is at least the step score of
// size steps ago, or at least the last step score.
type LateAcceptance struct {
	types.NopLifecycle

	size int

	previousScores []types.Score
	index          int
}

var _ types.Acceptor = (*LateAcceptance)(nil)

// NewLateAcceptance creates a late acceptance acceptor.
//
// Parameters:
//   - size: Length of the late score history (values below 1 are treated as 1)
//
// Returns:
//   - *LateAcceptance: Acceptor
func NewLateAcceptance(size int) *LateAcceptance {
	if size < 1 {
		size = 1
	}

	return &LateAcceptance{size: size}
}

// PhaseStarted fills the history with the starting score.
func (a *LateAcceptance) PhaseStarted(p *types.PhaseScope) {
	a.previousScores = make([]types.Score, a.size)
	for i := range a.previousScores {
		a.previousScores[i] = p.LastCompletedStepScore
	}
	a.index = 0
}

// IsAccepted reports whether the move reaches the late score or the last step score.
func (a *LateAcceptance) IsAccepted(m *types.MoveScope) bool {
	if types.ScoreAtLeast(m.Score, a.previousScores[a.index]) {
		return true
	}

	return types.ScoreAtLeast(m.Score, m.LastStepScore())
}

// StepEnded stores the step score in the history.
func (a *LateAcceptance) StepEnded(st *types.StepScope) {
	a.previousScores[a.index] = st.Score
	a.index = (a.index + 1) % a.size
}

// PhaseEnded drops the history.
func (a *LateAcceptance) PhaseEnded(*types.PhaseScope) {
	a.previousScores = nil
	a.index = 0
}
