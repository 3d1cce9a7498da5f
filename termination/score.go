package termination

import (
	"github.com/arloliu/solvo/types"
)

// BestScore terminates a phase once the best score reaches a target.
type BestScore struct {
	types.NopLifecycle

	target types.Score
}

var _ types.Termination = (*BestScore)(nil)

// NewBestScore creates a best score termination.
//
// Parameters:
//   - target: Score at which solving may stop, e.g. score.NewHardSoft(0, 0)
//
// Returns:
//   - *BestScore: Termination
func NewBestScore(target types.Score) *BestScore {
	return &BestScore{target: target}
}

// IsPhaseTerminated reports whether the best score reached the target.
func (t *BestScore) IsPhaseTerminated(p *types.PhaseScope) bool {
	best := p.BestScore()

	return best != nil && best.Compare(t.target) >= 0
}

// PhaseTimeGradient returns the progress from the phase starting score to
// the target on the most significant level where they differ.
func (t *BestScore) PhaseTimeGradient(p *types.PhaseScope) float64 {
	best := p.BestScore()
	if best == nil || p.StartingScore == nil {
		return 0
	}
	if best.Compare(t.target) >= 0 {
		return 1
	}

	start := p.StartingScore.Levels()
	target := t.target.Levels()
	current := best.Levels()
	for i := 0; i < len(start) && i < len(target) && i < len(current); i++ {
		if start[i] == target[i] {
			continue
		}

		return ratio(current[i]-start[i], target[i]-start[i])
	}

	return 0
}
