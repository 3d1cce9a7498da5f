package acceptor

import (
	"math"
	"slices"

	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/types"
)

// DefaultWaterLevelIncrementRatio is the rise per step used when the ratio is not positive.
const DefaultWaterLevelIncrementRatio = 0.00000005

// GreatDeluge accepts a move iff its score is at least the water level, or
// strictly improves the last step score.
//
// The water level starts at the phase starting score and rises every step
// by ratio times its absolute value, per level.
type GreatDeluge struct {
	types.NopLifecycle

	ratio      float64
	waterLevel []float64
}

var _ types.Acceptor = (*GreatDeluge)(nil)

// NewGreatDeluge creates a great deluge acceptor.
//
// Parameters:
//   - waterLevelIncrementRatio: Relative rise of the water level per step
//
// Returns:
//   - *GreatDeluge: Acceptor
func NewGreatDeluge(waterLevelIncrementRatio float64) *GreatDeluge {
	if waterLevelIncrementRatio <= 0 {
		waterLevelIncrementRatio = DefaultWaterLevelIncrementRatio
	}

	return &GreatDeluge{ratio: waterLevelIncrementRatio}
}

// PhaseStarted sets the water level to the starting score.
func (a *GreatDeluge) PhaseStarted(p *types.PhaseScope) {
	a.waterLevel = nil
	if p.LastCompletedStepScore != nil {
		a.waterLevel = slices.Clone(p.LastCompletedStepScore.Levels())
	}
}

// WaterLevel returns a copy of the current water level.
func (a *GreatDeluge) WaterLevel() []float64 {
	return slices.Clone(a.waterLevel)
}

// IsAccepted reports whether the move stays above water or improves the last step.
func (a *GreatDeluge) IsAccepted(m *types.MoveScope) bool {
	if m.Score == nil {
		return false
	}
	if score.CompareLevels(m.Score.Levels(), a.waterLevel) >= 0 {
		return true
	}

	return types.ScoreBetter(m.Score, m.LastStepScore())
}

// StepEnded raises the water level.
func (a *GreatDeluge) StepEnded(*types.StepScope) {
	for i, level := range a.waterLevel {
		a.waterLevel[i] = level + math.Abs(level)*a.ratio
	}
}

// PhaseEnded drops the water level.
func (a *GreatDeluge) PhaseEnded(*types.PhaseScope) {
	a.waterLevel = nil
}
