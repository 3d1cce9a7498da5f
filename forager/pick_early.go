package forager

import (
	"fmt"
)

// PickEarlyType selects when a forager stops the scan as soon as a move
// qualifies.
type PickEarlyType int

const (
	// PickEarlyNever scans until the accepted count limit or the end of the selector.
	PickEarlyNever PickEarlyType = iota

	// PickEarlyFirstBestScoreImproving picks the first accepted move that
	// improves the best score of the run.
	PickEarlyFirstBestScoreImproving

	// PickEarlyFirstLastStepScoreImproving picks the first accepted move that
	// improves the last step score.
	PickEarlyFirstLastStepScoreImproving
)

// String returns the configuration name of the pick early type.
func (t PickEarlyType) String() string {
	switch t {
	case PickEarlyNever:
		return "never"
	case PickEarlyFirstBestScoreImproving:
		return "first_best_score_improving"
	case PickEarlyFirstLastStepScoreImproving:
		return "first_last_step_score_improving"
	default:
		return "unknown"
	}
}

// ParsePickEarlyType parses a configuration name.
//
// Parameters:
//   - s: "never", "first_best_score_improving" or "first_last_step_score_improving"
//     (empty means never)
//
// Returns:
//   - PickEarlyType: Parsed type
//   - error: Non-nil for an unknown name
func ParsePickEarlyType(s string) (PickEarlyType, error) {
	switch s {
	case "", "never":
		return PickEarlyNever, nil
	case "first_best_score_improving":
		return PickEarlyFirstBestScoreImproving, nil
	case "first_last_step_score_improving":
		return PickEarlyFirstLastStepScoreImproving, nil
	default:
		return PickEarlyNever, fmt.Errorf("unknown pick early type %q", s)
	}
}
