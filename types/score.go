package types

// Score is an opaque, totally ordered solution quality value.
//
// Higher is better. The engine never inspects the internal structure of a
// score beyond comparison, feasibility and the numeric level view that
// acceptance heuristics need to measure deltas.
//
// Implementations must be immutable values; Subtract returns a new score.
type Score interface {
	// Compare returns a negative number when the receiver is worse than other,
	// zero when they are equal and a positive number when it is better.
	//
	// Parameters:
	//   - other: Score of the same concrete type
	//
	// Returns:
	//   - int: Comparison result (<0, 0, >0)
	Compare(other Score) int

	// IsFeasible reports whether all hard constraint levels are satisfied.
	IsFeasible() bool

	// Subtract returns receiver - other, level by level.
	Subtract(other Score) Score

	// Levels returns the score levels from most to least significant.
	Levels() []float64

	// String returns a human-readable representation, e.g. "0hard/-12soft".
	String() string
}

// ScoreBetter reports whether a is strictly better than b.
//
// A nil score is worse than any non-nil score.
func ScoreBetter(a, b Score) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}

	return a.Compare(b) > 0
}

// ScoreAtLeast reports whether a is better than or equal to b.
//
// A nil b is always reached; a nil a never reaches a non-nil b.
func ScoreAtLeast(a, b Score) bool {
	if b == nil {
		return true
	}
	if a == nil {
		return false
	}

	return a.Compare(b) >= 0
}

// ConstraintMatchTotal summarizes how a single constraint contributes to the score.
type ConstraintMatchTotal struct {
	// ConstraintID identifies the constraint, e.g. "queens/sameRow".
	ConstraintID string

	// MatchCount is the number of constraint matches.
	MatchCount int

	// Score is the total score impact of the matches.
	Score Score
}
