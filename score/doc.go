// Package score provides the score types shipped with solvo.
//
// Scores are immutable values implementing types.Score. Higher is better;
// constraint penalties are expressed as negative numbers.
//
//	s := score.NewHardSoft(0, -12)
//	s.IsFeasible() // true
//	s.String()     // "0hard/-12soft"
package score
