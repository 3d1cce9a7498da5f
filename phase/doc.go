// Package phase implements the phase lifecycle state machine and its three
// variants: construction heuristic, local search and custom (greedy hill
// climbing).
//
// Every variant is a Runner parametrized over a Stepper that decides the
// next step. The Runner owns the step loop, forwards the six lifecycle calls
// to the nested policies, commits the decided step and reports it to the
// best-solution recaller.
//
// Sequence per phase:
//
//	SolvingStarted → PhaseStarted →
//	    {StepStarted → DecideNextStep → (commit | break) → StepEnded}* →
//	PhaseEnded → SolvingEnded
//
// StepEnded never runs for an undecided step. PhaseEnded runs exactly once
// per phase, also when the step loop fails.
package phase
