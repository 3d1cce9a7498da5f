package solvo

import (
	"github.com/arloliu/solvo/phase"
	"github.com/arloliu/solvo/types"
)

// Re-export types from the types package.
//
// This file provides a stable public API for the library's core contracts.
// It uses type aliases to re-export definitions from the `types` subpackage,
// which lets the policy packages depend on `types` without importing the root
// `solvo` package, while users still write `solvo.Move`, `solvo.Logger`, etc.
type (
	Move              = types.Move
	Placement         = types.Placement
	Score             = types.Score
	ScoreDirector     = types.ScoreDirector
	BestSolutionEvent = types.BestSolutionEvent
	PhaseSummary      = types.PhaseSummary
	PhaseType         = types.PhaseType
	PhaseOutcome      = types.PhaseOutcome
)

// Re-export interfaces from the types package for convenience.
type (
	MoveSelector     = types.MoveSelector
	EntityPlacer     = types.EntityPlacer
	Acceptor         = types.Acceptor
	Forager          = types.Forager
	Termination      = types.Termination
	Yielder          = types.Yielder
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
	Phase            = phase.Phase
)

// Re-export phase types and outcomes.
const (
	PhaseConstructionHeuristic = types.PhaseConstructionHeuristic
	PhaseLocalSearch           = types.PhaseLocalSearch
	PhaseCustom                = types.PhaseCustom

	PhaseOutcomeExhausted    = types.PhaseOutcomeExhausted
	PhaseOutcomeTerminated   = types.PhaseOutcomeTerminated
	PhaseOutcomeNoDoableMove = types.PhaseOutcomeNoDoableMove
	PhaseOutcomeLocalOptimum = types.PhaseOutcomeLocalOptimum
	PhaseOutcomeFailed       = types.PhaseOutcomeFailed
)
