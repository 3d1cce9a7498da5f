// Package types provides core type definitions and interfaces for the solvo library.
//
// This package contains the contracts shared by the solver, the phases and the
// pluggable policy packages. Keeping them here avoids import cycles between the
// root solvo package, the phase machinery and the acceptor/forager/termination
// implementations.
//
// Key types:
//   - Move, Placement: Reversible edits and construction step candidates
//   - Score, ScoreDirector: Scoring collaborator contract
//   - MoveSelector, EntityPlacer: Lazy move and placement sources
//   - Acceptor, Forager, Termination: Pluggable search policies
//   - SolverScope, PhaseScope, StepScope, MoveScope: Per-call context records
//   - Logger, MetricsCollector, Hooks: Ambient integration points
package types
