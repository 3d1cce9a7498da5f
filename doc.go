// Package solvo provides a phase-based local search engine for planning and
// combinatorial optimization problems.
//
// A run applies a sequence of phases to one working solution owned by a
// ScoreDirector. Each phase repeatedly decides a step: it evaluates candidate
// moves speculatively (do, score, undo), filters them through an acceptor,
// lets a forager pick one, and commits the winner. The best solution seen is
// recalled and announced to subscribers and hooks.
//
// # Quick Start
//
// Solve with a construction heuristic followed by local search:
//
//	import "github.com/arloliu/solvo"
//
//	cfg := solvo.DefaultConfig()
//	cfg.Termination.SpentLimit = 30 * time.Second
//
//	ch, err := solvo.NewConstructionHeuristicPhase(&cfg, selector.NewFuncPlacer(placements))
//	ls, err := solvo.NewLocalSearchPhase(&cfg, selector.NewFunc(neighbors))
//
//	solver, err := solvo.NewSolver(&cfg, director, []solvo.Phase{ch, ls})
//	result, err := solver.Solve(ctx)
//	fmt.Println(result.BestScore)
//
// # Key Features
//
//   - Phases: construction heuristic, local search and a custom strict-improvement phase
//   - Acceptors: hill climbing, step counting hill climbing, late acceptance,
//     simulated annealing, great deluge and move tabu, composable
//   - Foragers: accepted count limit, pick early and random tie breaking
//   - Terminations: time, step count, unimproved step count, best score and
//     context, combined with Or/And
//   - Cooperative pause/resume at candidate move boundaries
//   - Best-solution events via channels, hooks and a NATS KV publisher
//   - Prometheus metrics and zap/slog compatible structured logging
//
// # Architecture
//
// Every phase runs the same state machine:
//
//	IDLE → STARTED → STEPPING → ENDED → IDLE
//
// A step that finds no doable move ends the phase gracefully and the next
// phase starts. A step that accepted moves but picked none is a contract
// violation and aborts the run with ErrStepNotPicked.
//
// # Advanced Usage
//
// Policies can be assembled directly without a Config:
//
//	import (
//	    "github.com/arloliu/solvo/acceptor"
//	    "github.com/arloliu/solvo/forager"
//	    "github.com/arloliu/solvo/phase"
//	    "github.com/arloliu/solvo/termination"
//	)
//
//	ls, err := phase.NewLocalSearch(moves,
//	    acceptor.NewComposite(acceptor.NewTabu(7), acceptor.NewLateAcceptance(400)),
//	    forager.NewAccepted(forager.Config{AcceptedCountLimit: 4, BreakTieRandomly: true}),
//	    termination.NewOr(termination.NewStepCountLimit(100_000), termination.NewUnimprovedStepCount(5_000)),
//	)
//
// examples/nqueens wires a complete solver with metrics and NATS publishing.
package solvo
