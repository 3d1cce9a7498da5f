package solvo

import (
	"fmt"

	"github.com/arloliu/solvo/acceptor"
	"github.com/arloliu/solvo/forager"
	"github.com/arloliu/solvo/phase"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/termination"
	"github.com/arloliu/solvo/types"
)

// NewConstructionHeuristicPhase builds a construction heuristic phase from cfg.
//
// Parameters:
//   - cfg: Solver configuration (defaults are applied to a copy)
//   - placer: Source of placements
//
// Returns:
//   - *phase.ConstructionHeuristic: Phase ready for NewSolver
//   - error: Wrapped ErrInvalidConfig or types.ErrPlacerRequired
func NewConstructionHeuristicPhase(cfg *Config, placer types.EntityPlacer) (*phase.ConstructionHeuristic, error) {
	c, err := prepared(cfg)
	if err != nil {
		return nil, err
	}

	return phase.NewConstructionHeuristic(placer, c.ConstructionHeuristic.Termination.Build())
}

// NewLocalSearchPhase builds a local search phase from cfg.
//
// Parameters:
//   - cfg: Solver configuration (defaults are applied to a copy)
//   - selector: Move source
//
// Returns:
//   - *phase.LocalSearch: Phase ready for NewSolver
//   - error: Wrapped ErrInvalidConfig or types.ErrSelectorRequired
//
// Example:
//
//	cfg := solvo.DefaultConfig()
//	cfg.LocalSearch.Acceptor.Type = solvo.AcceptorTabu
//	ls, err := solvo.NewLocalSearchPhase(&cfg, selector.NewFunc(neighbors))
func NewLocalSearchPhase(cfg *Config, selector types.MoveSelector) (*phase.LocalSearch, error) {
	c, err := prepared(cfg)
	if err != nil {
		return nil, err
	}

	a, err := c.LocalSearch.Acceptor.Build()
	if err != nil {
		return nil, err
	}
	f, err := c.LocalSearch.Forager.Build()
	if err != nil {
		return nil, err
	}

	return phase.NewLocalSearch(selector, a, f, c.LocalSearch.Termination.Build())
}

// NewCustomPhase builds a custom phase from cfg.
//
// Parameters:
//   - cfg: Solver configuration (defaults are applied to a copy)
//   - selector: Move source
//
// Returns:
//   - *phase.Custom: Phase ready for NewSolver
//   - error: Wrapped ErrInvalidConfig or types.ErrSelectorRequired
func NewCustomPhase(cfg *Config, selector types.MoveSelector) (*phase.Custom, error) {
	c, err := prepared(cfg)
	if err != nil {
		return nil, err
	}

	return phase.NewCustom(selector, c.Custom.Termination.Build())
}

func prepared(cfg *Config) (Config, error) {
	if cfg == nil {
		return Config{}, ErrInvalidConfig
	}

	c := *cfg
	SetDefaults(&c)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Build returns the phase termination, or nil when no limit is configured.
//
// Several limits combine with Or: the first one reached ends the phase.
func (c TerminationConfig) Build() types.Termination {
	var ts []types.Termination
	if c.SpentLimit > 0 {
		ts = append(ts, termination.NewTimeLimit(c.SpentLimit))
	}

	return c.combine(ts)
}

// BuildSolver returns the solver-level termination, or nil when no limit is
// configured. SpentLimit is measured from the start of the run.
func (c TerminationConfig) BuildSolver() types.Termination {
	var ts []types.Termination
	if c.SpentLimit > 0 {
		ts = append(ts, termination.NewSolverTimeLimit(c.SpentLimit))
	}

	return c.combine(ts)
}

func (c TerminationConfig) combine(ts []types.Termination) types.Termination {
	if c.StepCountLimit > 0 {
		ts = append(ts, termination.NewStepCountLimit(c.StepCountLimit))
	}
	if c.UnimprovedStepCountLimit > 0 {
		ts = append(ts, termination.NewUnimprovedStepCount(c.UnimprovedStepCountLimit))
	}
	if target, err := score.Parse(c.BestScoreLimit); c.BestScoreLimit != "" && err == nil {
		ts = append(ts, termination.NewBestScore(target))
	}

	switch len(ts) {
	case 0:
		return nil
	case 1:
		return ts[0]
	default:
		return termination.NewOr(ts...)
	}
}

// Build returns the configured acceptor.
//
// Returns:
//   - types.Acceptor: Acceptor, composed with tabu when TabuSize > 0
//   - error: Wrapped ErrInvalidConfig for an unknown type
func (c AcceptorConfig) Build() (types.Acceptor, error) {
	var a types.Acceptor
	switch c.Type {
	case AcceptorHillClimbing:
		a = acceptor.NewHillClimbing()
	case AcceptorStepCountingHillClimbing:
		a = acceptor.NewStepCountingHillClimbing(c.StepCountingHillClimbingSize)
	case AcceptorLateAcceptance:
		a = acceptor.NewLateAcceptance(c.LateAcceptanceSize)
	case AcceptorSimulatedAnnealing:
		a = acceptor.NewSimulatedAnnealing(c.SimulatedAnnealingStartingTemperature)
	case AcceptorGreatDeluge:
		a = acceptor.NewGreatDeluge(c.GreatDelugeWaterLevelIncrementRatio)
	case AcceptorTabu:
		return acceptor.NewTabu(c.TabuSize), nil
	default:
		return nil, fmt.Errorf("%w: unknown acceptor type %q", ErrInvalidConfig, c.Type)
	}

	if c.TabuSize > 0 {
		return acceptor.NewComposite(acceptor.NewTabu(c.TabuSize), a), nil
	}

	return a, nil
}

// Build returns the configured accepted forager.
func (c ForagerConfig) Build() (types.Forager, error) {
	pickEarly, err := forager.ParsePickEarlyType(c.PickEarlyType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return forager.NewAccepted(forager.Config{
		AcceptedCountLimit: c.AcceptedCountLimit,
		PickEarlyType:      pickEarly,
		BreakTieRandomly:   c.BreakTieRandomly,
	}), nil
}
