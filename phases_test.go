package solvo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/solvo/acceptor"
	"github.com/arloliu/solvo/forager"
	"github.com/arloliu/solvo/selector"
	"github.com/arloliu/solvo/termination"
	"github.com/arloliu/solvo/types"
)

func TestTerminationConfig_Build(t *testing.T) {
	require.Nil(t, TerminationConfig{}.Build())
	require.Nil(t, TerminationConfig{}.BuildSolver())

	require.IsType(t, &termination.TimeLimit{}, TerminationConfig{SpentLimit: time.Second}.Build())
	require.IsType(t, &termination.SolverTimeLimit{}, TerminationConfig{SpentLimit: time.Second}.BuildSolver())
	require.IsType(t, &termination.StepCountLimit{}, TerminationConfig{StepCountLimit: 5}.Build())
	require.IsType(t, &termination.UnimprovedStepCount{}, TerminationConfig{UnimprovedStepCountLimit: 5}.BuildSolver())

	require.IsType(t, &termination.BestScore{}, TerminationConfig{BestScoreLimit: "0"}.Build())
	require.IsType(t, &termination.BestScore{}, TerminationConfig{BestScoreLimit: "0hard/0soft"}.BuildSolver())
	require.False(t, TerminationConfig{BestScoreLimit: "0"}.IsZero())

	combined := TerminationConfig{SpentLimit: time.Second, StepCountLimit: 5, UnimprovedStepCountLimit: 3, BestScoreLimit: "-1"}
	require.IsType(t, &termination.Or{}, combined.Build())
	require.IsType(t, &termination.Or{}, combined.BuildSolver())
}

func TestAcceptorConfig_Build(t *testing.T) {
	tests := []struct {
		name string
		cfg  AcceptorConfig
		want types.Acceptor
	}{
		{"hill climbing", AcceptorConfig{Type: AcceptorHillClimbing}, &acceptor.HillClimbing{}},
		{"step counting", AcceptorConfig{Type: AcceptorStepCountingHillClimbing, StepCountingHillClimbingSize: 10}, &acceptor.StepCountingHillClimbing{}},
		{"late acceptance", AcceptorConfig{Type: AcceptorLateAcceptance, LateAcceptanceSize: 10}, &acceptor.LateAcceptance{}},
		{"simulated annealing", AcceptorConfig{Type: AcceptorSimulatedAnnealing, SimulatedAnnealingStartingTemperature: []float64{0, 2}}, &acceptor.SimulatedAnnealing{}},
		{"great deluge", AcceptorConfig{Type: AcceptorGreatDeluge, GreatDelugeWaterLevelIncrementRatio: 0.001}, &acceptor.GreatDeluge{}},
		{"tabu", AcceptorConfig{Type: AcceptorTabu, TabuSize: 5}, &acceptor.Tabu{}},
		{"late acceptance with tabu", AcceptorConfig{Type: AcceptorLateAcceptance, LateAcceptanceSize: 10, TabuSize: 5}, &acceptor.Composite{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.cfg.Build()
			require.NoError(t, err)
			require.IsType(t, tt.want, a)
		})
	}

	_, err := AcceptorConfig{Type: "random_walk"}.Build()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestForagerConfig_Build(t *testing.T) {
	f, err := ForagerConfig{AcceptedCountLimit: 1, PickEarlyType: "first_best_score_improving"}.Build()
	require.NoError(t, err)
	require.IsType(t, &forager.Accepted{}, f)

	_, err = ForagerConfig{PickEarlyType: "sometimes"}.Build()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPhaseBuilders(t *testing.T) {
	cfg := TestConfig()
	moves := selector.NewStatic()

	ch, err := NewConstructionHeuristicPhase(&cfg, selector.NewStaticPlacer())
	require.NoError(t, err)
	require.Equal(t, types.PhaseConstructionHeuristic, ch.Type())

	ls, err := NewLocalSearchPhase(&cfg, moves)
	require.NoError(t, err)
	require.Equal(t, types.PhaseLocalSearch, ls.Type())

	custom, err := NewCustomPhase(&cfg, moves)
	require.NoError(t, err)
	require.Equal(t, types.PhaseCustom, custom.Type())

	// Builders work on a copy.
	empty := Config{}
	_, err = NewLocalSearchPhase(&empty, moves)
	require.NoError(t, err)
	require.Equal(t, Config{}, empty)

	_, err = NewLocalSearchPhase(nil, moves)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewLocalSearchPhase(&cfg, nil)
	require.ErrorIs(t, err, types.ErrSelectorRequired)

	bad := TestConfig()
	bad.LocalSearch.Termination.StepCountLimit = -1
	_, err = NewCustomPhase(&bad, moves)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
