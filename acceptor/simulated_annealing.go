package acceptor

import (
	"math"
	"slices"

	"github.com/arloliu/solvo/types"
)

// temperatureMinimum keeps the temperature strictly positive at gradient 1.
const temperatureMinimum = 1e-100

// SimulatedAnnealing accepts improving moves and accepts worsening moves
// with probability exp(Δ/T) per score level.
//
// The temperature of each level decreases linearly with the time gradient:
// T = start * (1 - gradient).
type SimulatedAnnealing struct {
	types.NopLifecycle

	startingTemperature []float64
	temperature         []float64
}

var _ types.Acceptor = (*SimulatedAnnealing)(nil)

// NewSimulatedAnnealing creates a simulated annealing acceptor.
//
// Parameters:
//   - startingTemperature: Temperature per score level, most significant first
//
// Returns:
//   - *SimulatedAnnealing: Acceptor
//
// Example:
//
//	// Hard level frozen, soft level starts at 50.
//	a := acceptor.NewSimulatedAnnealing([]float64{0, 50})
func NewSimulatedAnnealing(startingTemperature []float64) *SimulatedAnnealing {
	return &SimulatedAnnealing{startingTemperature: slices.Clone(startingTemperature)}
}

// StepStarted cools the temperature for the step's time gradient.
func (a *SimulatedAnnealing) StepStarted(st *types.StepScope) {
	a.temperature = a.Temperature(st.TimeGradient)
}

// Temperature returns the level temperatures at the given time gradient.
func (a *SimulatedAnnealing) Temperature(timeGradient float64) []float64 {
	t := make([]float64, len(a.startingTemperature))
	reverse := 1.0 - timeGradient
	for i, start := range a.startingTemperature {
		t[i] = start * reverse
		if t[i] < temperatureMinimum {
			t[i] = temperatureMinimum
		}
	}

	return t
}

// IsAccepted accepts improving moves and worsening moves by chance.
func (a *SimulatedAnnealing) IsAccepted(m *types.MoveScope) bool {
	last := m.LastStepScore()
	if types.ScoreAtLeast(m.Score, last) {
		return true
	}

	delta := m.Score.Subtract(last).Levels()
	chance := 1.0
	for i := 0; i < len(delta) && i < len(a.temperature); i++ {
		if delta[i] < 0 {
			chance *= math.Exp(delta[i] / a.temperature[i])
		}
	}

	return m.Rand().Float64() < chance
}

// PhaseEnded drops the cooled temperatures.
func (a *SimulatedAnnealing) PhaseEnded(*types.PhaseScope) {
	a.temperature = nil
}
