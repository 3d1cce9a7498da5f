package solvo

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/solvo/acceptor"
	"github.com/arloliu/solvo/forager"
	"github.com/arloliu/solvo/internal/recall"
	"github.com/arloliu/solvo/score"
)

// EnvironmentMode controls reproducibility and the built-in assertions.
type EnvironmentMode string

const (
	// EnvironmentReproducible seeds the random source with Config.RandomSeed.
	EnvironmentReproducible EnvironmentMode = "reproducible"

	// EnvironmentNonReproducible seeds the random source randomly.
	EnvironmentNonReproducible EnvironmentMode = "non_reproducible"

	// EnvironmentFastAssert is reproducible and verifies every committed
	// step score from scratch.
	EnvironmentFastAssert EnvironmentMode = "fast_assert"

	// EnvironmentFullAssert is reproducible and additionally verifies every
	// speculative move score and every undo move.
	EnvironmentFullAssert EnvironmentMode = "full_assert"
)

// IsReproducible reports whether runs with the same seed make the same decisions.
func (m EnvironmentMode) IsReproducible() bool {
	return m != EnvironmentNonReproducible
}

// IsAsserted reports whether step scores are verified from scratch.
func (m EnvironmentMode) IsAsserted() bool {
	return m == EnvironmentFastAssert || m == EnvironmentFullAssert
}

// IsFullyAsserted reports whether move and undo scores are verified too.
func (m EnvironmentMode) IsFullyAsserted() bool {
	return m == EnvironmentFullAssert
}

func (m EnvironmentMode) valid() bool {
	switch m {
	case EnvironmentReproducible, EnvironmentNonReproducible, EnvironmentFastAssert, EnvironmentFullAssert:
		return true
	default:
		return false
	}
}

// AcceptorType names a local search acceptor.
type AcceptorType string

// Acceptor types.
const (
	AcceptorHillClimbing             AcceptorType = "hill_climbing"
	AcceptorStepCountingHillClimbing AcceptorType = "step_counting_hill_climbing"
	AcceptorLateAcceptance           AcceptorType = "late_acceptance"
	AcceptorSimulatedAnnealing       AcceptorType = "simulated_annealing"
	AcceptorGreatDeluge              AcceptorType = "great_deluge"
	AcceptorTabu                     AcceptorType = "tabu"
)

// Default local search settings.
const (
	DefaultLateAcceptanceSize           = 400
	DefaultStepCountingHillClimbingSize = 400
	DefaultTabuSize                     = 7
)

// TerminationConfig limits a phase, or every phase when set at solver level.
//
// Zero values disable the corresponding limit.
type TerminationConfig struct {
	// SpentLimit bounds the wall-clock time. At solver level it is measured
	// from the start of Solve, at phase level from the start of the phase.
	SpentLimit time.Duration `yaml:"spentLimit"`

	// UnimprovedStepCountLimit ends a phase after this many steps without a
	// new best score.
	UnimprovedStepCountLimit int `yaml:"unimprovedStepCountLimit"`

	// StepCountLimit ends a phase after this many steps.
	StepCountLimit int `yaml:"stepCountLimit"`

	// BestScoreLimit ends a phase once the best score reaches it, e.g. "0"
	// or "0hard/0soft". Local search keeps stepping past an optimum, so a
	// run without it fails when no move is accepted anymore.
	BestScoreLimit string `yaml:"bestScoreLimit"`
}

// IsZero reports whether no limit is configured.
func (c TerminationConfig) IsZero() bool {
	return c.SpentLimit == 0 && c.UnimprovedStepCountLimit == 0 && c.StepCountLimit == 0 && c.BestScoreLimit == ""
}

func (c TerminationConfig) validate(section string) error {
	if c.SpentLimit < 0 {
		return fmt.Errorf("%w: %s.spentLimit must be >= 0, got %v", ErrInvalidConfig, section, c.SpentLimit)
	}
	if c.UnimprovedStepCountLimit < 0 {
		return fmt.Errorf("%w: %s.unimprovedStepCountLimit must be >= 0, got %d", ErrInvalidConfig, section, c.UnimprovedStepCountLimit)
	}
	if c.StepCountLimit < 0 {
		return fmt.Errorf("%w: %s.stepCountLimit must be >= 0, got %d", ErrInvalidConfig, section, c.StepCountLimit)
	}
	if c.BestScoreLimit != "" {
		if _, err := score.Parse(c.BestScoreLimit); err != nil {
			return fmt.Errorf("%w: %s.bestScoreLimit: %w", ErrInvalidConfig, section, err)
		}
	}

	return nil
}

// AcceptorConfig selects and tunes the local search acceptor.
type AcceptorConfig struct {
	// Type is the acceptor algorithm. A positive TabuSize combined with a
	// non-tabu Type composes both acceptors.
	Type AcceptorType `yaml:"type"`

	// LateAcceptanceSize is the number of late step scores compared against.
	LateAcceptanceSize int `yaml:"lateAcceptanceSize"`

	// TabuSize is the number of steps a moved key stays tabu.
	TabuSize int `yaml:"tabuSize"`

	// SimulatedAnnealingStartingTemperature holds one temperature per
	// score level, most significant first.
	SimulatedAnnealingStartingTemperature []float64 `yaml:"simulatedAnnealingStartingTemperature"`

	// StepCountingHillClimbingSize is the number of steps between threshold updates.
	StepCountingHillClimbingSize int `yaml:"stepCountingHillClimbingSize"`

	// GreatDelugeWaterLevelIncrementRatio is the share of the water level
	// added after every step.
	GreatDelugeWaterLevelIncrementRatio float64 `yaml:"greatDelugeWaterLevelIncrementRatio"`
}

// ForagerConfig tunes the local search forager.
type ForagerConfig struct {
	// AcceptedCountLimit stops the move scan after this many accepted moves (0 = no limit).
	AcceptedCountLimit int `yaml:"acceptedCountLimit"`

	// PickEarlyType is "never", "first_best_score_improving" or "first_last_step_score_improving".
	PickEarlyType string `yaml:"pickEarlyType"`

	// BreakTieRandomly picks randomly among equally scored accepted moves.
	BreakTieRandomly bool `yaml:"breakTieRandomly"`
}

// LocalSearchConfig configures a local search phase.
type LocalSearchConfig struct {
	Acceptor    AcceptorConfig    `yaml:"acceptor"`
	Forager     ForagerConfig     `yaml:"forager"`
	Termination TerminationConfig `yaml:"termination"`
}

// ConstructionHeuristicConfig configures a construction heuristic phase.
type ConstructionHeuristicConfig struct {
	Termination TerminationConfig `yaml:"termination"`
}

// CustomConfig configures a custom phase.
type CustomConfig struct {
	Termination TerminationConfig `yaml:"termination"`
}

// Config is the configuration of a Solver and of the phases built from it.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// EnvironmentMode controls reproducibility and assertions.
	EnvironmentMode EnvironmentMode `yaml:"environmentMode"`

	// RandomSeed seeds the random source in reproducible modes.
	RandomSeed uint64 `yaml:"randomSeed"`

	// Termination applies to every phase in addition to its own termination.
	Termination TerminationConfig `yaml:"termination"`

	// EventBufferSize is the channel buffer of each best-solution subscription.
	EventBufferSize int `yaml:"eventBufferSize"`

	ConstructionHeuristic ConstructionHeuristicConfig `yaml:"constructionHeuristic"`
	LocalSearch           LocalSearchConfig           `yaml:"localSearch"`
	Custom                CustomConfig                `yaml:"custom"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Local search defaults to late acceptance over 400 steps picking the first
// accepted move. No termination is set: a run ends when its phases are
// exhausted or when the Solve context is done.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		EnvironmentMode: EnvironmentReproducible,
		EventBufferSize: recall.DefaultBufferSize,
		LocalSearch: LocalSearchConfig{
			Acceptor: AcceptorConfig{
				Type:                                AcceptorLateAcceptance,
				LateAcceptanceSize:                  DefaultLateAcceptanceSize,
				StepCountingHillClimbingSize:        DefaultStepCountingHillClimbingSize,
				GreatDelugeWaterLevelIncrementRatio: acceptor.DefaultWaterLevelIncrementRatio,
			},
			Forager: ForagerConfig{
				AcceptedCountLimit: 1,
				PickEarlyType:      forager.PickEarlyNever.String(),
			},
		},
	}
}

// SetDefaults fills in missing configuration values with defaults.
//
// The forager's accepted count limit defaults to 1 only when the acceptor
// type is defaulted too; an explicit acceptor keeps a full neighborhood scan.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.EnvironmentMode == "" {
		cfg.EnvironmentMode = defaults.EnvironmentMode
	}
	if cfg.EventBufferSize == 0 {
		cfg.EventBufferSize = defaults.EventBufferSize
	}

	a := &cfg.LocalSearch.Acceptor
	if a.Type == "" {
		a.Type = defaults.LocalSearch.Acceptor.Type
		if cfg.LocalSearch.Forager.AcceptedCountLimit == 0 {
			cfg.LocalSearch.Forager.AcceptedCountLimit = defaults.LocalSearch.Forager.AcceptedCountLimit
		}
	}
	if a.LateAcceptanceSize == 0 {
		a.LateAcceptanceSize = defaults.LocalSearch.Acceptor.LateAcceptanceSize
	}
	if a.StepCountingHillClimbingSize == 0 {
		a.StepCountingHillClimbingSize = defaults.LocalSearch.Acceptor.StepCountingHillClimbingSize
	}
	if a.GreatDelugeWaterLevelIncrementRatio == 0 {
		a.GreatDelugeWaterLevelIncrementRatio = defaults.LocalSearch.Acceptor.GreatDelugeWaterLevelIncrementRatio
	}
	if a.Type == AcceptorTabu && a.TabuSize == 0 {
		a.TabuSize = DefaultTabuSize
	}
	if cfg.LocalSearch.Forager.PickEarlyType == "" {
		cfg.LocalSearch.Forager.PickEarlyType = defaults.LocalSearch.Forager.PickEarlyType
	}
	// Note: zero terminations are valid (no limit), so no defaults are applied
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - EnvironmentMode is a known mode
//   - Termination limits are >= 0 in every section
//   - EventBufferSize > 0
//   - Acceptor type is known and its sizes are >= 0
//   - Simulated annealing has a non-negative starting temperature per level
//   - Forager accepted count limit >= 0 and pick early type is known
//
// Returns:
//   - error: Wrapped ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if !cfg.EnvironmentMode.valid() {
		return fmt.Errorf("%w: unknown environmentMode %q", ErrInvalidConfig, cfg.EnvironmentMode)
	}
	if cfg.EventBufferSize <= 0 {
		return fmt.Errorf("%w: eventBufferSize must be > 0, got %d", ErrInvalidConfig, cfg.EventBufferSize)
	}

	terminations := []struct {
		section string
		cfg     TerminationConfig
	}{
		{"termination", cfg.Termination},
		{"constructionHeuristic.termination", cfg.ConstructionHeuristic.Termination},
		{"localSearch.termination", cfg.LocalSearch.Termination},
		{"custom.termination", cfg.Custom.Termination},
	}
	for _, t := range terminations {
		if err := t.cfg.validate(t.section); err != nil {
			return err
		}
	}

	if err := cfg.LocalSearch.Acceptor.validate(); err != nil {
		return err
	}

	f := cfg.LocalSearch.Forager
	if f.AcceptedCountLimit < 0 {
		return fmt.Errorf("%w: localSearch.forager.acceptedCountLimit must be >= 0, got %d", ErrInvalidConfig, f.AcceptedCountLimit)
	}
	if _, err := forager.ParsePickEarlyType(f.PickEarlyType); err != nil {
		return fmt.Errorf("%w: localSearch.forager: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c AcceptorConfig) validate() error {
	switch c.Type {
	case AcceptorHillClimbing, AcceptorStepCountingHillClimbing, AcceptorLateAcceptance,
		AcceptorSimulatedAnnealing, AcceptorGreatDeluge, AcceptorTabu:
	default:
		return fmt.Errorf("%w: unknown localSearch.acceptor.type %q", ErrInvalidConfig, c.Type)
	}

	if c.LateAcceptanceSize < 0 || c.TabuSize < 0 || c.StepCountingHillClimbingSize < 0 {
		return fmt.Errorf("%w: localSearch.acceptor sizes must be >= 0", ErrInvalidConfig)
	}
	if c.GreatDelugeWaterLevelIncrementRatio < 0 {
		return fmt.Errorf("%w: localSearch.acceptor.greatDelugeWaterLevelIncrementRatio must be >= 0, got %v",
			ErrInvalidConfig, c.GreatDelugeWaterLevelIncrementRatio)
	}

	if c.Type == AcceptorSimulatedAnnealing {
		if len(c.SimulatedAnnealingStartingTemperature) == 0 {
			return fmt.Errorf("%w: simulated annealing requires localSearch.acceptor.simulatedAnnealingStartingTemperature",
				ErrInvalidConfig)
		}
		for i, t := range c.SimulatedAnnealingStartingTemperature {
			if t < 0 {
				return fmt.Errorf("%w: simulatedAnnealingStartingTemperature[%d] must be >= 0, got %v", ErrInvalidConfig, i, t)
			}
		}
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewSolver() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	ls := cfg.LocalSearch
	if cfg.Termination.IsZero() && ls.Termination.IsZero() && ls.Acceptor.Type != AcceptorHillClimbing {
		logger.Warn(
			"local search has no termination and only stops when the solve context is done",
			"acceptor", ls.Acceptor.Type,
			"recommended", "set termination.spentLimit or localSearch.termination",
		)
	}

	if ls.Forager.AcceptedCountLimit == 0 {
		switch ls.Acceptor.Type {
		case AcceptorLateAcceptance, AcceptorSimulatedAnnealing, AcceptorGreatDeluge, AcceptorStepCountingHillClimbing:
			logger.Warn(
				"acceptor scans the whole neighborhood every step",
				"acceptor", ls.Acceptor.Type,
				"recommended", "localSearch.forager.acceptedCountLimit of 1 to 4",
			)
		}
	}

	if cfg.EnvironmentMode.IsFullyAsserted() {
		logger.Warn(
			"full_assert recalculates every move score from scratch and is very slow",
			"environmentMode", cfg.EnvironmentMode,
		)
	}
}

// TestConfig returns a configuration optimized for fast, checked test runs.
//
// It asserts every step score, uses a fixed seed and bounds every run to one
// second and 1000 steps per phase.
//
// Returns:
//   - Config: Configuration for tests
//
// Example:
//
//	cfg := solvo.TestConfig()
//	cfg.LocalSearch.Acceptor.Type = solvo.AcceptorTabu
//	solver, err := solvo.NewSolver(&cfg, director, phases)
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.EnvironmentMode = EnvironmentFastAssert
	cfg.RandomSeed = 42
	cfg.Termination = TerminationConfig{
		SpentLimit:     time.Second,
		StepCountLimit: 1000,
	}

	return cfg
}

// LoadConfig reads a YAML configuration file, applies defaults and validates it.
//
// Parameters:
//   - path: Path of the YAML file
//
// Returns:
//   - *Config: Loaded configuration
//   - error: Read, parse or validation error
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration, applies defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
