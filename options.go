package solvo

import (
	"github.com/arloliu/solvo/internal/recall"
	"github.com/arloliu/solvo/types"
)

// Option configures a Solver with optional dependencies.
type Option func(*solverOptions)

// solverOptions holds optional Solver configuration.
type solverOptions struct {
	hooks      *Hooks
	metrics    MetricsCollector
	logger     Logger
	yielder    Yielder
	randomSeed *uint64
	listeners  []recall.Listener
	runID      func() string
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewSolver
//
// Example:
//
//	hooks := &solvo.Hooks{
//	    OnBestSolutionChanged: func(ctx context.Context, e solvo.BestSolutionEvent) error {
//	        log.Printf("new best %s", e.ScoreString)
//	        return nil
//	    },
//	}
//	solver, err := solvo.NewSolver(&cfg, director, phases, solvo.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *solverOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewSolver
//
// Example:
//
//	collector := metrics.NewPrometheus(prometheus.DefaultRegisterer, "solvo")
//	solver, err := solvo.NewSolver(&cfg, director, phases, solvo.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *solverOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewSolver
//
// Example:
//
//	logger := zap.NewExample().Sugar()
//	solver, err := solvo.NewSolver(&cfg, director, phases, solvo.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *solverOptions) {
		o.logger = logger
	}
}

// WithYielder adds a cooperative checkpoint run after the solver's own
// pause gate for every candidate move.
//
// A non-nil error from the yielder terminates the running phase.
//
// Parameters:
//   - y: Yielder implementation
//
// Returns:
//   - Option: Functional option for NewSolver
func WithYielder(y Yielder) Option {
	return func(o *solverOptions) {
		o.yielder = y
	}
}

// WithRandomSeed overrides Config.RandomSeed and forces a reproducible
// random source even in non_reproducible mode.
func WithRandomSeed(seed uint64) Option {
	return func(o *solverOptions) {
		o.randomSeed = &seed
	}
}

// WithBestSolutionListener adds a synchronous best-solution listener.
//
// The listener runs on the step loop and must not block; use WithHooks for
// work that may block.
func WithBestSolutionListener(l func(types.BestSolutionEvent)) Option {
	return func(o *solverOptions) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// WithRunIDGenerator replaces the random UUID run identifiers.
func WithRunIDGenerator(fn func() string) Option {
	return func(o *solverOptions) {
		o.runID = fn
	}
}
