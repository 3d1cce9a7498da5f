package metrics

import (
	"sync"

	"github.com/arloliu/solvo/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use so that building
// a collector never fails and unused collectors register nothing.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	solvingDuration     *prometheus.HistogramVec
	bestScoreImproved   *prometheus.CounterVec
	bestScoreLevel      *prometheus.GaugeVec
	eventsDropped       prometheus.Counter
	phaseDuration       *prometheus.HistogramVec
	phaseSteps          *prometheus.CounterVec
	selectedMovesStep   *prometheus.GaugeVec
	acceptedMovesStep   *prometheus.GaugeVec
	scoreCalcSpeed      *prometheus.GaugeVec
	constraintMatches   *prometheus.GaugeVec
	constraintScoreLvls *prometheus.GaugeVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "solvo" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "solvo"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.solvingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "solving_duration_seconds",
			Help:      "Duration of solver runs in seconds by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms .. ~82s
		}, []string{"outcome"})

		p.bestScoreImproved = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "best_score_improvements_total",
			Help:      "Total best score improvements by phase type.",
		}, []string{"phase_type"})

		p.bestScoreLevel = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "best_score",
			Help:      "Latest best score by score level (0 = most significant).",
		}, []string{"level"})

		p.eventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "solver",
			Name:      "best_solution_events_dropped_total",
			Help:      "Best solution events dropped because a subscriber was slow.",
		})

		p.phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "phase",
			Name:      "duration_seconds",
			Help:      "Duration of phases in seconds by phase type and outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms .. ~33s
		}, []string{"phase_type", "outcome"})

		p.phaseSteps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "phase",
			Name:      "steps_total",
			Help:      "Total committed steps by phase type.",
		}, []string{"phase_type"})

		p.selectedMovesStep = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "step",
			Name:      "selected_moves",
			Help:      "Selected move count of the latest step.",
		}, []string{"phase_type"})

		p.acceptedMovesStep = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "step",
			Name:      "accepted_moves",
			Help:      "Accepted move count of the latest step.",
		}, []string{"phase_type"})

		p.scoreCalcSpeed = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "score",
			Name:      "calculation_speed",
			Help:      "Score calculations per second of the latest phase.",
		}, []string{"phase_type"})

		p.constraintMatches = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "score",
			Name:      "constraint_match_count",
			Help:      "Constraint match count of the working solution by constraint.",
		}, []string{"constraint"})

		p.constraintScoreLvls = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "score",
			Name:      "constraint_match_score",
			Help:      "Score impact of a constraint by constraint and score level.",
		}, []string{"constraint", "level"})

		p.reg.MustRegister(p.solvingDuration)
		p.reg.MustRegister(p.bestScoreImproved)
		p.reg.MustRegister(p.bestScoreLevel)
		p.reg.MustRegister(p.eventsDropped)
		p.reg.MustRegister(p.phaseDuration)
		p.reg.MustRegister(p.phaseSteps)
		p.reg.MustRegister(p.selectedMovesStep)
		p.reg.MustRegister(p.acceptedMovesStep)
		p.reg.MustRegister(p.scoreCalcSpeed)
		p.reg.MustRegister(p.constraintMatches)
		p.reg.MustRegister(p.constraintScoreLvls)
	})
}

// RecordSolvingDuration observes the duration of a solver run.
func (p *PrometheusCollector) RecordSolvingDuration(duration float64, outcome string) {
	p.ensureRegistered()
	p.solvingDuration.WithLabelValues(outcome).Observe(duration)
}

// RecordBestScoreImproved counts the improvement and exports the score levels.
func (p *PrometheusCollector) RecordBestScoreImproved(phaseType types.PhaseType, levels []float64) {
	p.ensureRegistered()
	p.bestScoreImproved.WithLabelValues(phaseType.String()).Inc()
	for i, v := range levels {
		p.bestScoreLevel.WithLabelValues(levelLabel(i)).Set(v)
	}
}

// RecordBestSolutionEventDropped increments the dropped event counter.
func (p *PrometheusCollector) RecordBestSolutionEventDropped() {
	p.ensureRegistered()
	p.eventsDropped.Inc()
}

// RecordPhaseDuration observes the duration of a phase.
func (p *PrometheusCollector) RecordPhaseDuration(phaseType types.PhaseType, outcome string, duration float64) {
	p.ensureRegistered()
	p.phaseDuration.WithLabelValues(phaseType.String(), outcome).Observe(duration)
}

// RecordStepCount adds the committed steps of a phase.
func (p *PrometheusCollector) RecordStepCount(phaseType types.PhaseType, steps int) {
	p.ensureRegistered()
	p.phaseSteps.WithLabelValues(phaseType.String()).Add(float64(steps))
}

// RecordMoveCountPerStep sets the per-step move count gauges.
func (p *PrometheusCollector) RecordMoveCountPerStep(phaseType types.PhaseType, selected, accepted int64) {
	p.ensureRegistered()
	p.selectedMovesStep.WithLabelValues(phaseType.String()).Set(float64(selected))
	p.acceptedMovesStep.WithLabelValues(phaseType.String()).Set(float64(accepted))
}

// RecordScoreCalculationSpeed sets the score calculation speed gauge.
func (p *PrometheusCollector) RecordScoreCalculationSpeed(phaseType types.PhaseType, perSecond float64) {
	p.ensureRegistered()
	p.scoreCalcSpeed.WithLabelValues(phaseType.String()).Set(perSecond)
}

// RecordConstraintMatchTotal sets the constraint match gauges.
func (p *PrometheusCollector) RecordConstraintMatchTotal(constraintID string, count int, levels []float64) {
	p.ensureRegistered()
	p.constraintMatches.WithLabelValues(constraintID).Set(float64(count))
	for i, v := range levels {
		p.constraintScoreLvls.WithLabelValues(constraintID, levelLabel(i)).Set(v)
	}
}

func levelLabel(i int) string {
	switch i {
	case 0:
		return "0"
	case 1:
		return "1"
	case 2:
		return "2"
	default:
		return "n"
	}
}
