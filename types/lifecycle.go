package types

// PhaseLifecycleListener receives the six lifecycle calls of a solver run.
//
// Every pluggable component (selector, placer, acceptor, forager,
// termination) implements it so it can set up and tear down caches keyed to
// solving, phase and step boundaries. Owning phases forward the calls; the
// components never call each other.
type PhaseLifecycleListener interface {
	SolvingStarted(s *SolverScope)
	PhaseStarted(p *PhaseScope)
	StepStarted(st *StepScope)
	StepEnded(st *StepScope)
	PhaseEnded(p *PhaseScope)
	SolvingEnded(s *SolverScope)
}

// NopLifecycle implements PhaseLifecycleListener with no-op methods.
//
// Embed it in policies that only care about a subset of the callbacks.
type NopLifecycle struct{}

var _ PhaseLifecycleListener = NopLifecycle{}

// SolvingStarted does nothing.
func (NopLifecycle) SolvingStarted(*SolverScope) {}

// PhaseStarted does nothing.
func (NopLifecycle) PhaseStarted(*PhaseScope) {}

// StepStarted does nothing.
func (NopLifecycle) StepStarted(*StepScope) {}

// StepEnded does nothing.
func (NopLifecycle) StepEnded(*StepScope) {}

// PhaseEnded does nothing.
func (NopLifecycle) PhaseEnded(*PhaseScope) {}

// SolvingEnded does nothing.
func (NopLifecycle) SolvingEnded(*SolverScope) {}

// Listeners fans lifecycle calls out to several listeners in order.
//
// Nil entries are skipped.
type Listeners []PhaseLifecycleListener

var _ PhaseLifecycleListener = Listeners(nil)

// SolvingStarted forwards to every listener.
func (ls Listeners) SolvingStarted(s *SolverScope) {
	for _, l := range ls {
		if l != nil {
			l.SolvingStarted(s)
		}
	}
}

// PhaseStarted forwards to every listener.
func (ls Listeners) PhaseStarted(p *PhaseScope) {
	for _, l := range ls {
		if l != nil {
			l.PhaseStarted(p)
		}
	}
}

// StepStarted forwards to every listener.
func (ls Listeners) StepStarted(st *StepScope) {
	for _, l := range ls {
		if l != nil {
			l.StepStarted(st)
		}
	}
}

// StepEnded forwards to every listener.
func (ls Listeners) StepEnded(st *StepScope) {
	for _, l := range ls {
		if l != nil {
			l.StepEnded(st)
		}
	}
}

// PhaseEnded forwards to every listener.
func (ls Listeners) PhaseEnded(p *PhaseScope) {
	for _, l := range ls {
		if l != nil {
			l.PhaseEnded(p)
		}
	}
}

// SolvingEnded forwards to every listener.
func (ls Listeners) SolvingEnded(s *SolverScope) {
	for _, l := range ls {
		if l != nil {
			l.SolvingEnded(s)
		}
	}
}
