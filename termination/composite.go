package termination

import (
	"github.com/arloliu/solvo/types"
)

// Context terminates a phase when the solve context is done.
type Context struct {
	types.NopLifecycle
}

var _ types.Termination = (*Context)(nil)

// NewContext creates a context termination.
func NewContext() *Context {
	return &Context{}
}

// IsPhaseTerminated reports whether the solve context is canceled or expired.
func (t *Context) IsPhaseTerminated(p *types.PhaseScope) bool {
	return p.Solver.Context().Err() != nil
}

// PhaseTimeGradient returns the elapsed share of the context deadline, or 0
// without a deadline.
func (t *Context) PhaseTimeGradient(p *types.PhaseScope) float64 {
	deadline, ok := p.Solver.Context().Deadline()
	if !ok {
		return 0
	}

	return ratio(float64(p.TimeSpent()), float64(deadline.Sub(p.StartTime)))
}

// Or terminates when any nested termination terminates.
//
// Its gradient is the maximum of the nested gradients.
type Or struct {
	types.Listeners

	terminations []types.Termination
}

var _ types.Termination = (*Or)(nil)

// NewOr combines terminations with logical or. Nil entries are ignored.
func NewOr(terminations ...types.Termination) *Or {
	ts := compact(terminations)

	return &Or{Listeners: listenersOf(ts), terminations: ts}
}

// IsPhaseTerminated reports whether any nested termination terminated.
func (t *Or) IsPhaseTerminated(p *types.PhaseScope) bool {
	for _, nested := range t.terminations {
		if nested.IsPhaseTerminated(p) {
			return true
		}
	}

	return false
}

// PhaseTimeGradient returns the highest nested gradient.
func (t *Or) PhaseTimeGradient(p *types.PhaseScope) float64 {
	g := 0.0
	for _, nested := range t.terminations {
		if ng := nested.PhaseTimeGradient(p); ng > g {
			g = ng
		}
	}

	return g
}

// And terminates when all nested terminations terminate.
//
// Its gradient is the minimum of the nested gradients.
type And struct {
	types.Listeners

	terminations []types.Termination
}

var _ types.Termination = (*And)(nil)

// NewAnd combines terminations with logical and. Nil entries are ignored.
func NewAnd(terminations ...types.Termination) *And {
	ts := compact(terminations)

	return &And{Listeners: listenersOf(ts), terminations: ts}
}

// IsPhaseTerminated reports whether every nested termination terminated.
//
// An empty And never terminates.
func (t *And) IsPhaseTerminated(p *types.PhaseScope) bool {
	if len(t.terminations) == 0 {
		return false
	}
	for _, nested := range t.terminations {
		if !nested.IsPhaseTerminated(p) {
			return false
		}
	}

	return true
}

// PhaseTimeGradient returns the lowest nested gradient.
func (t *And) PhaseTimeGradient(p *types.PhaseScope) float64 {
	if len(t.terminations) == 0 {
		return 0
	}
	g := 1.0
	for _, nested := range t.terminations {
		if ng := nested.PhaseTimeGradient(p); ng < g {
			g = ng
		}
	}

	return g
}

func compact(ts []types.Termination) []types.Termination {
	out := make([]types.Termination, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}

	return out
}

func listenersOf(ts []types.Termination) types.Listeners {
	ls := make(types.Listeners, len(ts))
	for i, t := range ts {
		ls[i] = t
	}

	return ls
}
