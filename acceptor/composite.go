package acceptor

import (
	"github.com/arloliu/solvo/types"
)

// Composite accepts a move iff every nested acceptor accepts it.
//
// Evaluation stops at the first rejection. Lifecycle calls are forwarded to
// every nested acceptor.
type Composite struct {
	types.Listeners

	acceptors []types.Acceptor
}

var _ types.Acceptor = (*Composite)(nil)

// NewComposite creates a composite acceptor.
func NewComposite(acceptors ...types.Acceptor) *Composite {
	listeners := make(types.Listeners, len(acceptors))
	for i, a := range acceptors {
		listeners[i] = a
	}

	return &Composite{Listeners: listeners, acceptors: acceptors}
}

// IsAccepted reports whether all nested acceptors accept the move.
func (c *Composite) IsAccepted(m *types.MoveScope) bool {
	for _, a := range c.acceptors {
		if !a.IsAccepted(m) {
			return false
		}
	}

	return true
}
