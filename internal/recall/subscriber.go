package recall

import (
	"sync"

	"github.com/arloliu/solvo/types"
)

// subscriber is a buffered best-solution event channel.
type subscriber struct {
	ch     chan types.BestSolutionEvent
	mu     sync.Mutex
	closed bool
}

// trySend delivers event without blocking and reports whether it was delivered.
func (s *subscriber) trySend(event types.BestSolutionEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}

	select {
	case s.ch <- event:
		return true
	default:
		// Slow subscriber; it will get the next improvement.
		return false
	}
}

// close safely closes the subscriber's channel.
func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
