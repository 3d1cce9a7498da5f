// Package yield implements the cooperative checkpoint of the step-scan loop.
package yield

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/arloliu/solvo/types"
)

// Gate is a pause/resume checkpoint.
//
// The phase step loop calls CheckYield after every evaluated candidate move.
// While the gate is paused the call blocks until Resume is called or the
// solve context ends. Pause and Resume are safe to call from any goroutine.
type Gate struct {
	mu       sync.Mutex
	paused   bool
	resumeCh chan struct{}

	checks atomic.Int64
	parked atomic.Int32
}

var _ types.Yielder = (*Gate)(nil)

// New creates an open gate.
//
// Returns:
//   - *Gate: Gate that does not block until Pause is called
func New() *Gate {
	return &Gate{}
}

// Pause makes subsequent CheckYield calls block. Pausing a paused gate is a no-op.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.paused {
		return
	}
	g.paused = true
	g.resumeCh = make(chan struct{})
}

// Resume releases blocked CheckYield calls. Resuming an open gate is a no-op.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.paused {
		return
	}
	g.paused = false
	close(g.resumeCh)
	g.resumeCh = nil
}

// IsPaused reports whether the gate is paused.
func (g *Gate) IsPaused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.paused
}

// Checks returns the number of CheckYield calls so far.
func (g *Gate) Checks() int64 {
	return g.checks.Load()
}

// Parked returns the number of callers currently blocked in CheckYield.
func (g *Gate) Parked() int {
	return int(g.parked.Load())
}

// CheckYield blocks while the gate is paused.
//
// Parameters:
//   - ctx: Solve context; its cancellation unblocks the call
//
// Returns:
//   - error: ctx.Err() when the context ended, nil otherwise
func (g *Gate) CheckYield(ctx context.Context) error {
	g.checks.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	if !g.paused {
		g.mu.Unlock()
		return nil
	}
	resumeCh := g.resumeCh
	g.mu.Unlock()

	g.parked.Add(1)
	defer g.parked.Add(-1)

	select {
	case <-resumeCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
