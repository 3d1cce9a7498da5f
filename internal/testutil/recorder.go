package testutil

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/arloliu/solvo/types"
)

// Recorder is a lifecycle listener that records every call it receives.
//
// Events are formatted as "solvingStarted", "phaseStarted#<phase>",
// "stepStarted#<step>", "stepEnded#<step>", "phaseEnded#<phase>" and
// "solvingEnded".
type Recorder struct {
	mu     sync.Mutex
	events []string
	steps  []*types.StepScope
}

var _ types.PhaseLifecycleListener = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Steps returns the step scopes passed to StepStarted, in order.
func (r *Recorder) Steps() []*types.StepScope {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.steps)
}

// Count returns how many events equal name.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.events {
		if e == name {
			n++
		}
	}

	return n
}

func (r *Recorder) add(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

// SolvingStarted records the call.
func (r *Recorder) SolvingStarted(*types.SolverScope) { r.add("solvingStarted") }

// PhaseStarted records the call.
func (r *Recorder) PhaseStarted(p *types.PhaseScope) {
	r.add(fmt.Sprintf("phaseStarted#%d", p.PhaseIndex))
}

// StepStarted records the call and keeps the step scope.
func (r *Recorder) StepStarted(st *types.StepScope) {
	r.mu.Lock()
	r.steps = append(r.steps, st)
	r.mu.Unlock()
	r.add(fmt.Sprintf("stepStarted#%d", st.StepIndex))
}

// StepEnded records the call.
func (r *Recorder) StepEnded(st *types.StepScope) {
	r.add(fmt.Sprintf("stepEnded#%d", st.StepIndex))
}

// PhaseEnded records the call.
func (r *Recorder) PhaseEnded(p *types.PhaseScope) {
	r.add(fmt.Sprintf("phaseEnded#%d", p.PhaseIndex))
}

// SolvingEnded records the call.
func (r *Recorder) SolvingEnded(*types.SolverScope) { r.add("solvingEnded") }

// Selector is a recording MoveSelector over a function producing the moves
// of the current step.
type Selector struct {
	*Recorder

	// Next returns the moves of the current step.
	Next func() []types.Move

	// Yielded counts the moves handed out across all steps.
	Yielded int
}

var _ types.MoveSelector = (*Selector)(nil)

// NewSelector creates a recording selector that yields the same moves every step.
func NewSelector(moves ...types.Move) *Selector {
	return &Selector{Recorder: NewRecorder(), Next: func() []types.Move { return moves }}
}

// Moves yields the moves returned by Next.
func (s *Selector) Moves() iter.Seq[types.Move] {
	return func(yield func(types.Move) bool) {
		for _, m := range s.Next() {
			s.Yielded++
			if !yield(m) {
				return
			}
		}
	}
}

// Placer is a recording EntityPlacer over a fixed list of placements.
type Placer struct {
	*Recorder

	placements []*types.Placement
}

var _ types.EntityPlacer = (*Placer)(nil)

// NewPlacer creates a recording placer.
func NewPlacer(placements ...*types.Placement) *Placer {
	return &Placer{Recorder: NewRecorder(), placements: placements}
}

// Placements yields the placements in order.
func (p *Placer) Placements() iter.Seq[*types.Placement] {
	return slices.Values(p.placements)
}

// CountingYielder counts checkpoint calls and optionally fails after Limit calls.
type CountingYielder struct {
	mu    sync.Mutex
	calls int

	// Limit makes CheckYield return Err from the Limit-th call on (0 disables).
	Limit int

	// Err is returned once Limit is reached.
	Err error
}

// CheckYield counts the call.
func (y *CountingYielder) CheckYield(ctx context.Context) error {
	y.mu.Lock()
	defer y.mu.Unlock()

	y.calls++
	if y.Limit > 0 && y.calls >= y.Limit {
		return y.Err
	}

	return ctx.Err()
}

// Calls returns the number of CheckYield calls.
func (y *CountingYielder) Calls() int {
	y.mu.Lock()
	defer y.mu.Unlock()

	return y.calls
}
