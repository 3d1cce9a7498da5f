package selector

import (
	"iter"
	"slices"

	"github.com/arloliu/solvo/types"
)

// StaticPlacer yields a fixed list of placements.
type StaticPlacer struct {
	types.NopLifecycle

	placements []*types.Placement
}

var _ types.EntityPlacer = (*StaticPlacer)(nil)

// NewStaticPlacer creates a placer over a fixed placement list.
func NewStaticPlacer(placements ...*types.Placement) *StaticPlacer {
	return &StaticPlacer{placements: placements}
}

// Placements yields the placements in list order.
func (p *StaticPlacer) Placements() iter.Seq[*types.Placement] {
	return slices.Values(p.placements)
}

// PlacementFunc generates the placements of a phase from the working solution.
//
// The sequence is pulled lazily, one placement per step, so a generator may
// inspect the working solution as it was left by the previous step.
type PlacementFunc func(d types.ScoreDirector) iter.Seq[*types.Placement]

// FuncPlacer yields the placements generated by a function.
type FuncPlacer struct {
	types.NopLifecycle

	fn       PlacementFunc
	director types.ScoreDirector
}

var _ types.EntityPlacer = (*FuncPlacer)(nil)

// NewFuncPlacer creates a placer over a placement generator.
func NewFuncPlacer(fn PlacementFunc) *FuncPlacer {
	return &FuncPlacer{fn: fn}
}

// PhaseStarted captures the score director of the run.
func (p *FuncPlacer) PhaseStarted(scope *types.PhaseScope) {
	p.director = scope.Director()
}

// PhaseEnded releases the score director.
func (p *FuncPlacer) PhaseEnded(*types.PhaseScope) {
	p.director = nil
}

// Placements yields the generated placements.
func (p *FuncPlacer) Placements() iter.Seq[*types.Placement] {
	if p.director == nil {
		return func(func(*types.Placement) bool) {}
	}

	return p.fn(p.director)
}
