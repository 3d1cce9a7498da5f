package testutil

import (
	"fmt"
	"slices"

	"github.com/arloliu/solvo/director"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/types"
)

// Unassigned marks a variable without a value.
const Unassigned = -1

// Vector is a toy problem: assign every variable a value in [0, MaxValue]
// as close as possible to its target.
//
// Score: hard = -(unassigned variables), soft = -(sum of distances to targets).
type Vector struct {
	Values   []int
	Targets  []int
	MaxValue int
}

// NewVector creates a vector with all variables unassigned.
func NewVector(targets []int, maxValue int) *Vector {
	values := make([]int, len(targets))
	for i := range values {
		values[i] = Unassigned
	}

	return &Vector{Values: values, Targets: slices.Clone(targets), MaxValue: maxValue}
}

// NewAssignedVector creates a vector with the given initial values.
func NewAssignedVector(values, targets []int, maxValue int) *Vector {
	return &Vector{Values: slices.Clone(values), Targets: slices.Clone(targets), MaxValue: maxValue}
}

// Clone deep-copies the vector.
func (v *Vector) Clone() *Vector {
	return &Vector{Values: slices.Clone(v.Values), Targets: slices.Clone(v.Targets), MaxValue: v.MaxValue}
}

// ScoreVector calculates the score of v from scratch.
func ScoreVector(v *Vector) types.Score {
	var hard, soft int64
	for i, val := range v.Values {
		if val == Unassigned {
			hard--
			continue
		}
		d := val - v.Targets[i]
		if d < 0 {
			d = -d
		}
		soft -= int64(d)
	}

	return score.NewHardSoft(hard, soft)
}

// MatchVector reports one "distance" constraint total per variable index.
func MatchVector(v *Vector) map[string]types.ConstraintMatchTotal {
	totals := make(map[string]types.ConstraintMatchTotal, 2)
	var unassigned, off int
	var distance int64
	for i, val := range v.Values {
		switch {
		case val == Unassigned:
			unassigned++
		case val != v.Targets[i]:
			off++
			d := val - v.Targets[i]
			if d < 0 {
				d = -d
			}
			distance += int64(d)
		}
	}
	totals["vector/unassigned"] = types.ConstraintMatchTotal{
		ConstraintID: "vector/unassigned", MatchCount: unassigned, Score: score.NewHardSoft(-int64(unassigned), 0),
	}
	totals["vector/distance"] = types.ConstraintMatchTotal{
		ConstraintID: "vector/distance", MatchCount: off, Score: score.NewHardSoft(0, -distance),
	}

	return totals
}

// NewVectorDirector creates an Easy director over v with cloning and constraint matching.
func NewVectorDirector(v *Vector) *director.Easy[*Vector] {
	return mustEasy(director.NewEasy(v, ScoreVector, (*Vector).Clone, director.WithConstraintMatcher(MatchVector)))
}

func mustEasy[S any](d *director.Easy[S], err error) *director.Easy[S] {
	if err != nil {
		panic(err)
	}

	return d
}

// ChangeMove assigns To to variable Index.
type ChangeMove struct {
	Index int
	To    int
}

var _ types.TabuMove = ChangeMove{}

// IsDoable reports whether the move changes the variable.
func (m ChangeMove) IsDoable(d types.ScoreDirector) bool {
	v := mustVector(d)

	return v.Values[m.Index] != m.To
}

// Do assigns the value and returns the move restoring the previous value.
func (m ChangeMove) Do(d types.ScoreDirector) types.Move {
	v := mustVector(d)
	old := v.Values[m.Index]
	v.Values[m.Index] = m.To

	return ChangeMove{Index: m.Index, To: old}
}

// TabuKeys returns the variable index.
func (m ChangeMove) TabuKeys() []any {
	return []any{m.Index}
}

// String returns "x<index>=<to>".
func (m ChangeMove) String() string {
	return fmt.Sprintf("x%d=%d", m.Index, m.To)
}

// AllChangeMoves returns a change move for every variable and value.
func AllChangeMoves(v *Vector) []types.Move {
	moves := make([]types.Move, 0, len(v.Values)*(v.MaxValue+1))
	for i := range v.Values {
		for val := 0; val <= v.MaxValue; val++ {
			moves = append(moves, ChangeMove{Index: i, To: val})
		}
	}

	return moves
}

// VectorPlacements returns one placement per variable with a move per value.
func VectorPlacements(v *Vector) []*types.Placement {
	placements := make([]*types.Placement, 0, len(v.Values))
	for i := range v.Values {
		moves := make([]types.Move, 0, v.MaxValue+1)
		for val := 0; val <= v.MaxValue; val++ {
			moves = append(moves, ChangeMove{Index: i, To: val})
		}
		placements = append(placements, types.NewPlacement(fmt.Sprintf("x%d", i), moves...))
	}

	return placements
}

func mustVector(d types.ScoreDirector) *Vector {
	v, ok := director.Solution[*Vector](d)
	if !ok {
		panic(fmt.Sprintf("testutil: director does not own a *Vector but %T", d.WorkingSolution()))
	}

	return v
}
