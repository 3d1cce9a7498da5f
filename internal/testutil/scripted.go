package testutil

import (
	"strconv"

	"github.com/arloliu/solvo/director"
	"github.com/arloliu/solvo/score"
	"github.com/arloliu/solvo/types"
)

// Scripted is a solution whose score is whatever the last applied move says.
//
// It makes scenario tests exact: a ScriptedMove with Value 7 moves the
// working score to 7 regardless of history.
type Scripted struct {
	Current int64

	// Commits lists the names of permanently applied moves in order.
	Commits []string

	// Applies counts every application (speculative or permanent).
	Applies int
}

// NewScriptedDirector creates an Easy director over a Scripted solution.
func NewScriptedDirector(start int64) (*director.Easy[*Scripted], *Scripted) {
	s := &Scripted{Current: start}
	d := mustEasy(director.NewEasy(s,
		func(s *Scripted) types.Score { return score.Simple(s.Current) },
		func(s *Scripted) *Scripted {
			c := *s
			c.Commits = append([]string(nil), s.Commits...)

			return &c
		},
	))

	return d, s
}

// ScriptedMove sets the working score to Value.
type ScriptedMove struct {
	Name      string
	Value     int64
	NotDoable bool

	undo bool
}

var _ types.Move = ScriptedMove{}

// Move creates a doable scripted move.
func Move(name string, value int64) ScriptedMove {
	return ScriptedMove{Name: name, Value: value}
}

// Blocked creates a scripted move that is never doable.
func Blocked(name string) ScriptedMove {
	return ScriptedMove{Name: name, NotDoable: true}
}

// Moves creates one scripted move per value, named m0, m1, ...
func Moves(values ...int64) []types.Move {
	moves := make([]types.Move, len(values))
	for i, v := range values {
		moves[i] = Move(moveName(i), v)
	}

	return moves
}

// IsDoable reports whether the move may be applied.
func (m ScriptedMove) IsDoable(_ types.ScoreDirector) bool {
	return !m.NotDoable
}

// Do sets the working score and returns the restoring move.
func (m ScriptedMove) Do(d types.ScoreDirector) types.Move {
	s, ok := director.Solution[*Scripted](d)
	if !ok {
		panic("testutil: director does not own a *Scripted")
	}

	old := s.Current
	s.Current = m.Value
	s.Applies++
	if !m.undo && !isEvaluating(d) {
		s.Commits = append(s.Commits, m.Name)
	}

	return ScriptedMove{Name: "undo(" + m.Name + ")", Value: old, undo: true}
}

// String returns the move name.
func (m ScriptedMove) String() string {
	return m.Name
}

func isEvaluating(d types.ScoreDirector) bool {
	e, ok := d.(interface{ IsEvaluating() bool })

	return ok && e.IsEvaluating()
}

func moveName(i int) string {
	return "m" + strconv.Itoa(i)
}
