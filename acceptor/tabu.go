package acceptor

import (
	"fmt"

	"github.com/arloliu/solvo/types"
	"github.com/zeebo/xxh3"
)

// Tabu rejects moves that touch the planning objects of the last size steps.
//
// Moves expose the objects they touch through types.TabuMove; other moves
// use their String representation as the single key. Keys are compared by
// their xxh3 hash. A tabu move is still accepted when it strictly improves
// the best score (aspiration).
type Tabu struct {
	types.NopLifecycle

	size int

	// tabuSteps maps a key hash to the step index that made it tabu.
	tabuSteps map[uint64]int
	// order lists the hashes in insertion order for pruning.
	order []tabuEntry
}

type tabuEntry struct {
	hash      uint64
	stepIndex int
}

var _ types.Acceptor = (*Tabu)(nil)

// NewTabu creates a move tabu acceptor.
//
// Parameters:
//   - size: Number of steps a key stays tabu (values below 1 are treated as 1)
//
// Returns:
//   - *Tabu: Acceptor
func NewTabu(size int) *Tabu {
	if size < 1 {
		size = 1
	}

	return &Tabu{size: size}
}

// PhaseStarted clears the tabu list.
func (a *Tabu) PhaseStarted(*types.PhaseScope) {
	a.tabuSteps = make(map[uint64]int)
	a.order = a.order[:0]
}

// IsAccepted rejects tabu moves unless they improve the best score.
func (a *Tabu) IsAccepted(m *types.MoveScope) bool {
	stepIndex := m.Step.StepIndex
	for _, h := range hashKeys(m.Move) {
		tabuStep, ok := a.tabuSteps[h]
		if !ok || stepIndex-tabuStep > a.size {
			continue
		}
		if types.ScoreBetter(m.Score, m.BestScore()) {
			return true
		}

		return false
	}

	return true
}

// IsTabu reports whether move would be tabu at stepIndex.
func (a *Tabu) IsTabu(move types.Move, stepIndex int) bool {
	for _, h := range hashKeys(move) {
		if tabuStep, ok := a.tabuSteps[h]; ok && stepIndex-tabuStep <= a.size {
			return true
		}
	}

	return false
}

// StepEnded makes the keys of the committed step tabu and prunes expired keys.
func (a *Tabu) StepEnded(st *types.StepScope) {
	if st.Step == nil {
		return
	}
	for _, h := range hashKeys(st.Step) {
		a.tabuSteps[h] = st.StepIndex
		a.order = append(a.order, tabuEntry{hash: h, stepIndex: st.StepIndex})
	}

	expired := 0
	for _, e := range a.order {
		if st.StepIndex+1-e.stepIndex <= a.size {
			break
		}
		if a.tabuSteps[e.hash] == e.stepIndex {
			delete(a.tabuSteps, e.hash)
		}
		expired++
	}
	a.order = a.order[expired:]
}

// PhaseEnded drops the tabu list.
func (a *Tabu) PhaseEnded(*types.PhaseScope) {
	a.tabuSteps = nil
	a.order = nil
}

// TabuSize returns the number of tabu keys.
func (a *Tabu) TabuSize() int {
	return len(a.tabuSteps)
}

func hashKeys(m types.Move) []uint64 {
	tm, ok := m.(types.TabuMove)
	if !ok {
		return []uint64{xxh3.HashString(m.String())}
	}

	keys := tm.TabuKeys()
	hashes := make([]uint64, len(keys))
	for i, k := range keys {
		hashes[i] = xxh3.HashString(fmt.Sprintf("%T:%v", k, k))
	}

	return hashes
}
