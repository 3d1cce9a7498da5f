package forager

import (
	"github.com/arloliu/solvo/types"
)

// Config configures an Accepted forager.
type Config struct {
	// AcceptedCountLimit stops the scan once this many moves were accepted
	// (0 or negative means no limit).
	AcceptedCountLimit int

	// PickEarlyType stops the scan at the first qualifying accepted move.
	PickEarlyType PickEarlyType

	// BreakTieRandomly picks uniformly among the accepted moves with the
	// highest score; otherwise the first one seen wins.
	BreakTieRandomly bool
}

// Accepted is the standard local search forager.
//
// It keeps the accepted moves with the highest score and picks one of them.
// Pick consistency: PickMove returns a move iff at least one accepted move
// was added during the step.
//
// The pick depends on the scan order when several accepted moves share the
// highest score and BreakTieRandomly is off, when PickEarlyType is set, and
// when AcceptedCountLimit stops the scan before the selector is exhausted.
type Accepted struct {
	types.NopLifecycle

	cfg Config

	selectedCount int
	acceptedCount int
	earlyPicked   *types.MoveScope
	maxScore      types.Score
	maxMoves      []*types.MoveScope
}

var _ types.Forager = (*Accepted)(nil)

// NewAccepted creates an accepted forager.
//
// Parameters:
//   - cfg: Accepted count limit, pick early type and tie breaking
//
// Returns:
//   - *Accepted: Forager
func NewAccepted(cfg Config) *Accepted {
	return &Accepted{cfg: cfg}
}

// NewFirstAccepted creates a forager that picks the first accepted move.
//
// The pick is the first accepted move in scan order, so shuffling the
// selector changes which move wins.
func NewFirstAccepted() *Accepted {
	return NewAccepted(Config{AcceptedCountLimit: 1})
}

// StepStarted resets the collected moves.
func (f *Accepted) StepStarted(*types.StepScope) {
	f.reset()
}

// PhaseEnded resets the collected moves.
func (f *Accepted) PhaseEnded(*types.PhaseScope) {
	f.reset()
}

// AddMove records a scored candidate; non-accepted moves only count as selected.
func (f *Accepted) AddMove(m *types.MoveScope) {
	f.selectedCount++
	if !m.Accepted {
		return
	}

	f.acceptedCount++
	if f.earlyPicked == nil {
		f.checkPickEarly(m)
	}

	switch {
	case f.maxScore == nil || types.ScoreBetter(m.Score, f.maxScore):
		f.maxScore = m.Score
		f.maxMoves = append(f.maxMoves[:0], m)
	case m.Score != nil && m.Score.Compare(f.maxScore) == 0:
		f.maxMoves = append(f.maxMoves, m)
	}
}

// IsQuitEarly reports whether a move was picked early or the accepted count limit was reached.
func (f *Accepted) IsQuitEarly() bool {
	if f.earlyPicked != nil {
		return true
	}

	return f.cfg.AcceptedCountLimit > 0 && f.acceptedCount >= f.cfg.AcceptedCountLimit
}

// PickMove returns the winning move, or nil when nothing was accepted.
func (f *Accepted) PickMove(st *types.StepScope) *types.MoveScope {
	if f.earlyPicked != nil {
		return f.earlyPicked
	}
	if len(f.maxMoves) == 0 {
		return nil
	}
	if f.cfg.BreakTieRandomly && len(f.maxMoves) > 1 {
		return f.maxMoves[st.Rand().IntN(len(f.maxMoves))]
	}

	return f.maxMoves[0]
}

// AcceptedCount returns the number of accepted moves added in the current step.
func (f *Accepted) AcceptedCount() int {
	return f.acceptedCount
}

// SelectedCount returns the number of moves added in the current step.
func (f *Accepted) SelectedCount() int {
	return f.selectedCount
}

func (f *Accepted) checkPickEarly(m *types.MoveScope) {
	switch f.cfg.PickEarlyType {
	case PickEarlyFirstBestScoreImproving:
		if types.ScoreBetter(m.Score, m.BestScore()) {
			f.earlyPicked = m
		}
	case PickEarlyFirstLastStepScoreImproving:
		if types.ScoreBetter(m.Score, m.LastStepScore()) {
			f.earlyPicked = m
		}
	case PickEarlyNever:
	}
}

func (f *Accepted) reset() {
	f.selectedCount = 0
	f.acceptedCount = 0
	f.earlyPicked = nil
	f.maxScore = nil
	clear(f.maxMoves)
	f.maxMoves = f.maxMoves[:0]
}
