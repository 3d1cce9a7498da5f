package score

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/solvo/types"
)

// Simple is a single-level score. It is always feasible.
type Simple int64

var _ types.Score = Simple(0)

// Compare compares the receiver with other.
//
// Scores of a different type are compared by their levels.
func (s Simple) Compare(other types.Score) int {
	if o, ok := other.(Simple); ok {
		return cmp.Compare(s, o)
	}

	return CompareLevels(s.Levels(), other.Levels())
}

// IsFeasible always returns true.
func (s Simple) IsFeasible() bool {
	return true
}

// Subtract returns s - other.
func (s Simple) Subtract(other types.Score) types.Score {
	if o, ok := other.(Simple); ok {
		return s - o
	}

	return s - Simple(firstLevel(other))
}

// Levels returns the single level.
func (s Simple) Levels() []float64 {
	return []float64{float64(s)}
}

// String returns the decimal value.
func (s Simple) String() string {
	return strconv.FormatInt(int64(s), 10)
}

func firstLevel(s types.Score) int64 {
	levels := s.Levels()
	if len(levels) == 0 {
		return 0
	}

	return int64(levels[0])
}

// Parse parses either score representation: "<hard>hard/<soft>soft" gives a
// HardSoft, a plain integer gives a Simple.
func Parse(s string) (types.Score, error) {
	if strings.Contains(s, "hard") {
		return ParseHardSoft(s)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q: %w", s, err)
	}

	return Simple(v), nil
}
