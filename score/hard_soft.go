package score

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/solvo/types"
)

// HardSoft is a two-level score: hard constraints first, soft second.
//
// A solution is feasible when Hard is zero or positive.
type HardSoft struct {
	Hard int64
	Soft int64
}

var _ types.Score = HardSoft{}

// NewHardSoft creates a hard/soft score.
func NewHardSoft(hard, soft int64) HardSoft {
	return HardSoft{Hard: hard, Soft: soft}
}

// ParseHardSoft parses the "<hard>hard/<soft>soft" representation.
//
// Parameters:
//   - s: Text such as "-2hard/-30soft"
//
// Returns:
//   - HardSoft: Parsed score
//   - error: Format error
func ParseHardSoft(s string) (HardSoft, error) {
	hardPart, softPart, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || !strings.HasSuffix(hardPart, "hard") || !strings.HasSuffix(softPart, "soft") {
		return HardSoft{}, fmt.Errorf("invalid hard/soft score %q", s)
	}

	hard, err := strconv.ParseInt(strings.TrimSuffix(hardPart, "hard"), 10, 64)
	if err != nil {
		return HardSoft{}, fmt.Errorf("invalid hard level in %q: %w", s, err)
	}
	soft, err := strconv.ParseInt(strings.TrimSuffix(softPart, "soft"), 10, 64)
	if err != nil {
		return HardSoft{}, fmt.Errorf("invalid soft level in %q: %w", s, err)
	}

	return HardSoft{Hard: hard, Soft: soft}, nil
}

// Compare compares hard levels first, then soft levels.
func (s HardSoft) Compare(other types.Score) int {
	o, ok := other.(HardSoft)
	if !ok {
		return CompareLevels(s.Levels(), other.Levels())
	}
	if c := cmp.Compare(s.Hard, o.Hard); c != 0 {
		return c
	}

	return cmp.Compare(s.Soft, o.Soft)
}

// IsFeasible reports whether no hard constraint is broken.
func (s HardSoft) IsFeasible() bool {
	return s.Hard >= 0
}

// Subtract returns s - other level by level.
func (s HardSoft) Subtract(other types.Score) types.Score {
	if o, ok := other.(HardSoft); ok {
		return HardSoft{Hard: s.Hard - o.Hard, Soft: s.Soft - o.Soft}
	}

	levels := other.Levels()
	var hard, soft int64
	if len(levels) > 0 {
		hard = int64(levels[0])
	}
	if len(levels) > 1 {
		soft = int64(levels[1])
	}

	return HardSoft{Hard: s.Hard - hard, Soft: s.Soft - soft}
}

// Levels returns [hard, soft].
func (s HardSoft) Levels() []float64 {
	return []float64{float64(s.Hard), float64(s.Soft)}
}

// String returns "<hard>hard/<soft>soft".
func (s HardSoft) String() string {
	return strconv.FormatInt(s.Hard, 10) + "hard/" + strconv.FormatInt(s.Soft, 10) + "soft"
}

// CompareLevels compares two level slices lexicographically.
//
// Missing levels count as zero.
//
// Returns:
//   - int: -1 if a < b, 0 if equal, +1 if a > b
func CompareLevels(a, b []float64) int {
	n := max(len(a), len(b))
	for i := range n {
		var x, y float64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if c := cmp.Compare(x, y); c != 0 {
			return c
		}
	}

	return 0
}
