// Package hooks provides default solver hook implementations.
package hooks

import (
	"context"

	"github.com/arloliu/solvo/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.BestSolutionEvent) error = (*NopHooks)(nil).OnBestSolutionChanged
	_ func(context.Context, types.PhaseSummary) error      = (*NopHooks)(nil).OnPhaseEnded
	_ func(context.Context, error) error                   = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnBestSolutionChanged: h.OnBestSolutionChanged,
		OnPhaseEnded:          h.OnPhaseEnded,
		OnError:               h.OnError,
	}
}

// WithDefaults returns a copy of h whose nil callbacks are no-ops.
//
// Parameters:
//   - h: User hooks (nil yields all no-ops)
//
// Returns:
//   - types.Hooks: Hooks with every callback set
func WithDefaults(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnBestSolutionChanged != nil {
		out.OnBestSolutionChanged = h.OnBestSolutionChanged
	}
	if h.OnPhaseEnded != nil {
		out.OnPhaseEnded = h.OnPhaseEnded
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnBestSolutionChanged is a no-op implementation.
func (h *NopHooks) OnBestSolutionChanged(_ context.Context, _ types.BestSolutionEvent) error {
	return nil
}

// OnPhaseEnded is a no-op implementation.
func (h *NopHooks) OnPhaseEnded(_ context.Context, _ types.PhaseSummary) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ error) error {
	return nil
}
