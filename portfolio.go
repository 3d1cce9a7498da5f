package solvo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/solvo/types"
)

// PortfolioResult holds the outcome of every solver of a portfolio.
type PortfolioResult struct {
	// Best is the result with the highest best score.
	Best Result

	// BestIndex is the position of Best in Results (-1 when no run produced a score).
	BestIndex int

	// Results holds the result of every solver, in portfolio order.
	Results []Result
}

// Portfolio runs independent solvers concurrently and keeps the best result.
//
// Every solver must own its score director: solvers share nothing but the
// context. Seeding each solver differently (WithRandomSeed) diversifies the
// search.
type Portfolio struct {
	solvers []*Solver
}

// NewPortfolio creates a portfolio.
//
// Returns:
//   - *Portfolio: Portfolio of the given solvers
//   - error: ErrNoSolvers when solvers is empty
func NewPortfolio(solvers ...*Solver) (*Portfolio, error) {
	if len(solvers) == 0 {
		return nil, ErrNoSolvers
	}
	for _, s := range solvers {
		if s == nil {
			return nil, ErrNoSolvers
		}
	}

	return &Portfolio{solvers: solvers}, nil
}

// Solve runs every solver concurrently.
//
// A fatal error of one solver cancels the others; the best result among
// the solvers is still returned together with the first error. Ties keep
// the solver that comes first.
//
// Parameters:
//   - ctx: Context bounding every run
//
// Returns:
//   - PortfolioResult: Per-solver results and the best one
//   - error: First fatal solver error
func (p *Portfolio) Solve(ctx context.Context) (PortfolioResult, error) {
	results := make([]Result, len(p.solvers))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range p.solvers {
		g.Go(func() error {
			r, err := s.Solve(gctx)
			results[i] = r

			return err
		})
	}
	err := g.Wait()

	out := PortfolioResult{BestIndex: -1, Results: results}
	for i, r := range results {
		if r.BestScore == nil {
			continue
		}
		if out.BestIndex < 0 || types.ScoreBetter(r.BestScore, out.Best.BestScore) {
			out.Best = r
			out.BestIndex = i
		}
	}

	return out, err
}
