package chain

import (
	"cmp"
	"context"
	"slices"
)

// None marks the absence of a next hop in [Solution.Next].
const None = -1

// SolveOptions configures [Chain.Solve].
type SolveOptions struct {
	// MaxSweeps bounds the number of relaxation sweeps. Zero means one more
	// than the number of alignments, which is enough for any acyclic input.
	MaxSweeps int

	// SkipCycleCheck disables the acyclicity check run before relaxing.
	SkipCycleCheck bool
}

// Solution holds the fixed point of the relaxation.
type Solution struct {
	Values    []int // Best chain value starting at each alignment
	Next      []int // Chosen successor of each alignment, or None
	Sweeps    int   // Sweeps performed, including the final unchanged one
	Converged bool
}

// Overlap returns the number of reference bases covered by both a and its
// successor b.
func (c *Chain) Overlap(a, b int) int {
	return c.Records[a].SubjectEnd - c.Records[b].SubjectStart + 1
}

// Solve computes, for every alignment, the best value of a chain starting
// there and the successor realizing it.
//
// Values start at each record's score and next hops at the first
// successor. Sweeps visit alignments by descending subject start,
// recomputing both from the current successor values, until a sweep
// changes nothing. Ties between successors go to the first in list order.
//
// On a cyclic successor relation Solve returns a [*CycleError] unless the
// check is skipped. When the sweep limit is hit the partial solution is
// returned together with a [*NonConvergenceError]. Cancellation of ctx is
// observed between sweeps.
func (c *Chain) Solve(ctx context.Context, opts SolveOptions) (*Solution, error) {
	if !opts.SkipCycleCheck {
		if err := c.CheckAcyclic(); err != nil {
			return nil, err
		}
	}

	n := len(c.Records)
	sol := &Solution{
		Values: make([]int, n),
		Next:   make([]int, n),
	}
	for i, r := range c.Records {
		sol.Values[i] = r.Score()
		sol.Next[i] = None
		if len(c.Successors[i]) > 0 {
			sol.Next[i] = c.Successors[i][0]
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(c.Records[b].SubjectStart, c.Records[a].SubjectStart)
	})

	maxSweeps := opts.MaxSweeps
	if maxSweeps <= 0 {
		maxSweeps = n + 1
	}

	for sol.Sweeps < maxSweeps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sol.Sweeps++

		changed := false
		for _, i := range order {
			succ := c.Successors[i]
			if len(succ) == 0 {
				continue
			}
			best := succ[0]
			for _, j := range succ[1:] {
				if sol.Values[j] > sol.Values[best] {
					best = j
				}
			}
			v := sol.Values[best] + c.Records[i].Score() - c.Overlap(i, best)
			if v != sol.Values[i] || best != sol.Next[i] {
				sol.Values[i] = v
				sol.Next[i] = best
				changed = true
			}
		}
		if !changed {
			sol.Converged = true
			return sol, nil
		}
	}
	return sol, &NonConvergenceError{Sweeps: sol.Sweeps}
}
