package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by [Chain.ExtractPath] when the chain holds
	// no alignments, so there is no path to pick.
	ErrEmptyInput = errors.New("no valid forward alignments")

	// ErrCycle is matched by every [*CycleError].
	ErrCycle = errors.New("successor relation contains a cycle")

	// ErrNonConvergence is matched by every [*NonConvergenceError].
	ErrNonConvergence = errors.New("relaxation did not converge")

	// ErrInvalidSuccessor is returned by [Chain.SetSuccessors] for indices
	// outside the arena.
	ErrInvalidSuccessor = errors.New("successor index out of range")
)

// CycleError reports one edge closing a cycle in the successor relation.
type CycleError struct {
	From, To int    // Arena indices
	Label    string // Human-readable edge, "a -> b"
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle.Error(), e.Label)
}

// Is makes errors.Is(err, ErrCycle) succeed.
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// NonConvergenceError reports that values were still changing after the
// sweep limit.
type NonConvergenceError struct {
	Sweeps int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%s after %d sweeps", ErrNonConvergence.Error(), e.Sweeps)
}

// Is makes errors.Is(err, ErrNonConvergence) succeed.
func (e *NonConvergenceError) Is(target error) bool { return target == ErrNonConvergence }
