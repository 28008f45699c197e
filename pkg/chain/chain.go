package chain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/omacc/omacc/pkg/alignment"
	"github.com/omacc/omacc/pkg/assembly"
)

// DefaultSafetyMargin extends the scan window past the expected start of a
// successor, in reference bases.
const DefaultSafetyMargin = 50

// Chain is an arena of forward alignments sorted by subject start.
// Successors[i] lists the indices that may directly follow Records[i].
type Chain struct {
	Records    []*alignment.Record
	Successors [][]int
}

// BuildOptions configures [Chain.BuildSuccessors].
type BuildOptions struct {
	SafetyMargin int // Window extension past the expected successor start
	ErrorMargin  int // Adjacency tolerance, see [alignment.AdjacentBefore]
}

// DefaultBuildOptions returns the window and tolerance the tool ships with.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		SafetyMargin: DefaultSafetyMargin,
		ErrorMargin:  alignment.DefaultErrorMargin,
	}
}

// BuildStats summarizes a successor build.
type BuildStats struct {
	Compared     int      // Candidate pairs inside a scan window
	Edges        int      // Successor links admitted
	MissingNodes []string // Fragments of alignments absent from the graph
}

// New creates a chain from records. Reverse alignments are dropped; the
// rest are stably sorted by subject start. Records are shared, not copied.
func New(records []*alignment.Record) *Chain {
	var kept []*alignment.Record
	for _, r := range records {
		if r.Forward {
			kept = append(kept, r)
		}
	}
	slices.SortStableFunc(kept, func(a, b *alignment.Record) int {
		return cmp.Compare(a.SubjectStart, b.SubjectStart)
	})
	return &Chain{
		Records:    kept,
		Successors: make([][]int, len(kept)),
	}
}

// Len returns the number of alignments in the arena.
func (c *Chain) Len() int { return len(c.Records) }

// BuildSuccessors computes the successor sets from the assembly graph.
//
// For alignment a and each child fragment f of a's fragment with overlap o,
// alignments after a in start order are scanned while their start is below
// a.SubjectEnd - (o-1) + SafetyMargin. A scanned alignment b becomes a
// successor if its fragment is f and a is adjacent before b.
//
// Previous successor sets are discarded.
func (c *Chain) BuildSuccessors(g *assembly.Graph, opts BuildOptions) BuildStats {
	var stats BuildStats
	missing := make(map[string]bool)

	for i, a := range c.Records {
		c.Successors[i] = nil
		if _, ok := g.Node(a.NodeID); !ok {
			if !missing[a.NodeID] {
				missing[a.NodeID] = true
				stats.MissingNodes = append(stats.MissingNodes, a.NodeID)
			}
			continue
		}
		for _, e := range g.Children(a.NodeID) {
			stop := a.SubjectEnd - (e.Overlap - 1) + opts.SafetyMargin
			for j := i + 1; j < len(c.Records) && c.Records[j].SubjectStart < stop; j++ {
				stats.Compared++
				b := c.Records[j]
				if b.NodeID == e.Node.ID && alignment.AdjacentBefore(a, b, e.Overlap, opts.ErrorMargin) {
					c.Successors[i] = append(c.Successors[i], j)
					stats.Edges++
				}
			}
		}
	}
	slices.SortFunc(stats.MissingNodes, assembly.CompareIDs)
	return stats
}

// SetSuccessors replaces the successor set of record i. It is meant for
// callers that derive successors by other means than an assembly graph.
func (c *Chain) SetSuccessors(i int, succ []int) error {
	if i < 0 || i >= len(c.Records) {
		return fmt.Errorf("%w: %d", ErrInvalidSuccessor, i)
	}
	for _, j := range succ {
		if j < 0 || j >= len(c.Records) {
			return fmt.Errorf("%w: %d -> %d", ErrInvalidSuccessor, i, j)
		}
	}
	c.Successors[i] = slices.Clone(succ)
	return nil
}

// EdgeCount returns the total number of successor links.
func (c *Chain) EdgeCount() int {
	n := 0
	for _, s := range c.Successors {
		n += len(s)
	}
	return n
}

// Index groups the arena's records by key.
func (c *Chain) Index(key alignment.Key) (alignment.Index, error) {
	return alignment.NewIndex(c.Records, key)
}

// CheckAcyclic returns a [*CycleError] if the successor relation has a
// directed cycle. Detection uses depth-first search with white/gray/black
// coloring in O(N+E).
func (c *Chain) CheckAcyclic() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(c.Records))
	var cycle *CycleError

	var dfs func(i int) bool
	dfs = func(i int) bool {
		color[i] = gray
		for _, j := range c.Successors[i] {
			switch color[j] {
			case white:
				if dfs(j) {
					return true
				}
			case gray:
				cycle = &CycleError{
					From:  i,
					To:    j,
					Label: fmt.Sprintf("%s -> %s", c.Records[i], c.Records[j]),
				}
				return true
			}
		}
		color[i] = black
		return false
	}

	for i := range c.Records {
		if color[i] == white && dfs(i) {
			return cycle
		}
	}
	return nil
}
