package chain

import (
	"maps"
	"slices"

	"github.com/omacc/omacc/pkg/alignment"
	"github.com/omacc/omacc/pkg/assembly"
)

// Arc is an arc of the assembly graph.
type Arc struct {
	From, To string
}

// Diagnostics describes how well the alignments follow the assembly graph.
type Diagnostics struct {
	// UnchainedArcs are graph arcs whose fragments both have alignments but
	// no alignment of From can precede an alignment of To.
	UnchainedArcs []Arc

	// SharedStarts counts subject start positions claimed by more than one
	// alignment. Ties between them go to the earliest record.
	SharedStarts int
}

// Diagnose compares the alignments with the arcs of g. It does not depend
// on BuildSuccessors having run.
func (c *Chain) Diagnose(g *assembly.Graph, errorMargin int) (Diagnostics, error) {
	var d Diagnostics

	byNode, err := c.Index(alignment.ByNodeID)
	if err != nil {
		return d, err
	}
	byStart, err := c.Index(alignment.ByStart)
	if err != nil {
		return d, err
	}

	for _, from := range slices.SortedFunc(maps.Keys(byNode), assembly.CompareIDs) {
		for _, e := range g.Children(from) {
			to := e.Node.ID
			if len(byNode[to]) == 0 {
				continue
			}
			if !alignment.NodesAdjacent(c.Records, byNode, from, to, e.Overlap, errorMargin) {
				d.UnchainedArcs = append(d.UnchainedArcs, Arc{From: from, To: to})
			}
		}
	}

	for _, idx := range byStart {
		if len(idx) > 1 {
			d.SharedStarts++
		}
	}
	return d, nil
}
