package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/omacc/omacc/pkg/chain"
)

// PathOptions configures [Path].
type PathOptions struct {
	// Expected lists fragment IDs to highlight. Only the first alignment of
	// each fragment along the path is filled.
	Expected []string
}

const header = `  rankdir=TB;
  bgcolor="transparent";
  node [shape=box, style=rounded, fontsize=14, margin="0.2,0.1"];
  ranksep=0.4;
  nodesep=0.3;
`

// Path converts the winning path to DOT. Nodes are labelled
// "fragment,start-end,length" and linked in chain order.
func Path(c *chain.Chain, p *chain.Path, opts PathOptions) string {
	pending := make(map[string]bool, len(opts.Expected))
	for _, id := range opts.Expected {
		pending[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph path {\n")
	buf.WriteString(header)
	buf.WriteString("\n")

	for _, i := range p.Indices {
		r := c.Records[i]
		attrs := []string{
			fmt.Sprintf("label=%q", r.String()),
			fmt.Sprintf("color=%s", r.Severity().Color()),
		}
		if pending[r.NodeID] {
			attrs = append(attrs, `style="rounded,filled"`, "fillcolor=red")
			delete(pending, r.NodeID)
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for k := 1; k < len(p.Indices); k++ {
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(p.Indices[k-1]), nodeID(p.Indices[k]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Candidates converts the whole chain to DOT. Each alignment is labelled
// "fragment,start-end,length,value" when sol is non-nil, and the successor
// link chosen by the solver is colored green.
func Candidates(c *chain.Chain, sol *chain.Solution) string {
	var buf bytes.Buffer
	buf.WriteString("digraph candidates {\n")
	buf.WriteString(header)
	buf.WriteString("\n")

	for i, r := range c.Records {
		label := r.String()
		if sol != nil {
			label = fmt.Sprintf("%s,%d", label, sol.Values[i])
		}
		fmt.Fprintf(&buf, "  %s [label=%q, color=%s];\n", nodeID(i), label, r.Severity().Color())
	}

	buf.WriteString("\n")
	for i, succ := range c.Successors {
		for _, j := range succ {
			if sol != nil && sol.Next[i] == j {
				fmt.Fprintf(&buf, "  %s -> %s [color=green];\n", nodeID(i), nodeID(j))
				continue
			}
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(i), nodeID(j))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return fmt.Sprintf("a%d", i) }
