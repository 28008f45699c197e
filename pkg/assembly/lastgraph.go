package assembly

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingTwin is returned by [WriteLastGraph] when a fragment has no
// reverse-complement counterpart in the graph.
var ErrMissingTwin = errors.New("fragment has no reverse complement")

// WriteLastGraph writes g in velvet's LastGraph layout. Only the subset of
// the format needed by downstream scaffolders is produced: node records
// with both strands and one ARC line per strand-pair of edges. Arc
// multiplicities and read tracks are written as zero.
//
// Velvet node lengths exclude the k-1 leading bases of the de Bruijn
// representation, so each sequence is emitted without its first k bases and
// the length is reduced accordingly.
func WriteLastGraph(w io.Writer, g *Graph) error {
	k := g.Overlap()
	bw := bufio.NewWriter(w)

	var forward []*Node
	for _, n := range g.Nodes() {
		if n.IsReverse() {
			continue
		}
		if _, ok := g.Node(Twin(n.ID)); !ok {
			return fmt.Errorf("%w: %s", ErrMissingTwin, n.ID)
		}
		forward = append(forward, n)
	}

	fmt.Fprintf(bw, "%d\t%d\t%d\t%d\n", len(forward), 0, k, 1)
	for _, n := range forward {
		rev, _ := g.Node(Twin(n.ID))
		kmers := int(n.Coverage * float64(n.Length-k))
		fmt.Fprintf(bw, "NODE\t%s\t%d\t%d\t%d\t0\t0\n", n.ID, n.Length-k, kmers, kmers)
		bw.WriteString(trimPrefix(n.Seq, k))
		bw.WriteByte('\n')
		bw.WriteString(trimPrefix(rev.Seq, k))
		bw.WriteByte('\n')
	}

	// A->B and twin(B)->twin(A) describe the same join; velvet wants it once.
	written := make(map[[2]string]bool)
	for _, n := range g.Nodes() {
		for _, e := range n.Children {
			arc := [2]string{n.ID, e.Node.ID}
			if written[arc] {
				continue
			}
			fmt.Fprintf(bw, "ARC\t%s\t%s\t0\n", velvetID(n.ID), velvetID(e.Node.ID))
			written[arc] = true
			written[[2]string{Twin(e.Node.ID), Twin(n.ID)}] = true
		}
	}
	return bw.Flush()
}

// velvetID writes reverse strands as negative IDs.
func velvetID(id string) string {
	if strings.HasSuffix(id, ReverseSuffix) {
		return "-" + strings.TrimSuffix(id, ReverseSuffix)
	}
	return id
}

func trimPrefix(seq string, k int) string {
	if len(seq) <= k {
		return ""
	}
	return seq[k:]
}
