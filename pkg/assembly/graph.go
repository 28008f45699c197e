package assembly

import (
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] when either endpoint is
	// not part of the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidOverlap is returned by [Graph.AddEdge] and [NewGraph] when an
	// overlap length is not positive.
	ErrInvalidOverlap = errors.New("overlap must be positive")
)

// ReverseSuffix marks the reverse-complement strand of a fragment ID.
const ReverseSuffix = "r"

// Node is one fragment of the assembly graph.
type Node struct {
	ID       string  // Fragment ID, "12" or "12r"
	Name     string  // Original FASTG short name
	Seq      string  // Nucleotide sequence (may be empty)
	Length   int     // Fragment length as reported by the assembler
	Coverage float64 // k-mer coverage
	Children []Edge  // Fragments that may follow this one, in file order
}

// Edge links a fragment to one of its successors.
type Edge struct {
	Node    *Node
	Overlap int // Shared bases between the two fragments
}

// IsReverse reports whether the node is the reverse-complement strand.
func (n *Node) IsReverse() bool { return strings.HasSuffix(n.ID, ReverseSuffix) }

// Twin returns the ID of the opposite strand of a fragment ID.
func Twin(id string) string {
	if strings.HasSuffix(id, ReverseSuffix) {
		return strings.TrimSuffix(id, ReverseSuffix)
	}
	return id + ReverseSuffix
}

// Graph is an assembly graph keyed by fragment ID.
//
// The zero value is not usable - use [NewGraph] or [ReadFASTG].
type Graph struct {
	nodes   map[string]*Node
	overlap int
}

// NewGraph creates an empty graph whose fragments overlap by k bases.
func NewGraph(k int) (*Graph, error) {
	if k <= 0 {
		return nil, ErrInvalidOverlap
	}
	return &Graph{nodes: make(map[string]*Node), overlap: k}, nil
}

// Overlap returns the assembly-wide overlap length k.
func (g *Graph) Overlap() int { return g.overlap }

// AddNode adds a fragment. Children are attached later with AddEdge.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[n.ID] = n
	return nil
}

// AddEdge records that fragment to may follow fragment from with the given
// overlap.
func (g *Graph) AddEdge(from, to string, overlap int) error {
	if overlap <= 0 {
		return ErrInvalidOverlap
	}
	src, ok := g.nodes[from]
	if !ok {
		return ErrUnknownNode
	}
	dst, ok := g.nodes[to]
	if !ok {
		return ErrUnknownNode
	}
	src.Children = append(src.Children, Edge{Node: dst, Overlap: overlap})
	return nil
}

// Node returns the fragment with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Children returns the successor edges of a fragment, or nil if the
// fragment is unknown or has none.
func (g *Graph) Children(id string) []Edge {
	if n, ok := g.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// Len returns the number of fragments, counting both strands.
func (g *Graph) Len() int { return len(g.nodes) }

// IDs returns all fragment IDs in [CompareIDs] order.
func (g *Graph) IDs() []string {
	return slices.SortedFunc(maps.Keys(g.nodes), CompareIDs)
}

// Nodes returns all fragments in [CompareIDs] order.
func (g *Graph) Nodes() []*Node {
	ids := g.IDs()
	nodes := make([]*Node, len(ids))
	for i, id := range ids {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// CompareIDs orders fragment IDs by their numeric part, forward strand
// first. Non-numeric IDs sort after numeric ones, lexically.
func CompareIDs(a, b string) int {
	ba, bb := strings.TrimSuffix(a, ReverseSuffix), strings.TrimSuffix(b, ReverseSuffix)
	na, errA := strconv.Atoi(ba)
	nb, errB := strconv.Atoi(bb)
	switch {
	case errA == nil && errB == nil && na != nb:
		if na < nb {
			return -1
		}
		return 1
	case errA == nil && errB != nil:
		return -1
	case errA != nil && errB == nil:
		return 1
	case ba != bb:
		return strings.Compare(ba, bb)
	}
	return strings.Compare(a, b)
}
