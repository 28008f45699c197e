package chain

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/agnivade/levenshtein"

	"github.com/omacc/omacc/pkg/alignment"
)

// Path is the winning chain of alignments.
type Path struct {
	Indices []int               // Arena indices in chain order
	Records []*alignment.Record // Records in chain order
	Value   int                 // Value of the first alignment
}

// NodeIDs returns the fragment IDs along the path.
func (p *Path) NodeIDs() []string {
	ids := make([]string, len(p.Records))
	for i, r := range p.Records {
		ids[i] = r.NodeID
	}
	return ids
}

// Start returns the arena index the path begins at, or None for an empty
// path.
func (p *Path) Start() int {
	if len(p.Indices) == 0 {
		return None
	}
	return p.Indices[0]
}

// ExtractPath picks the alignment with the highest value, the first one in
// subject-start order on ties, and follows the chosen next hops until an
// alignment without successor.
func (c *Chain) ExtractPath(sol *Solution) (*Path, error) {
	if len(c.Records) == 0 {
		return nil, ErrEmptyInput
	}
	if len(sol.Values) != len(c.Records) || len(sol.Next) != len(c.Records) {
		return nil, fmt.Errorf("solution covers %d alignments, chain has %d", len(sol.Values), len(c.Records))
	}

	start := 0
	for i, v := range sol.Values {
		if v > sol.Values[start] {
			start = i
		}
	}

	p := &Path{Value: sol.Values[start]}
	visited := make([]bool, len(c.Records))
	for i := start; i != None; i = sol.Next[i] {
		if visited[i] {
			prev := p.Indices[len(p.Indices)-1]
			return nil, &CycleError{From: prev, To: i, Label: fmt.Sprintf("%s -> %s", c.Records[prev], c.Records[i])}
		}
		visited[i] = true
		p.Indices = append(p.Indices, i)
		p.Records = append(p.Records, c.Records[i])
	}
	return p, nil
}

// Expectation compares a path against fragments expected on it.
type Expectation struct {
	Visited   []string            // Expected fragments on the path, in path order
	Missing   []string            // Expected fragments aligned but off the path
	Unaligned []string            // Expected fragments with no alignment at all
	Similar   map[string][]string // Known fragment IDs close to each unaligned ID
}

// maxSuggestDistance bounds the edit distance of suggested fragment IDs.
const maxSuggestDistance = 2

// Expect checks which expected fragments the path visits. Each expected ID
// is reported once. Unaligned IDs get up to three suggestions from known,
// the fragment IDs of the assembly.
func (c *Chain) Expect(p *Path, expected, known []string) (*Expectation, error) {
	byNode, err := c.Index(alignment.ByNodeID)
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(expected))
	for _, id := range expected {
		want[id] = true
	}

	exp := &Expectation{Similar: make(map[string][]string)}
	seen := make(map[string]bool)
	for _, id := range p.NodeIDs() {
		if want[id] && !seen[id] {
			exp.Visited = append(exp.Visited, id)
			seen[id] = true
		}
	}
	for _, id := range expected {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, aligned := byNode[id]; aligned {
			exp.Missing = append(exp.Missing, id)
			continue
		}
		exp.Unaligned = append(exp.Unaligned, id)
		if s := suggest(id, known); len(s) > 0 {
			exp.Similar[id] = s
		}
	}
	return exp, nil
}

func suggest(id string, known []string) []string {
	type candidate struct {
		id   string
		dist int
	}
	var cands []candidate
	for _, k := range known {
		if k == id {
			continue
		}
		if d := levenshtein.ComputeDistance(id, k); d <= maxSuggestDistance {
			cands = append(cands, candidate{k, d})
		}
	}
	slices.SortFunc(cands, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(a.dist, b.dist), cmp.Compare(a.id, b.id))
	})
	out := make([]string, 0, 3)
	for _, c := range cands {
		if len(out) == cap(out) {
			break
		}
		out = append(out, c.id)
	}
	return out
}
