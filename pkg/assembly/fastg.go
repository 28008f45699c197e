package assembly

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformedFASTG is returned by [ReadFASTG] when the input is not valid
// FASTG: sequence data before the first header, duplicate fragments, or
// children that are never defined.
var ErrMalformedFASTG = errors.New("malformed FASTG")

type fastgRecord struct {
	name     Name
	short    string
	children []string
	seq      strings.Builder
	line     int
}

// ReadFASTG reads a FASTG assembly graph. Every edge is given the
// assembly-wide overlap k, as assemblers only emit exact k-overlaps.
//
// Headers have the form ">NAME:CHILD1,CHILD2;" or ">NAME;". Sequence lines
// following a header are concatenated. Blank lines are ignored.
func ReadFASTG(r io.Reader, k int) (*Graph, error) {
	g, err := NewGraph(k)
	if err != nil {
		return nil, err
	}

	var records []*fastgRecord
	var cur *fastgRecord

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			short, children := splitLongName(line)
			name, err := ParseName(short)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedFASTG, lineNo, err)
			}
			cur = &fastgRecord{name: name, short: short, children: children, line: lineNo}
			records = append(records, cur)
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: line %d: sequence before first header", ErrMalformedFASTG, lineNo)
		}
		cur.seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read FASTG: %w", err)
	}

	for _, rec := range records {
		n := &Node{
			ID:       rec.name.ID,
			Name:     rec.short,
			Seq:      rec.seq.String(),
			Length:   rec.name.Length,
			Coverage: rec.name.Coverage,
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("%w: line %d: node %s: %w", ErrMalformedFASTG, rec.line, n.ID, err)
		}
	}
	for _, rec := range records {
		for _, child := range rec.children {
			cn, err := ParseName(child)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedFASTG, rec.line, err)
			}
			if err := g.AddEdge(rec.name.ID, cn.ID, k); err != nil {
				return nil, fmt.Errorf("%w: line %d: edge %s->%s: %w", ErrMalformedFASTG, rec.line, rec.name.ID, cn.ID, err)
			}
		}
	}
	return g, nil
}

// ImportFASTG reads a FASTG file at path.
func ImportFASTG(path string, k int) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadFASTG(f, k)
}
