package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/omacc/omacc/pkg/chain"
)

// Document is the JSON form of a chaining result.
type Document struct {
	RunID      string      `json:"run_id,omitempty"`
	Overlap    int         `json:"overlap"`
	Alignments int         `json:"alignments"`
	Edges      int         `json:"edges"`
	Sweeps     int         `json:"sweeps"`
	Value      int         `json:"value"`
	Path       []Step      `json:"path"`
	Missing    []string    `json:"missing,omitempty"`
	Unaligned  []string    `json:"unaligned,omitempty"`
	Similar    Suggestions `json:"similar,omitempty"`
}

// Suggestions maps an unaligned fragment ID to close known IDs.
type Suggestions map[string][]string

// Step is one alignment along the path.
type Step struct {
	Index      int    `json:"index"`
	Node       string `json:"node"`
	Query      string `json:"query"`
	Subject    string `json:"subject"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Score      int    `json:"score"`
	Value      int    `json:"value"`
	Mismatches int    `json:"mismatches"`
}

// Meta carries run details that are not part of the chain itself.
type Meta struct {
	RunID       string
	Overlap     int
	Expectation *chain.Expectation // Optional
}

// NewDocument assembles the JSON form of a solved chain and its path.
func NewDocument(c *chain.Chain, sol *chain.Solution, p *chain.Path, meta Meta) *Document {
	doc := &Document{
		RunID:      meta.RunID,
		Overlap:    meta.Overlap,
		Alignments: c.Len(),
		Edges:      c.EdgeCount(),
		Sweeps:     sol.Sweeps,
		Value:      p.Value,
		Path:       make([]Step, len(p.Indices)),
	}
	for k, i := range p.Indices {
		r := c.Records[i]
		doc.Path[k] = Step{
			Index:      i,
			Node:       r.NodeID,
			Query:      r.QueryID,
			Subject:    r.SubjectID,
			Start:      r.SubjectStart,
			End:        r.SubjectEnd,
			Score:      r.Score(),
			Value:      sol.Values[i],
			Mismatches: r.Mismatches,
		}
	}
	if exp := meta.Expectation; exp != nil {
		doc.Missing = exp.Missing
		doc.Unaligned = exp.Unaligned
		if len(exp.Similar) > 0 {
			doc.Similar = exp.Similar
		}
	}
	return doc
}

// WriteJSON encodes doc as indented JSON to w.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return writeJSONAndClose(doc, f)
}

func writeJSONAndClose(doc *Document, wc io.WriteCloser) error {
	if err := WriteJSON(doc, wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

// WriteSuccessors writes the successor table of c: one row per alignment,
// its raw report line followed by the raw lines of its successors, all
// tab-separated.
func WriteSuccessors(c *chain.Chain, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, r := range c.Records {
		bw.WriteString(r.Line)
		for _, j := range c.Successors[i] {
			bw.WriteByte('\t')
			bw.WriteString(c.Records[j].Line)
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write successors: %w", err)
	}
	return nil
}
