package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a result document written by [WriteJSON].
//
// ReadJSON returns an error if the JSON is malformed or if a path step
// lacks a fragment ID. It does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for k, s := range doc.Path {
		if s.Node == "" {
			return nil, fmt.Errorf("path step %d: missing node", k)
		}
	}
	return &doc, nil
}

// ImportJSON reads a result document from the file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
