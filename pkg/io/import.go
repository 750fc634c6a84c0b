package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/causaltower/pkg/admg"
)

// ErrDuplicateNode is returned when two nodes share an ID.
var ErrDuplicateNode = errors.New("duplicate node id")

// ReadJSON decodes a JSON graph from r into an ADMG.
//
// The input must be a JSON object with a "nodes" array and optional "edges"
// (directed) and "bidirected" arrays:
//
//	{
//	  "nodes": [{"id": "X"}, {"id": "Y"}],
//	  "edges": [{"from": "X", "to": "Y"}],
//	  "bidirected": [{"from": "X", "to": "Y"}]
//	}
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A node has an empty or duplicate ID
//   - An edge references an unknown node ID
//
// Directed cycles are not rejected here. Call [admg.ADMG.Validate] when the
// caller needs acyclicity.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*admg.ADMG, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := admg.New(data.Title)
	for _, n := range data.Nodes {
		if g.Has(n.ID) {
			return nil, fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNode)
		}
		if err := g.AddNode(admg.Node{Name: n.ID, Properties: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	for _, e := range data.Bidirected {
		if err := g.AddBidirected(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %s<->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded ADMG.
// It returns the same validation errors as [ReadJSON].
func ImportJSON(path string) (*admg.ADMG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
