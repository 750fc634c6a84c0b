package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/causaltower/pkg/admg"
)

type graph struct {
	Title      string `json:"title,omitempty"`
	Nodes      []node `json:"nodes"`
	Edges      []edge `json:"edges"`
	Bidirected []edge `json:"bidirected"`
}

type node struct {
	ID   string        `json:"id"`
	Meta admg.Metadata `json:"properties,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func fromADMG(g *admg.ADMG) graph {
	out := graph{
		Title:      g.Title(),
		Nodes:      make([]node, 0, g.Len()),
		Edges:      []edge{},
		Bidirected: []edge{},
	}
	for _, name := range g.Names() {
		n, _ := g.Node(name)
		out.Nodes = append(out.Nodes, node{ID: name, Meta: n.Properties})
	}
	for _, e := range g.DirectedEdges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	for _, e := range g.BidirectedEdges() {
		out.Bidirected = append(out.Bidirected, edge{From: e.From, To: e.To})
	}
	return out
}

// WriteJSON encodes g as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *admg.ADMG, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromADMG(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *admg.ADMG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
