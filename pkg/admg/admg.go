package admg

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/causaltower/pkg/nodeset"
)

var (
	// ErrInvalidNodeID is returned by [ADMG.AddNode] and [ADMG.AddEdges] when
	// the node name is empty. All nodes must have non-empty names.
	ErrInvalidNodeID = errors.New("node name must not be empty")

	// ErrUnknownNode is returned when a query, edge insertion or fix refers to
	// a node name that is not in the graph. The wrapping error names the key.
	ErrUnknownNode = errors.New("unknown node")

	// ErrAsymmetric is returned by [ADMG.Validate] when a parent/child or
	// bidirected relation is recorded on one endpoint only.
	ErrAsymmetric = errors.New("asymmetric edge relation")

	// ErrGraphHasCycle is returned by [ADMG.Validate] when the directed part
	// of the graph contains a cycle.
	ErrGraphHasCycle = errors.New("graph contains a directed cycle")
)

// Metadata stores opaque properties attached to a node. The core never
// interprets it; the GRAPL and JSON layers carry it through unchanged.
type Metadata map[string]any

// Node is a random variable in an ADMG. Parents, Children and Bidirects hold
// names of other nodes in the same graph.
//
// A Node is owned by exactly one graph and should only be changed through
// ADMG methods once added.
type Node struct {
	Name       string
	Parents    nodeset.Set
	Children   nodeset.Set
	Bidirects  nodeset.Set
	Properties Metadata
}

func (n *Node) clone() *Node {
	return &Node{
		Name:       n.Name,
		Parents:    n.Parents.Clone(),
		Children:   n.Children.Clone(),
		Bidirects:  n.Bidirects.Clone(),
		Properties: maps.Clone(n.Properties),
	}
}

// Edges groups the relation sets passed to [ADMG.AddEdges].
type Edges struct {
	Parents   nodeset.Set
	Bidirects nodeset.Set
	Children  nodeset.Set
}

// Edge is a directed (From → To) or bidirected (From ↔ To) pair of node names.
type Edge struct {
	From string
	To   string
}

// ADMG is an acyclic directed mixed graph: named nodes joined by directed
// edges (direct causes) and bidirected edges (hidden common causes).
//
// The zero value is not usable - use New. An ADMG is not safe for concurrent
// mutation; the identification algorithms work on clones so the caller's
// graph is never changed.
type ADMG struct {
	title string
	nodes map[string]*Node
}

// New creates an empty graph with an optional display title.
func New(title string) *ADMG {
	return &ADMG{title: title, nodes: make(map[string]*Node)}
}

// Title returns the display title.
func (g *ADMG) Title() string { return g.title }

// SetTitle sets the display title.
func (g *ADMG) SetTitle(title string) { g.title = title }

// AddNode inserts n, replacing any node with the same name. The relation sets
// are copied, so the caller may reuse them. Relations are not made symmetric
// until [ADMG.Connect] is called.
//
// Returns ErrInvalidNodeID if n.Name is empty.
func (g *ADMG) AddNode(n Node) error {
	if n.Name == "" {
		return ErrInvalidNodeID
	}
	g.nodes[n.Name] = &Node{
		Name:       n.Name,
		Parents:    n.Parents.Clone(),
		Children:   n.Children.Clone(),
		Bidirects:  n.Bidirects.Clone(),
		Properties: metaOrEmpty(n.Properties),
	}
	return nil
}

// AddNodes is a shorthand for adding bare nodes by name.
func (g *ADMG) AddNodes(names ...string) error {
	for _, name := range names {
		if err := g.AddNode(Node{Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// AddEdges unions e into the relation sets of the named node. Like AddNode it
// records one side only; call [ADMG.Connect] afterwards.
//
// Returns ErrInvalidNodeID for an empty name and ErrUnknownNode if the node
// does not exist.
func (g *ADMG) AddEdges(name string, e Edges) error {
	if name == "" {
		return ErrInvalidNodeID
	}
	n, ok := g.nodes[name]
	if !ok {
		return unknown(name)
	}
	n.Parents.Add(e.Parents.Sorted()...)
	n.Children.Add(e.Children.Sorted()...)
	n.Bidirects.Add(e.Bidirects.Sorted()...)
	return nil
}

// AddEdge adds the directed edge from → to on both endpoints.
func (g *ADMG) AddEdge(from, to string) error {
	src, dst, err := g.pair(from, to)
	if err != nil {
		return err
	}
	src.Children.Add(to)
	dst.Parents.Add(from)
	return nil
}

// AddBidirected adds the bidirected edge a ↔ b on both endpoints.
func (g *ADMG) AddBidirected(a, b string) error {
	na, nb, err := g.pair(a, b)
	if err != nil {
		return err
	}
	na.Bidirects.Add(b)
	nb.Bidirects.Add(a)
	return nil
}

func (g *ADMG) pair(a, b string) (*Node, *Node, error) {
	na, ok := g.nodes[a]
	if !ok {
		return nil, nil, unknown(a)
	}
	nb, ok := g.nodes[b]
	if !ok {
		return nil, nil, unknown(b)
	}
	return na, nb, nil
}

// Connect restores symmetry after bulk insertion: every parent lists its
// child, every child lists its parent, and every bidirected partner lists the
// other. Returns ErrUnknownNode if any relation names an absent node; in that
// case relations processed before the offending node stay connected.
func (g *ADMG) Connect() error {
	for _, name := range g.Names() {
		n := g.nodes[name]
		for _, p := range n.Parents.Sorted() {
			pn, ok := g.nodes[p]
			if !ok {
				return fmt.Errorf("parent of %q: %w", name, unknown(p))
			}
			pn.Children.Add(name)
		}
		for _, c := range n.Children.Sorted() {
			cn, ok := g.nodes[c]
			if !ok {
				return fmt.Errorf("child of %q: %w", name, unknown(c))
			}
			cn.Parents.Add(name)
		}
		for _, b := range n.Bidirects.Sorted() {
			bn, ok := g.nodes[b]
			if !ok {
				return fmt.Errorf("bidirect of %q: %w", name, unknown(b))
			}
			bn.Bidirects.Add(name)
		}
	}
	return nil
}

// Node returns the named node and true, or nil and false if absent. The
// pointer refers to the node in the graph.
func (g *ADMG) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Has reports whether the graph contains name.
func (g *ADMG) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Check returns ErrUnknownNode for the first (in sorted order) member of s
// that is not in the graph.
func (g *ADMG) Check(s nodeset.Set) error {
	for _, name := range s.Sorted() {
		if !g.Has(name) {
			return unknown(name)
		}
	}
	return nil
}

// Len returns the number of nodes.
func (g *ADMG) Len() int { return len(g.nodes) }

// Nodes returns the set of all node names.
func (g *ADMG) Nodes() nodeset.Set {
	s := make(nodeset.Set, len(g.nodes))
	for name := range g.nodes {
		s.Add(name)
	}
	return s
}

// Names returns all node names in ascending order.
func (g *ADMG) Names() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// DirectedEdges returns every parent → child edge, sorted by (From, To).
func (g *ADMG) DirectedEdges() []Edge {
	var edges []Edge
	for _, name := range g.Names() {
		for _, p := range g.nodes[name].Parents.Sorted() {
			edges = append(edges, Edge{From: p, To: name})
		}
	}
	slices.SortFunc(edges, compareEdges)
	return edges
}

// BidirectedEdges returns each bidirected pair once, with From < To, sorted.
// A self-loop a ↔ a is reported once as well.
func (g *ADMG) BidirectedEdges() []Edge {
	var edges []Edge
	for _, name := range g.Names() {
		for _, b := range g.nodes[name].Bidirects.Sorted() {
			if name <= b {
				edges = append(edges, Edge{From: name, To: b})
			}
		}
	}
	return edges
}

func compareEdges(a, b Edge) int {
	if a.From != b.From {
		if a.From < b.From {
			return -1
		}
		return 1
	}
	switch {
	case a.To < b.To:
		return -1
	case a.To > b.To:
		return 1
	}
	return 0
}

// Clone returns a deep copy. Fixing the copy never affects the original.
func (g *ADMG) Clone() *ADMG {
	c := &ADMG{title: g.title, nodes: make(map[string]*Node, len(g.nodes))}
	for name, n := range g.nodes {
		c.nodes[name] = n.clone()
	}
	return c
}

// Subgraph returns the graph induced by s: exactly the nodes of s with
// parent and bidirected relations restricted to s. Children are recomputed
// by Connect rather than copied. Returns ErrUnknownNode if s names an absent
// node.
func (g *ADMG) Subgraph(s nodeset.Set) (*ADMG, error) {
	if err := g.Check(s); err != nil {
		return nil, err
	}
	sub := New(g.title)
	for name := range s {
		n := g.nodes[name]
		sub.nodes[name] = &Node{
			Name:       name,
			Parents:    n.Parents.Intersect(s),
			Children:   make(nodeset.Set),
			Bidirects:  n.Bidirects.Intersect(s),
			Properties: maps.Clone(n.Properties),
		}
	}
	if err := sub.Connect(); err != nil {
		return nil, err
	}
	return sub, nil
}

// Validate checks the invariants every algorithm relies on:
//
//  1. Closed world: every relation names a node in the graph
//  2. Symmetry of parent/child and bidirected relations
//  3. The directed part is acyclic
//
// Returns ErrUnknownNode, ErrAsymmetric or ErrGraphHasCycle respectively.
func (g *ADMG) Validate() error {
	for _, name := range g.Names() {
		n := g.nodes[name]
		for _, p := range n.Parents.Sorted() {
			pn, ok := g.nodes[p]
			if !ok {
				return fmt.Errorf("parent of %q: %w", name, unknown(p))
			}
			if !pn.Children.Has(name) {
				return fmt.Errorf("%w: %s -> %s missing child entry", ErrAsymmetric, p, name)
			}
		}
		for _, c := range n.Children.Sorted() {
			cn, ok := g.nodes[c]
			if !ok {
				return fmt.Errorf("child of %q: %w", name, unknown(c))
			}
			if !cn.Parents.Has(name) {
				return fmt.Errorf("%w: %s -> %s missing parent entry", ErrAsymmetric, name, c)
			}
		}
		for _, b := range n.Bidirects.Sorted() {
			bn, ok := g.nodes[b]
			if !ok {
				return fmt.Errorf("bidirect of %q: %w", name, unknown(b))
			}
			if !bn.Bidirects.Has(name) {
				return fmt.Errorf("%w: %s <-> %s recorded on one side", ErrAsymmetric, name, b)
			}
		}
	}
	if !g.IsAcyclic() {
		return ErrGraphHasCycle
	}
	return nil
}

func unknown(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownNode, name)
}

func metaOrEmpty(m Metadata) Metadata {
	if m == nil {
		return Metadata{}
	}
	return maps.Clone(m)
}
