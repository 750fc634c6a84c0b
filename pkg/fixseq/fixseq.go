// Package fixseq searches the legal orders in which a set of nodes can be
// fixed.
//
// Different fixing orders of the same nodes yield formulas that look
// different but denote the same distribution, and can differ a lot in size.
// [Search] builds the tree of all legal orders for one district and returns
// every complete sequence, or a single one in degrade mode.
//
// The tree is stored as an arena: nodes are slice indices and point back to
// their parent, so a sequence is recovered by walking up from its leaf.
package fixseq

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// Options control the search.
type Options struct {
	// Degrade follows one randomly chosen fixable node per level instead of
	// branching on all of them. It yields at most one witness sequence.
	Degrade bool

	// Rand picks the branch in degrade mode. Nil uses a PCG source seeded
	// with DefaultSeed.
	Rand *rand.Rand
}

// DefaultSeed seeds the degrade-mode source when Options.Rand is nil.
const DefaultSeed = 42

// checkEvery is how many expansions run between context checks.
const checkEvery = 64

// Result is the outcome of a search for one district.
type Result struct {
	// Sequences holds one fixing order per legal leaf.
	Sequences [][]string
	// Graphs is parallel to Sequences: Graphs[i][k] is the graph after
	// fixing Sequences[i][k].
	Graphs [][]*admg.ADMG
	// Identifiable is true when at least one legal leaf exists.
	Identifiable bool
}

type status uint8

const (
	expandable status = iota
	legal             // remaining set empty
	deadEnd           // nodes remain but none is fixable
)

// node is one search state. Graph is owned by the node; children are
// created from clones of it.
type node struct {
	parent    int
	fixed     string
	graph     *admg.ADMG
	remaining nodeset.Set
	status    status
	children  []int
}

// Tree is the arena that holds every state of one search.
type Tree struct {
	nodes []node
}

// Len returns the number of states explored.
func (t *Tree) Len() int { return len(t.nodes) }

// Search explores the fixing orders of V ∖ district in g. The caller's graph
// is never modified. The number of orders grows factorially with the nodes
// outside the district, so the search stops with ctx.Err() once ctx is done.
func Search(ctx context.Context, g *admg.ADMG, district nodeset.Set, opts Options) (*Result, *Tree, error) {
	if err := g.Check(district); err != nil {
		return nil, nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(DefaultSeed, DefaultSeed))
	}

	t := &Tree{}
	t.nodes = append(t.nodes, node{
		parent:    -1,
		graph:     g.Clone(),
		remaining: g.Nodes().Diff(district),
	})

	// Depth-first with an explicit stack. Children are pushed in reverse so
	// they are expanded in name order.
	stack := []int{0}
	for n := 0; len(stack) > 0; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, t, err
			}
		}
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cur := &t.nodes[i]
		if cur.remaining.Empty() {
			cur.status = legal
			continue
		}
		var fixable []string
		for _, v := range cur.remaining.Sorted() {
			if ok, _ := cur.graph.IsFixable(v); ok {
				fixable = append(fixable, v)
			}
		}
		if len(fixable) == 0 {
			cur.status = deadEnd
			continue
		}
		if opts.Degrade {
			fixable = []string{fixable[rng.IntN(len(fixable))]}
		}

		graph, remaining := cur.graph, cur.remaining
		var kids []int
		for _, v := range fixable {
			child := graph.Clone()
			_ = child.Fix(v)
			t.nodes = append(t.nodes, node{
				parent:    i,
				fixed:     v,
				graph:     child,
				remaining: remaining.Without(v),
			})
			kids = append(kids, len(t.nodes)-1)
		}
		t.nodes[i].children = kids
		for _, k := range slices.Backward(kids) {
			stack = append(stack, k)
		}
	}

	return t.result(), t, nil
}

// result collects the legal leaves in depth-first order.
func (t *Tree) result() *Result {
	res := &Result{}
	var visit func(int)
	visit = func(i int) {
		n := t.nodes[i]
		if n.status == legal {
			seq, graphs := t.path(i)
			res.Sequences = append(res.Sequences, seq)
			res.Graphs = append(res.Graphs, graphs)
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(0)
	res.Identifiable = len(res.Sequences) > 0
	return res
}

// path walks from leaf i to the root and returns the fixed nodes and the
// graph after each fix, root first.
func (t *Tree) path(i int) ([]string, []*admg.ADMG) {
	seq := []string{}
	graphs := []*admg.ADMG{}
	for ; t.nodes[i].parent >= 0; i = t.nodes[i].parent {
		seq = append(seq, t.nodes[i].fixed)
		graphs = append(graphs, t.nodes[i].graph)
	}
	slices.Reverse(seq)
	slices.Reverse(graphs)
	return seq, graphs
}

// Leaves returns the number of legal and dead-end leaves in the tree.
func (t *Tree) Leaves() (legalLeaves, deadEnds int) {
	for _, n := range t.nodes {
		switch n.status {
		case legal:
			legalLeaves++
		case deadEnd:
			deadEnds++
		}
	}
	return legalLeaves, deadEnds
}
