package separation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/nodeset"
)

func graph(t *testing.T, directed, bidirected [][2]string) *admg.ADMG {
	t.Helper()
	g := admg.New("")
	names := nodeset.New()
	for _, e := range append(directed, bidirected...) {
		names.Add(e[0], e[1])
	}
	require.NoError(t, g.AddNodes(names.Sorted()...))
	for _, e := range directed {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	for _, e := range bidirected {
		require.NoError(t, g.AddBidirected(e[0], e[1]))
	}
	return g
}

func TestDSeparation(t *testing.T) {
	chain := graph(t, [][2]string{{"A", "B"}, {"B", "C"}}, nil)
	fork := graph(t, [][2]string{{"B", "A"}, {"B", "C"}}, nil)
	collider := graph(t, [][2]string{{"A", "B"}, {"C", "B"}, {"B", "D"}}, nil)

	tests := []struct {
		name string
		g    *admg.ADMG
		z    nodeset.Set
		want bool
	}{
		{"chain open", chain, nodeset.New(), false},
		{"chain blocked", chain, nodeset.New("B"), true},
		{"fork open", fork, nodeset.New(), false},
		{"fork blocked", fork, nodeset.New("B"), true},
		{"collider closed", collider, nodeset.New(), true},
		{"collider opened", collider, nodeset.New("B"), false},
		{"collider opened by descendant", collider, nodeset.New("D"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsDSeparated(tt.g, "A", "C", tt.z)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("IsDSeparated(A, C | %v) = %v, want %v", tt.z, got, tt.want)
			}
		})
	}
}

func TestDConnectedExcludesConditioning(t *testing.T) {
	g := graph(t, [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}}, nil)
	r, err := DConnected(g, "A", nodeset.New("C"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, r.Sorted())

	r, err = DConnected(g, "C", nodeset.New("C"))
	require.NoError(t, err)
	assert.True(t, r.Empty())
}

func TestDConnectedIgnoresBidirected(t *testing.T) {
	g := graph(t, nil, [][2]string{{"A", "B"}})
	sep, err := IsDSeparated(g, "A", "B", nil)
	require.NoError(t, err)
	assert.True(t, sep)

	sep, err = IsMSeparated(g, "A", "B", nil)
	require.NoError(t, err)
	assert.False(t, sep)
}

func TestMSeparation(t *testing.T) {
	// A → B ↔ C ← D: B and C are a bidirected collider pair.
	g := graph(t, [][2]string{{"A", "B"}, {"D", "C"}}, [][2]string{{"B", "C"}})

	tests := []struct {
		name string
		x, y string
		z    nodeset.Set
		want bool
	}{
		{"collider closed", "A", "D", nil, true},
		{"conditioning on B opens B<->C", "A", "C", nodeset.New("B"), false},
		{"conditioning on both opens path", "A", "D", nodeset.New("B", "C"), false},
		{"bidirect is adjacency", "B", "C", nodeset.New("A", "D"), false},
		{"A to C blocked without B", "A", "C", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsMSeparated(g, tt.x, tt.y, tt.z)
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("IsMSeparated(%s, %s | %v) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
			}
		})
	}
}

func TestUnknownNode(t *testing.T) {
	g := graph(t, [][2]string{{"A", "B"}}, nil)
	_, err := DConnected(g, "Q", nil)
	assert.ErrorIs(t, err, admg.ErrUnknownNode)
	_, err = IsMSeparated(g, "A", "Q", nil)
	assert.ErrorIs(t, err, admg.ErrUnknownNode)
	_, err = MConnected(g, "A", nodeset.New("Q"))
	assert.ErrorIs(t, err, admg.ErrUnknownNode)
}

func TestTerminatesOnCycle(t *testing.T) {
	g := graph(t, [][2]string{{"A", "B"}, {"B", "A"}}, [][2]string{{"A", "B"}})
	r, err := MConnected(g, "A", nodeset.New("B"))
	require.NoError(t, err)
	assert.True(t, r.Has("A"))
}
