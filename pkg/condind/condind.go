// Package condind holds conditional independence statements (X ⊥ Y | Z)
// derived from graph structure.
package condind

import (
	"slices"
	"strings"

	"github.com/matzehuels/causaltower/pkg/nodeset"
)

// CondInd asserts that X is independent of Y given Z. The three sets are
// disjoint. Z may be empty for a marginal independence.
type CondInd struct {
	X nodeset.Set `json:"x"`
	Y nodeset.Set `json:"y"`
	Z nodeset.Set `json:"z"`
}

// New copies x, y and z into a statement.
func New(x, y, z nodeset.Set) CondInd {
	return CondInd{X: x.Clone(), Y: y.Clone(), Z: z.Clone()}
}

// Key is a canonical string for the statement.
func (c CondInd) Key() string {
	return strings.Join([]string{c.X.Key(), c.Y.Key(), c.Z.Key()}, "|")
}

// Set is a collection of statements without duplicates, ordered by key.
type Set struct {
	items []CondInd
	keys  map[string]struct{}
}

// NewSet collects cis, dropping duplicates.
func NewSet(cis ...CondInd) *Set {
	s := &Set{keys: make(map[string]struct{})}
	for _, c := range cis {
		s.Add(c)
	}
	return s
}

// Add inserts c unless an equal statement is present. It reports whether c
// was added.
func (s *Set) Add(c CondInd) bool {
	k := c.Key()
	if _, ok := s.keys[k]; ok {
		return false
	}
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	s.keys[k] = struct{}{}
	i, _ := slices.BinarySearchFunc(s.items, k, func(e CondInd, k string) int {
		return strings.Compare(e.Key(), k)
	})
	s.items = slices.Insert(s.items, i, c)
	return true
}

// Len returns the number of statements.
func (s *Set) Len() int { return len(s.items) }

// Items returns the statements in key order. The slice must not be modified.
func (s *Set) Items() []CondInd { return s.items }
