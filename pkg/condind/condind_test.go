package condind

import (
	"testing"

	"github.com/matzehuels/causaltower/pkg/nodeset"
)

func TestSetDeduplicates(t *testing.T) {
	a := New(nodeset.New("A"), nodeset.New("C"), nodeset.New("B"))
	b := New(nodeset.New("A"), nodeset.New("C"), nodeset.New("B"))
	c := New(nodeset.New("B"), nodeset.New("D"), nil)

	s := NewSet(c, a)
	if s.Add(b) {
		t.Error("Add() of duplicate = true, want false")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if got := s.Items()[0].X.Sorted()[0]; got != "A" {
		t.Errorf("Items()[0].X = %v, want {A} first in key order", got)
	}
}

func TestNewCopies(t *testing.T) {
	x := nodeset.New("A")
	ci := New(x, nodeset.New("B"), nil)
	x.Add("Z")
	if ci.X.Has("Z") {
		t.Error("New() must copy its arguments")
	}
	if ci.Z == nil || !ci.Z.Empty() {
		t.Errorf("Z = %v, want empty non-nil set", ci.Z)
	}
}

func TestZeroSetAdd(t *testing.T) {
	var s Set
	if !s.Add(New(nodeset.New("A"), nodeset.New("B"), nil)) {
		t.Error("Add() on zero Set = false, want true")
	}
}
