// Package nodeset provides the set-of-node-names value type shared by the
// graph, expression and identification packages.
//
// A [Set] is a plain map from name to empty struct. All set algebra returns a
// fresh set and never aliases its inputs, so a result can be mutated without
// affecting the operands. The zero value (nil) is a valid empty set for every
// read-only operation.
package nodeset

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Set is an unordered collection of node names.
type Set map[string]struct{}

// New returns a set containing names.
func New(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Of is like New but takes a slice, for call sites that already hold one.
func Of(names []string) Set { return New(names...) }

// Add inserts names into s in place.
func (s Set) Add(names ...string) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

// Remove deletes names from s in place.
func (s Set) Remove(names ...string) {
	for _, n := range names {
		delete(s, n)
	}
}

// Has reports whether name is in s.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names in s.
func (s Set) Len() int { return len(s) }

// Empty reports whether s has no members.
func (s Set) Empty() bool { return len(s) == 0 }

// Clone returns an independent copy of s. Cloning nil yields an empty,
// non-nil set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Union returns s ∪ others.
func (s Set) Union(others ...Set) Set {
	u := s.Clone()
	for _, o := range others {
		for n := range o {
			u[n] = struct{}{}
		}
	}
	return u
}

// Intersect returns s ∩ o.
func (s Set) Intersect(o Set) Set {
	r := make(Set)
	for n := range s {
		if o.Has(n) {
			r[n] = struct{}{}
		}
	}
	return r
}

// Diff returns s − others.
func (s Set) Diff(others ...Set) Set {
	r := make(Set, len(s))
	for n := range s {
		keep := true
		for _, o := range others {
			if o.Has(n) {
				keep = false
				break
			}
		}
		if keep {
			r[n] = struct{}{}
		}
	}
	return r
}

// Without returns s with names removed.
func (s Set) Without(names ...string) Set { return s.Diff(New(names...)) }

// With returns s with names added.
func (s Set) With(names ...string) Set { return s.Union(New(names...)) }

// SubsetOf reports whether every member of s is in o.
func (s Set) SubsetOf(o Set) bool {
	if len(s) > len(o) {
		return false
	}
	for n := range s {
		if !o.Has(n) {
			return false
		}
	}
	return true
}

// Equal reports whether s and o contain exactly the same names.
func (s Set) Equal(o Set) bool {
	return len(s) == len(o) && s.SubsetOf(o)
}

// Disjoint reports whether s and o share no member.
func (s Set) Disjoint(o Set) bool {
	for n := range s {
		if o.Has(n) {
			return false
		}
	}
	return true
}

// Sorted returns the members of s in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Min returns the smallest member of s, or "" for an empty set.
func (s Set) Min() string {
	var m string
	for n := range s {
		if m == "" || n < m {
			m = n
		}
	}
	return m
}

// Key returns a canonical string for s. Two sets have the same key exactly
// when they are equal.
func (s Set) Key() string {
	return strings.Join(s.Sorted(), "\x00")
}

// String renders s as a sorted, comma-separated list.
func (s Set) String() string {
	return "{" + strings.Join(s.Sorted(), ",") + "}"
}

// Replace returns a copy of s with from renamed to to. If from is absent the
// copy is unchanged.
func (s Set) Replace(from, to string) Set {
	r := s.Clone()
	if r.Has(from) {
		delete(r, from)
		r[to] = struct{}{}
	}
	return r
}

// MarshalJSON encodes s as a sorted array of names.
func (s Set) MarshalJSON() ([]byte, error) {
	names := s.Sorted()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes an array of names. Duplicates collapse.
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = New(names...)
	return nil
}
