package domain

import (
	"encoding/json"
	"maps"
	"slices"
)

// IndexSet is a set of stage indices.
type IndexSet map[int]struct{}

// NewIndexSet creates a set holding the given indices.
func NewIndexSet(indices ...int) IndexSet {
	s := make(IndexSet, len(indices))
	for _, i := range indices {
		s[i] = struct{}{}
	}
	return s
}

// Add inserts idx into the set.
func (s IndexSet) Add(idx int) { s[idx] = struct{}{} }

// Remove deletes idx from the set.
func (s IndexSet) Remove(idx int) { delete(s, idx) }

// Has reports whether idx is in the set.
func (s IndexSet) Has(idx int) bool {
	_, ok := s[idx]
	return ok
}

// Sorted returns the members in ascending order.
func (s IndexSet) Sorted() []int {
	return slices.Sorted(maps.Keys(s))
}

// MarshalJSON encodes the set as a sorted array.
func (s IndexSet) MarshalJSON() ([]byte, error) {
	sorted := s.Sorted()
	if sorted == nil {
		sorted = []int{}
	}
	return json.Marshal(sorted)
}

// UnmarshalJSON decodes the set from an array of indices.
func (s *IndexSet) UnmarshalJSON(data []byte) error {
	var indices []int
	if err := json.Unmarshal(data, &indices); err != nil {
		return err
	}
	*s = NewIndexSet(indices...)
	return nil
}

// AdjacencySet maps a stage index to the set of indices it may move to.
//
// An empty or missing entry is the "unrestricted" sentinel: any transition
// away from that stage is permitted. It is never the same as "nothing allowed".
type AdjacencySet map[int]IndexSet

// NewAdjacencySet creates an adjacency with an empty (unrestricted) entry per stage.
func NewAdjacencySet(size int) AdjacencySet {
	a := make(AdjacencySet, size)
	for i := 0; i < size; i++ {
		a[i] = IndexSet{}
	}
	return a
}

// Restricted reports whether idx has a non-empty allow set.
func (a AdjacencySet) Restricted(idx int) bool {
	return len(a[idx]) > 0
}

// Allowed returns the sorted allow set of idx. Nil means unrestricted.
func (a AdjacencySet) Allowed(idx int) []int {
	if !a.Restricted(idx) {
		return nil
	}
	return a[idx].Sorted()
}

// Clone returns a deep copy.
func (a AdjacencySet) Clone() AdjacencySet {
	out := make(AdjacencySet, len(a))
	for k, v := range a {
		out[k] = maps.Clone(v)
		if out[k] == nil {
			out[k] = IndexSet{}
		}
	}
	return out
}

// Equal reports whether both adjacencies allow the same transitions.
// A missing entry and an empty entry are equivalent.
func (a AdjacencySet) Equal(b AdjacencySet) bool {
	keys := make(map[int]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	for k := range keys {
		if !maps.Equal(a[k], b[k]) {
			return false
		}
	}
	return true
}
