// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package matrix

import "sort"

// Index is an immutable bidirectional mapping between names and dense
// integer positions 0..Len()-1. It is the single source of truth for the
// user and artist orderings of one build: the similarity and recommendation
// layers receive it from the builder instead of re-deriving an encoding.
type Index struct {
	names []string
	pos   map[string]int
}

// NewIndex builds an Index over the distinct values in names, assigning
// positions by lexicographic order (a categorical encoding).
func NewIndex(names []string) *Index {
	distinct := make(map[string]struct{}, len(names))
	for _, n := range names {
		distinct[n] = struct{}{}
	}

	sorted := make([]string, 0, len(distinct))
	for n := range distinct {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	return NewIndexFromNames(sorted)
}

// NewIndexFromNames builds an Index that adopts the given ordering
// verbatim. Used when restoring a persisted build, where the stored
// ordering must be reproduced exactly. Names must be distinct.
func NewIndexFromNames(names []string) *Index {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}

	return &Index{names: names, pos: pos}
}

// Len returns the number of indexed names.
func (ix *Index) Len() int {
	return len(ix.names)
}

// Lookup returns the position of name, or false if name is not indexed.
func (ix *Index) Lookup(name string) (int, bool) {
	i, ok := ix.pos[name]
	return i, ok
}

// Name returns the name at position i.
func (ix *Index) Name(i int) string {
	return ix.names[i]
}

// Names returns a copy of the indexed names in position order.
func (ix *Index) Names() []string {
	out := make([]string, len(ix.names))
	copy(out, ix.names)
	return out
}
