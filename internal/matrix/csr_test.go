// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSR(t *testing.T) {
	// 3x4 matrix:
	//   [0 2 0 1]
	//   [0 0 0 0]
	//   [3 0 0 4]
	entries := []Entry{
		{Row: 2, Col: 3, Val: 4},
		{Row: 0, Col: 1, Val: 2},
		{Row: 2, Col: 0, Val: 3},
		{Row: 0, Col: 3, Val: 1},
	}
	m := NewCSR(3, 4, entries)

	assert.Equal(t, 4, m.NNZ())
	assert.Equal(t, 2.0, m.At(0, 1))
	assert.Equal(t, 1.0, m.At(0, 3))
	assert.Equal(t, 0.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(1, 2))
	assert.Equal(t, 3.0, m.At(2, 0))
	assert.Equal(t, 4.0, m.At(2, 3))
}

func TestCSRRowIterationOrdered(t *testing.T) {
	m := NewCSR(1, 5, []Entry{
		{Row: 0, Col: 4, Val: 1},
		{Row: 0, Col: 0, Val: 2},
		{Row: 0, Col: 2, Val: 3},
	})

	var cols []int
	m.Row(0, func(col int, val float64) {
		cols = append(cols, col)
	})

	assert.Equal(t, []int{0, 2, 4}, cols)
}

func TestCSRSums(t *testing.T) {
	m := NewCSR(2, 3, []Entry{
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 2, Val: 2},
		{Row: 1, Col: 0, Val: 3},
	})

	assert.Equal(t, []float64{4, 0, 2}, m.ColumnSums())
	assert.Equal(t, []float64{3, 3}, m.RowSums())
}

func TestCSREntriesRoundTrip(t *testing.T) {
	entries := []Entry{
		{Row: 0, Col: 1, Val: 2},
		{Row: 1, Col: 0, Val: 5},
		{Row: 1, Col: 2, Val: 7},
	}
	m := NewCSR(2, 3, entries)

	rebuilt := NewCSR(2, 3, m.Entries())

	require.Equal(t, m.RowPtr, rebuilt.RowPtr)
	require.Equal(t, m.ColIdx, rebuilt.ColIdx)
	require.Equal(t, m.Data, rebuilt.Data)
}
