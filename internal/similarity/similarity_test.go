// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlens/encore/internal/matrix"
)

const tolerance = 1e-9

func TestArtistCosineIdenticalColumns(t *testing.T) {
	// Columns 0 and 1 are identical; column 2 is orthogonal to both.
	m := matrix.NewCSR(2, 3, []matrix.Entry{
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 1, Val: 1},
		{Row: 1, Col: 2, Val: 5},
	})

	sim := ArtistCosine(m)

	assert.InDelta(t, 1.0, sim[0][1], tolerance)
	assert.InDelta(t, 1.0, sim[1][0], tolerance)
	assert.InDelta(t, 0.0, sim[0][2], tolerance)
	assert.InDelta(t, 0.0, sim[2][1], tolerance)
}

func TestArtistCosineSelfSimilarity(t *testing.T) {
	m := matrix.NewCSR(2, 3, []matrix.Entry{
		{Row: 0, Col: 0, Val: 3},
		{Row: 1, Col: 1, Val: 7},
		// Column 2 is all zeros.
	})

	sim := ArtistCosine(m)

	assert.InDelta(t, 1.0, sim[0][0], tolerance)
	assert.InDelta(t, 1.0, sim[1][1], tolerance)
	// A zero column is similar to nothing, including itself.
	assert.Equal(t, 0.0, sim[2][2])
	assert.Equal(t, 0.0, sim[2][0])
}

func TestArtistCosineSymmetricAndFinite(t *testing.T) {
	m := matrix.NewCSR(3, 4, []matrix.Entry{
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 1, Val: 2},
		{Row: 1, Col: 1, Val: 3},
		{Row: 1, Col: 3, Val: 1},
		{Row: 2, Col: 0, Val: 2},
		{Row: 2, Col: 3, Val: 4},
	})

	sim := ArtistCosine(m)

	for i := range sim {
		for j := range sim[i] {
			assert.False(t, math.IsNaN(sim[i][j]), "sim[%d][%d] is NaN", i, j)
			assert.InDelta(t, sim[j][i], sim[i][j], tolerance)
			assert.LessOrEqual(t, sim[i][j], 1.0+tolerance)
			assert.GreaterOrEqual(t, sim[i][j], -tolerance)
		}
	}
}

func TestArtistCosineKnownValue(t *testing.T) {
	// Column 0 = (1, 0), column 1 = (1, 1): cos = 1/sqrt(2).
	m := matrix.NewCSR(2, 2, []matrix.Entry{
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 1, Val: 1},
		{Row: 1, Col: 1, Val: 1},
	})

	sim := ArtistCosine(m)

	assert.InDelta(t, 1/math.Sqrt2, sim[0][1], tolerance)
}

func TestUserCosine(t *testing.T) {
	m := matrix.NewCSR(3, 2, []matrix.Entry{
		{Row: 0, Col: 0, Val: 2}, // parallel to query
		{Row: 1, Col: 1, Val: 1}, // orthogonal to query
		// Row 2 is all zeros.
	})

	sims := UserCosine(m, []float64{1, 0})

	require.Len(t, sims, 3)
	assert.InDelta(t, 1.0, sims[0], tolerance)
	assert.InDelta(t, 0.0, sims[1], tolerance)
	assert.Equal(t, 0.0, sims[2])
}

func TestUserCosineZeroQuery(t *testing.T) {
	m := matrix.NewCSR(2, 2, []matrix.Entry{
		{Row: 0, Col: 0, Val: 1},
		{Row: 1, Col: 1, Val: 1},
	})

	sims := UserCosine(m, []float64{0, 0})

	for _, s := range sims {
		assert.Equal(t, 0.0, s)
		assert.False(t, math.IsNaN(s))
	}
}
