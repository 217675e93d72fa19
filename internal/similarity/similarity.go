// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

// Package similarity computes cosine similarity over the rating matrix:
// a dense artist×artist matrix derived once from the matrix columns, and
// on-demand similarity of a query vector against every user row. Zero-norm
// vectors yield similarity 0, never NaN.
package similarity

import (
	"math"

	"github.com/soundlens/encore/internal/matrix"
)

// ArtistCosine returns the dense A×A cosine similarity matrix between the
// columns of m (artists represented by their rating vector across users).
// sim[i][j] == sim[j][i]; sim[i][i] is 1 for nonzero columns and 0 for
// all-zero columns.
func ArtistCosine(m *matrix.CSR) [][]float64 {
	a := m.NumCols

	sim := make([][]float64, a)
	for i := range sim {
		sim[i] = make([]float64, a)
	}

	norms := columnNorms(m)

	// Column dot products accumulate row by row: every pair of nonzero
	// entries within a row contributes to exactly one column pair.
	for r := 0; r < m.NumRows; r++ {
		lo, hi := m.RowPtr[r], m.RowPtr[r+1]
		for i := lo; i < hi; i++ {
			for j := i + 1; j < hi; j++ {
				sim[m.ColIdx[i]][m.ColIdx[j]] += m.Data[i] * m.Data[j]
			}
		}
	}

	for i := 0; i < a; i++ {
		for j := i + 1; j < a; j++ {
			if norms[i] == 0 || norms[j] == 0 {
				sim[i][j] = 0
			} else {
				sim[i][j] /= norms[i] * norms[j]
			}
			sim[j][i] = sim[i][j]
		}
		if norms[i] > 0 {
			sim[i][i] = 1
		}
	}

	return sim
}

// UserCosine returns the cosine similarity between query (length = number
// of artists) and every user row of m.
func UserCosine(m *matrix.CSR, query []float64) []float64 {
	var queryNorm float64
	for _, v := range query {
		queryNorm += v * v
	}
	queryNorm = math.Sqrt(queryNorm)

	sims := make([]float64, m.NumRows)
	if queryNorm == 0 {
		return sims
	}

	for r := 0; r < m.NumRows; r++ {
		var dot, rowNorm float64
		for i := m.RowPtr[r]; i < m.RowPtr[r+1]; i++ {
			dot += query[m.ColIdx[i]] * m.Data[i]
			rowNorm += m.Data[i] * m.Data[i]
		}
		if rowNorm > 0 {
			sims[r] = dot / (queryNorm * math.Sqrt(rowNorm))
		}
	}

	return sims
}

// columnNorms returns the Euclidean norm of each column of m.
func columnNorms(m *matrix.CSR) []float64 {
	norms := make([]float64, m.NumCols)
	for i, c := range m.ColIdx {
		norms[c] += m.Data[i] * m.Data[i]
	}
	for c := range norms {
		norms[c] = math.Sqrt(norms[c])
	}
	return norms
}
