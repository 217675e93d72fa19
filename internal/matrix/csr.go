// Encore - Music Artist Recommendation Service
// Copyright 2026 Soundlens Labs
// SPDX-License-Identifier: MIT
// https://github.com/soundlens/encore

package matrix

// CSR is a sparse matrix in compressed sparse row form. Values are
// non-negative rating counts; the matrix is immutable after construction
// and safe for concurrent reads.
type CSR struct {
	NumRows int
	NumCols int

	// RowPtr has NumRows+1 entries; row r's entries live in
	// ColIdx[RowPtr[r]:RowPtr[r+1]] and Data[RowPtr[r]:RowPtr[r+1]].
	RowPtr []int
	ColIdx []int
	Data   []float64
}

// Entry is one nonzero cell, used when constructing or persisting a CSR.
type Entry struct {
	Row int
	Col int
	Val float64
}

// NewCSR builds a CSR from entries. Entries must be unique per (row, col)
// and are not required to be ordered.
func NewCSR(rows, cols int, entries []Entry) *CSR {
	m := &CSR{
		NumRows: rows,
		NumCols: cols,
		RowPtr:  make([]int, rows+1),
		ColIdx:  make([]int, len(entries)),
		Data:    make([]float64, len(entries)),
	}

	// Counting sort by row keeps construction linear.
	for _, e := range entries {
		m.RowPtr[e.Row+1]++
	}
	for r := 0; r < rows; r++ {
		m.RowPtr[r+1] += m.RowPtr[r]
	}

	next := make([]int, rows)
	copy(next, m.RowPtr[:rows])
	for _, e := range entries {
		i := next[e.Row]
		m.ColIdx[i] = e.Col
		m.Data[i] = e.Val
		next[e.Row]++
	}

	m.sortRows()
	return m
}

// sortRows orders each row's entries by column index (insertion sort per
// row; rows are short in practice).
func (m *CSR) sortRows() {
	for r := 0; r < m.NumRows; r++ {
		lo, hi := m.RowPtr[r], m.RowPtr[r+1]
		for i := lo + 1; i < hi; i++ {
			c, v := m.ColIdx[i], m.Data[i]
			j := i - 1
			for j >= lo && m.ColIdx[j] > c {
				m.ColIdx[j+1] = m.ColIdx[j]
				m.Data[j+1] = m.Data[j]
				j--
			}
			m.ColIdx[j+1] = c
			m.Data[j+1] = v
		}
	}
}

// NNZ returns the number of stored (nonzero) entries.
func (m *CSR) NNZ() int {
	return len(m.Data)
}

// At returns the value at (row, col), zero when the cell is not stored.
func (m *CSR) At(row, col int) float64 {
	for i := m.RowPtr[row]; i < m.RowPtr[row+1]; i++ {
		if m.ColIdx[i] == col {
			return m.Data[i]
		}
	}
	return 0
}

// Row invokes fn for each stored entry of the given row, in column order.
func (m *CSR) Row(row int, fn func(col int, val float64)) {
	for i := m.RowPtr[row]; i < m.RowPtr[row+1]; i++ {
		fn(m.ColIdx[i], m.Data[i])
	}
}

// ColumnSums returns the per-column sum of all entries.
func (m *CSR) ColumnSums() []float64 {
	sums := make([]float64, m.NumCols)
	for i, c := range m.ColIdx {
		sums[c] += m.Data[i]
	}
	return sums
}

// RowSums returns the per-row sum of all entries.
func (m *CSR) RowSums() []float64 {
	sums := make([]float64, m.NumRows)
	for r := 0; r < m.NumRows; r++ {
		for i := m.RowPtr[r]; i < m.RowPtr[r+1]; i++ {
			sums[r] += m.Data[i]
		}
	}
	return sums
}

// Entries returns all stored entries in row-major order.
func (m *CSR) Entries() []Entry {
	out := make([]Entry, 0, m.NNZ())
	for r := 0; r < m.NumRows; r++ {
		for i := m.RowPtr[r]; i < m.RowPtr[r+1]; i++ {
			out = append(out, Entry{Row: r, Col: m.ColIdx[i], Val: m.Data[i]})
		}
	}
	return out
}
