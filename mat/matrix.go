// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package mat

import "fmt"

// Matrix is a square N x N matrix of float64 values in row-major rows.
//
// A Matrix is never resized. During a multiplication the inputs are only
// read and the output is written in place, one disjoint row range per task.
type Matrix struct {
	n    int
	rows [][]float64
}

// New returns a zeroed n x n matrix. The rows share one backing array.
func New(n int) *Matrix {
	if n < 0 {
		n = 0
	}
	backing := make([]float64, n*n)
	rows := make([][]float64, n)
	for i := range n {
		rows[i] = backing[i*n : (i+1)*n : (i+1)*n]
	}
	return &Matrix{n: n, rows: rows}
}

// FromRows copies rows into a new Matrix. It returns ErrNotSquare if the rows
// do not form a square matrix.
func FromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	m := New(n)
	for i, r := range rows {
		if len(r) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrNotSquare, i, len(r), n)
		}
		copy(m.rows[i], r)
	}
	return m, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := New(n)
	for i := range n {
		m.rows[i][i] = 1
	}
	return m
}

// Size returns N.
func (m *Matrix) Size() int {
	return m.n
}

// Row returns row i. The slice aliases the matrix storage.
func (m *Matrix) Row(i int) []float64 {
	return m.rows[i]
}

// Rows returns all rows. The slices alias the matrix storage.
func (m *Matrix) Rows() [][]float64 {
	return m.rows
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i][j]
}

// Set stores v at (i, j).
func (m *Matrix) Set(i, j int, v float64) {
	m.rows[i][j] = v
}

// Zero resets every cell to 0.
func (m *Matrix) Zero() {
	for _, r := range m.rows {
		clear(r)
	}
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := New(m.n)
	for i, r := range m.rows {
		copy(c.rows[i], r)
	}
	return c
}

// String formats small matrices for test failures and debugging.
func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(%dx%d)%v", m.n, m.n, m.rows)
}
