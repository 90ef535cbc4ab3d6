// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package mat

import (
	"fmt"

	gonum "gonum.org/v1/gonum/mat"
)

// ToDense copies m into a gonum Dense matrix.
func ToDense(m *Matrix) *gonum.Dense {
	data := make([]float64, 0, m.n*m.n)
	for _, r := range m.rows {
		data = append(data, r...)
	}
	if m.n == 0 {
		return &gonum.Dense{}
	}
	return gonum.NewDense(m.n, m.n, data)
}

// FromDense copies a square gonum matrix into a new Matrix.
func FromDense(d gonum.Matrix) (*Matrix, error) {
	r, c := d.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, r, c)
	}
	m := New(r)
	for i := range r {
		for j := range c {
			m.rows[i][j] = d.At(i, j)
		}
	}
	return m, nil
}
