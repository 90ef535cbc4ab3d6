// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"context"

	"github.com/ajroetker/matbench/mat"
)

// Multiplier computes c = a * b in place.
//
// a and b are N x N and only read; c is N x N and each of its cells is
// assigned exactly once, so its prior contents do not matter. Mismatched
// dimensions are not validated.
type Multiplier interface {
	Multiply(ctx context.Context, a, b, c *mat.Matrix) error
	Name() string
}

// Strategy names, also used to tag mismatches.
const (
	NameSequential = "sequential"
	NameParallel   = "parallel"
	NameForkJoin   = "forkjoin"
)

// multiplyRows computes rows [lo, hi) of c = a * b.
// C[i,j] = sum(A[i,k] * B[k,j]) for k in 0..N-1, accumulated in order.
func multiplyRows(a, b, c *mat.Matrix, lo, hi int) {
	n := a.Size()
	bRows := b.Rows()
	for i := lo; i < hi; i++ {
		aRow := a.Row(i)
		cRow := c.Row(i)
		for j := range n {
			var sum float64
			for k := range n {
				sum += aRow[k] * bRows[k][j]
			}
			cRow[j] = sum
		}
	}
}
