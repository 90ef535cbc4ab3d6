// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package mat provides the square float64 matrices used by the multiplication
// benchmarks, a seeded generator for reproducible inputs and exact
// cell-by-cell comparison.
//
// Matrices are stored as row slices so that row-partitioned strategies can
// hand out disjoint rows of the output without any synchronization:
//
//	gen := mat.NewGenerator(1024, 6834723)
//	a, b := gen.Generate(), gen.Generate()
//	c := gen.GenerateZero()
//
// Inputs are generated once and outputs are zeroed for every run, in that
// order, so that runs with the same seed see the same random stream.
//
// ToDense and FromDense convert to and from gonum matrices. gonum's product
// serves as an independent oracle: it agrees with the strategies here to
// within rounding, not bit for bit, since it accumulates in another order.
package mat
