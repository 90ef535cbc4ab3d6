// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package matmul implements dense square matrix multiplication C = A * B
// with three execution strategies sharing one contract:
//
//   - Sequential: the triple loop on the calling goroutine.
//   - FlatParallel: one task per output row on a fixed-size worker pool.
//   - ForkJoin: recursive bisection of the row range down to a threshold,
//     forking one half and computing the other inline.
//
// Every strategy accumulates each cell in increasing k order and assigns the
// result, so all of them produce bit-identical outputs for identical inputs
// regardless of how rows are scheduled. Outputs are written in disjoint row
// ranges; no locking is involved on the numeric path.
//
// Example usage:
//
//	gen := mat.NewGenerator(512, 6834723)
//	a, b := gen.Generate(), gen.Generate()
//
//	c := gen.GenerateZero()
//	err := matmul.NewForkJoin(8, 64).Multiply(ctx, a, b, c)
package matmul
