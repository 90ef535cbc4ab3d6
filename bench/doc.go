// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package bench drives the matrix multiplication strategies through two
// sweeps and records their timings.
//
// The threshold sweep runs the fork-join strategy for every thread count and
// every power-of-two threshold up to N, and keeps the threshold with the
// lowest mean time per thread count. The thread sweep then runs the
// sequential baseline and, for every thread count, the fork-join (with its
// best threshold) and flat-parallel strategies, checking that all three
// outputs are identical. A mismatch stops the run with a *mat.MismatchError.
//
// Results are written as CSV files:
//
//	threshold_results.csv  Threads,Threshold,Time
//	thread_results.csv     Threads,ForkJoin,Parallel,Sequential
//	summary.csv            per-thread means, deviations and speedups
package bench
