// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Command matbench benchmarks dense matrix multiplication with sequential,
// flat-parallel and fork-join strategies across thread counts and fork-join
// thresholds.
//
// Usage:
//
//	matbench                                  # N=1024, 10 iterations, all CPUs
//	matbench --size 512 --iterations 3 --max-threads 4
//	matbench --fixed-threshold 64             # skip the threshold sweep
//
// Results are written to --output as CSV files. A correctness mismatch
// between strategies exits with status 1.
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := execute(newRootCmd(log), log); err != nil {
		os.Exit(1)
	}
}
