// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// ThresholdRecord is one fork-join run of the threshold sweep.
type ThresholdRecord struct {
	Threads   int
	Threshold int
	Elapsed   time.Duration
}

// RecordKind tells which columns of a ThreadRecord are set.
type RecordKind int

const (
	// SequentialRecord carries only the Sequential time; Threads is 1.
	SequentialRecord RecordKind = iota
	// ParallelRecord carries the ForkJoin and Parallel times for Threads.
	ParallelRecord
)

// ThreadRecord is one row of the thread-count sweep.
type ThreadRecord struct {
	Kind       RecordKind
	Threads    int
	ForkJoin   time.Duration
	Parallel   time.Duration
	Sequential time.Duration
}

// BestThresholds maps a thread count to the fork-join threshold with the
// lowest mean time for it.
type BestThresholds map[int]int

// Threads returns the thread counts present, ascending.
func (b BestThresholds) Threads() []int {
	keys := lo.Keys(map[int]int(b))
	slices.Sort(keys)
	return keys
}

// ThresholdMean is the mean time of one (threads, threshold) combination.
type ThresholdMean struct {
	Threads   int
	Threshold int
	// MeanMillis is the mean elapsed time in milliseconds.
	MeanMillis float64
	// StdMillis is the sample standard deviation, 0 for a single run.
	StdMillis float64
}

// best returns the combination with the lowest mean. Earlier entries win ties.
func best(means []ThresholdMean) ThresholdMean {
	return lo.MinBy(means, func(a, b ThresholdMean) bool {
		return a.MeanMillis < b.MeanMillis
	})
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}
