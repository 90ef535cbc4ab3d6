// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// SummaryRow aggregates the thread sweep for one thread count.
// Times are in milliseconds. ForkJoinStd and ParallelStd are sample
// deviations; SequentialStd is the population deviation of all sequential
// runs.
type SummaryRow struct {
	Threads        int
	ForkJoinMean   float64
	ForkJoinStd    float64
	ParallelMean   float64
	ParallelStd    float64
	SequentialMean float64
	SequentialStd  float64
	// Speedups are SequentialMean divided by the strategy mean, or 0 when
	// the strategy mean is 0.
	ForkJoinSpeedup float64
	ParallelSpeedup float64
}

// Summarize computes per-thread-count means and standard deviations of the
// fork-join and parallel times, and the speedup of each over the mean
// sequential time. Rows are ordered by thread count.
func Summarize(records []ThreadRecord) []SummaryRow {
	seq := lo.FilterMap(records, func(r ThreadRecord, _ int) (float64, bool) {
		return float64(millis(r.Sequential)), r.Kind == SequentialRecord
	})
	seqMean, seqStd := popMeanStd(seq)

	byThreads := lo.GroupBy(
		lo.Filter(records, func(r ThreadRecord, _ int) bool { return r.Kind == ParallelRecord }),
		func(r ThreadRecord) int { return r.Threads },
	)
	threads := lo.Keys(byThreads)
	slices.Sort(threads)

	rows := make([]SummaryRow, 0, len(threads))
	for _, t := range threads {
		group := byThreads[t]
		fjMean, fjStd := meanStd(lo.Map(group, func(r ThreadRecord, _ int) float64 {
			return float64(millis(r.ForkJoin))
		}))
		parMean, parStd := meanStd(lo.Map(group, func(r ThreadRecord, _ int) float64 {
			return float64(millis(r.Parallel))
		}))
		rows = append(rows, SummaryRow{
			Threads:         t,
			ForkJoinMean:    fjMean,
			ForkJoinStd:     fjStd,
			ParallelMean:    parMean,
			ParallelStd:     parStd,
			SequentialMean:  seqMean,
			SequentialStd:   seqStd,
			ForkJoinSpeedup: speedup(seqMean, fjMean),
			ParallelSpeedup: speedup(seqMean, parMean),
		})
	}
	return rows
}

// meanStd returns the mean and sample standard deviation of xs. Fewer than
// two samples have a deviation of 0.
func meanStd(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	mean, std = stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// popMeanStd returns the mean and population standard deviation of xs.
func popMeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(xs, nil)
	return mean, math.Sqrt(variance)
}

func speedup(base, t float64) float64 {
	if t == 0 {
		return 0
	}
	return base / t
}
