// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ajroetker/matbench/contrib/forkjoin"
	"github.com/ajroetker/matbench/mat"
)

// ForkJoin bisects the row range recursively. Ranges of at most Threshold
// rows are multiplied directly; longer ranges fork their upper half, compute
// the lower half on the current goroutine and then join.
//
// A small threshold means many tiny tasks and more scheduling overhead; a
// large one leaves workers idle.
type ForkJoin struct {
	threads   int
	threshold int
	opts      options
	lastStats atomic.Pointer[forkjoin.Stats]
}

// NewForkJoin returns a fork-join strategy on threads goroutines with the
// given row threshold. Values below 1 are treated as 1.
func NewForkJoin(threads, threshold int, opts ...Option) *ForkJoin {
	return &ForkJoin{
		threads:   max(threads, 1),
		threshold: max(threshold, 1),
		opts:      applyOptions(opts),
	}
}

// Name implements Multiplier.
func (s *ForkJoin) Name() string {
	return NameForkJoin
}

// Threads returns the configured parallelism.
func (s *ForkJoin) Threads() int {
	return s.threads
}

// Threshold returns the row count at or below which recursion stops.
func (s *ForkJoin) Threshold() int {
	return s.threshold
}

// LastStats returns the task statistics of the most recent Multiply.
func (s *ForkJoin) LastStats() forkjoin.Stats {
	if st := s.lastStats.Load(); st != nil {
		return *st
	}
	return forkjoin.Stats{}
}

// ForkCount returns how many fork operations the most recent Multiply issued.
// It is zero whenever Threshold >= N.
func (s *ForkJoin) ForkCount() int64 {
	return s.LastStats().Forks
}

// Multiply implements Multiplier. The task tree always runs to completion;
// ctx only bounds the pool teardown that follows.
func (s *ForkJoin) Multiply(ctx context.Context, a, b, c *mat.Matrix) error {
	pool := s.opts.forkJoinPool
	owned := pool == nil
	if owned {
		pool = forkjoin.NewPool(s.threads)
	}

	task := forkjoin.Bisect(s.threshold, func(lo, hi int) {
		multiplyRows(a, b, c, lo, hi)
	})
	stats, err := forkjoin.Invoke(pool, task, forkjoin.Range{Lo: 0, Hi: a.Size()})
	if err != nil {
		return fmt.Errorf("matmul: %s with %d threads: %w", s.Name(), s.threads, err)
	}
	s.lastStats.Store(&stats)

	if owned {
		if s.opts.beforeForkJoinShutdown != nil {
			s.opts.beforeForkJoinShutdown(pool)
		}
		if err := pool.Shutdown(ctx, s.opts.grace); err != nil {
			if !errors.Is(err, forkjoin.ErrShutdownTimeout) {
				return fmt.Errorf("matmul: %s shutdown: %w", s.Name(), err)
			}
			s.opts.logger.Warn().Err(err).Int("threads", s.threads).Dur("grace", s.opts.grace).
				Msg("fork-join pool terminated")
		}
	}
	return nil
}
