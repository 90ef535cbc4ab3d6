// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"context"
	"errors"
	"fmt"

	"github.com/ajroetker/matbench/contrib/workerpool"
	"github.com/ajroetker/matbench/mat"
)

// FlatParallel submits one task per output row to a pool of a fixed number
// of workers and waits for all of them.
type FlatParallel struct {
	threads int
	opts    options
}

// NewFlatParallel returns a row-per-task strategy using threads workers.
// threads < 1 is treated as 1.
func NewFlatParallel(threads int, opts ...Option) *FlatParallel {
	return &FlatParallel{
		threads: max(threads, 1),
		opts:    applyOptions(opts),
	}
}

// Name implements Multiplier.
func (s *FlatParallel) Name() string {
	return NameParallel
}

// Threads returns the configured worker count.
func (s *FlatParallel) Threads() int {
	return s.threads
}

// Multiply implements Multiplier. Unless a pool was injected, a fresh pool is
// created for the call and shut down afterwards with the grace period; a
// shutdown timeout is logged and not reported, since c is already complete.
// If ctx is cancelled while rows are pending, the pool is terminated and the
// context error returned.
func (s *FlatParallel) Multiply(ctx context.Context, a, b, c *mat.Matrix) error {
	pool := s.opts.workerPool
	owned := pool == nil
	if owned {
		pool = workerpool.New(s.threads)
	}

	err := pool.ParallelForEach(ctx, a.Size(), func(i int) {
		multiplyRows(a, b, c, i, i+1)
	})
	if err != nil {
		if owned {
			pool.ShutdownNow()
		}
		return fmt.Errorf("matmul: %s with %d threads interrupted: %w", s.Name(), s.threads, err)
	}

	if owned {
		if s.opts.beforeWorkerShutdown != nil {
			s.opts.beforeWorkerShutdown(pool)
		}
		if err := pool.Shutdown(ctx, s.opts.grace); err != nil {
			if !errors.Is(err, workerpool.ErrShutdownTimeout) {
				return fmt.Errorf("matmul: %s shutdown: %w", s.Name(), err)
			}
			s.opts.logger.Warn().Err(err).Int("threads", s.threads).Dur("grace", s.opts.grace).
				Msg("worker pool terminated")
		}
	}
	return nil
}
