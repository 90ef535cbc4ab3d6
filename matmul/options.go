// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ajroetker/matbench/contrib/forkjoin"
	"github.com/ajroetker/matbench/contrib/workerpool"
)

// DefaultGracePeriod bounds how long pool teardown waits for workers before
// terminating them.
const DefaultGracePeriod = 60 * time.Second

type options struct {
	grace        time.Duration
	logger       zerolog.Logger
	workerPool   *workerpool.Pool
	forkJoinPool *forkjoin.Pool

	// Called on per-call pools right before their shutdown; tests use them
	// to leave work behind.
	beforeWorkerShutdown   func(*workerpool.Pool)
	beforeForkJoinShutdown func(*forkjoin.Pool)
}

func defaultOptions() options {
	return options{
		grace:  DefaultGracePeriod,
		logger: zerolog.Nop(),
	}
}

// Option configures FlatParallel and ForkJoin.
type Option func(*options)

// WithGracePeriod sets the shutdown grace period of per-call pools.
func WithGracePeriod(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.grace = d
		}
	}
}

// WithLogger sets the logger used to report shutdown timeouts.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWorkerPool makes FlatParallel reuse p instead of creating and shutting
// down a pool on every call. The caller owns p and must shut it down.
func WithWorkerPool(p *workerpool.Pool) Option {
	return func(o *options) {
		o.workerPool = p
	}
}

// WithForkJoinPool makes ForkJoin reuse p instead of creating and shutting
// down a pool on every call. The caller owns p and must shut it down.
func WithForkJoinPool(p *forkjoin.Pool) Option {
	return func(o *options) {
		o.forkJoinPool = p
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
