// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a fixed-size, reusable worker pool with an
// explicit lifecycle: create once, submit many batches of tasks, shut down
// once.
//
// Tasks are queued on a channel and drained by the workers; when more tasks
// than workers are submitted, the extra tasks wait in the queue. Each batch
// has its own completion barrier.
//
// Usage:
//
//	pool := workerpool.New(threads)
//	defer pool.Shutdown(context.Background(), time.Minute)
//
//	err := pool.ParallelForEach(ctx, n, func(i int) {
//	    computeRow(i)
//	})
//
// Shutdown first requests an orderly drain. If the workers have not exited
// when the grace period expires, or ctx is cancelled, the pool is terminated:
// queued tasks are dropped and only tasks already running are allowed to
// finish, since goroutines cannot be preempted.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ErrShutdownTimeout is returned by Shutdown when the workers did not exit
// within the grace period and the pool had to be terminated.
var ErrShutdownTimeout = errors.New("workerpool: shutdown grace period expired, pool terminated")

// ErrClosed is returned when work is submitted to a pool that was shut down.
var ErrClosed = errors.New("workerpool: pool is closed")

// Pool is a persistent worker pool. Workers are spawned once at creation and
// reused until Shutdown or ShutdownNow.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
	terminated atomic.Bool
	workers    sync.WaitGroup
	executed   atomic.Int64
}

// workItem is a single queued task and the batch it belongs to.
type workItem struct {
	fn    func()
	batch *Batch
}

// New creates a pool with numWorkers workers.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	p.workers.Add(numWorkers)
	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for item := range p.workC {
		if !p.terminated.Load() && !item.batch.cancelled.Load() {
			item.fn()
			p.executed.Add(1)
		}
		item.batch.wg.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Executed returns how many tasks have run to completion since creation.
func (p *Pool) Executed() int64 {
	return p.executed.Load()
}

// Closed reports whether Shutdown or ShutdownNow has been called.
func (p *Pool) Closed() bool {
	return p.closed.Load()
}

// Batch groups tasks submitted to a pool so they can be awaited together.
// A Batch must not be shared between goroutines that submit concurrently
// with Wait.
type Batch struct {
	pool      *Pool
	wg        sync.WaitGroup
	cancelled atomic.Bool
}

// NewBatch starts a new group of tasks on p.
func (p *Pool) NewBatch() *Batch {
	return &Batch{pool: p}
}

// Go queues fn. It blocks while the queue is full and returns ctx.Err() if
// ctx is cancelled first, or ErrClosed if the pool no longer accepts work.
// Go must not race with Close.
func (b *Batch) Go(ctx context.Context, fn func()) error {
	if b.pool.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.wg.Add(1)
	select {
	case b.pool.workC <- workItem{fn: fn, batch: b}:
		return nil
	case <-ctx.Done():
		b.wg.Done()
		return ctx.Err()
	}
}

// Cancel drops the tasks of this batch that have not started yet.
func (b *Batch) Cancel() {
	b.cancelled.Store(true)
}

// Wait blocks until every task of the batch has finished or been dropped.
// If ctx is cancelled first, the remaining tasks are cancelled and ctx.Err()
// is returned without waiting for running tasks.
func (b *Batch) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		b.Cancel()
		return ctx.Err()
	}
}

// ParallelForEach runs fn(i) for every i in [0, n), one task per index, and
// blocks until all of them complete. Tasks beyond the number of workers wait
// in the queue.
func (p *Pool) ParallelForEach(ctx context.Context, n int, fn func(i int)) error {
	if n <= 0 {
		return nil
	}

	b := p.NewBatch()
	for i := range n {
		if err := b.Go(ctx, func() { fn(i) }); err != nil {
			b.Cancel()
			// Let queued tasks drain so the batch does not outlive the call
			// when the pool is still healthy.
			if errors.Is(err, ErrClosed) {
				_ = b.Wait(context.Background())
			}
			return fmt.Errorf("submitting task %d of %d: %w", i, n, err)
		}
	}
	return b.Wait(ctx)
}

// Close stops accepting new work and lets the workers exit once the queue is
// drained. Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ShutdownNow closes the pool and drops every queued task that has not
// started. It does not wait for the workers.
func (p *Pool) ShutdownNow() {
	p.terminated.Store(true)
	p.Close()
}

// Shutdown closes the pool and waits for the workers to exit. If they are
// still busy after grace, or ctx is cancelled, the pool is terminated with
// ShutdownNow and ErrShutdownTimeout (or ctx.Err()) is returned.
func (p *Pool) Shutdown(ctx context.Context, grace time.Duration) error {
	p.Close()

	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		p.ShutdownNow()
		return ErrShutdownTimeout
	case <-ctx.Done():
		p.ShutdownNow()
		return ctx.Err()
	}
}
