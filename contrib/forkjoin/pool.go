// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package forkjoin runs divide-and-conquer computations on a bounded pool of
// goroutines.
//
// A Task is described by two closures: Split decides whether a piece of work
// is divided (returning the half to fork and the half to keep), and Leaf
// computes undivided work directly. Invoke drives the recursion with the
// asymmetric pattern: fork one half, compute the other half on the current
// goroutine, then join the forked half.
//
// The Pool bounds how many tasks run concurrently. A fork only gets its own
// goroutine when a slot is free; otherwise the forking goroutine runs it
// itself at join time. A goroutine blocked in a join marks itself asleep so
// its slot can be used by someone else; it gets the slot back atomically
// with the forked task returning its own, so no more than Parallelism()
// tasks ever compute at once. This keeps the pool deadlock-free without a
// work-stealing deque.
//
// Usage:
//
//	pool := forkjoin.NewPool(threads)
//	task := forkjoin.Bisect(threshold, func(lo, hi int) { computeRows(lo, hi) })
//	stats, err := forkjoin.Invoke(pool, task, forkjoin.Range{Lo: 0, Hi: n})
//	_ = pool.Shutdown(ctx, time.Minute)
package forkjoin

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"
)

var (
	// ErrClosed is returned by Invoke on a pool that was shut down.
	ErrClosed = errors.New("forkjoin: pool is closed")

	// ErrShutdownTimeout is returned by Shutdown when running tasks did not
	// finish within the grace period.
	ErrShutdownTimeout = errors.New("forkjoin: shutdown grace period expired, pool terminated")
)

// Pool admits at most Parallelism() concurrently computing tasks. A task
// blocked in a join does not compute, so its slot is lent out until the task
// it waits for gives its own slot back.
type Pool struct {
	parallelism int

	mu         sync.Mutex
	cond       sync.Cond
	numRunning int
	// sleeping counts running tasks blocked in a join (guarded by mu)
	sleeping int
	closed   bool
}

// NewPool creates a pool running at most parallelism tasks at once.
// If parallelism <= 0, uses GOMAXPROCS.
func NewPool(parallelism int) *Pool {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	p := &Pool{parallelism: parallelism}
	p.cond = sync.Cond{L: &p.mu}
	return p
}

// Parallelism returns the configured number of concurrent tasks.
func (p *Pool) Parallelism() int {
	return p.parallelism
}

// Running returns the number of tasks currently holding a goroutine,
// including those blocked in a join.
func (p *Pool) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numRunning
}

// lockedIsFull returns whether all slots are busy (must hold lock).
func (p *Pool) lockedIsFull() bool {
	return p.numRunning >= p.parallelism+p.sleeping
}

// lockedRunTask starts a task in a goroutine (must hold lock). If release is
// not nil it runs under the lock in the same step that gives the slot back.
func (p *Pool) lockedRunTask(task func(), release func()) {
	p.numRunning++
	go func() {
		task()
		p.mu.Lock()
		p.numRunning--
		if release != nil {
			release()
		}
		p.cond.Broadcast()
		p.mu.Unlock()
	}()
}

// startIfAvailable runs task on a new goroutine if a slot is free.
// Returns false if the pool is full or closed.
func (p *Pool) startIfAvailable(task, release func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.lockedIsFull() {
		return false
	}
	p.lockedRunTask(task, release)
	return true
}

// waitToStart blocks until a slot is free, then runs task on a new goroutine.
func (p *Pool) waitToStart(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.closed && p.lockedIsFull() {
		p.cond.Wait()
	}
	if p.closed {
		return ErrClosed
	}
	p.lockedRunTask(task, nil)
	return nil
}

// Close stops admitting new tasks. Forks issued after Close run inline.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Shutdown closes the pool and waits up to grace for running tasks to
// finish. Running goroutines cannot be preempted, so on timeout (or ctx
// cancellation) the pool is left closed and ErrShutdownTimeout (or ctx.Err())
// is returned while the stragglers finish in the background.
func (p *Pool) Shutdown(ctx context.Context, grace time.Duration) error {
	p.Close()

	done := make(chan struct{})
	go func() {
		p.mu.Lock()
		for p.numRunning > 0 {
			p.cond.Wait()
		}
		p.mu.Unlock()
		close(done)
	}()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrShutdownTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
