// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package forkjoin

import "sync/atomic"

// Task describes a recursively divisible computation over work of type T.
type Task[T any] struct {
	// Split divides work into the part to fork and the part to compute
	// inline. ok == false means work is a leaf.
	Split func(work T) (forked, inline T, ok bool)

	// Leaf computes undivided work directly.
	Leaf func(work T)
}

// Stats counts what one Invoke did.
type Stats struct {
	// Forks is the number of internal nodes, i.e. fork operations issued.
	Forks int64
	// Spawned is how many forks got their own goroutine.
	Spawned int64
	// Leaves is the number of leaf computations.
	Leaves int64
}

// Inlined is the number of forks that were run by the forking goroutine
// because the pool was saturated.
func (s Stats) Inlined() int64 {
	return s.Forks - s.Spawned
}

type invocation[T any] struct {
	pool    *Pool
	task    Task[T]
	forks   atomic.Int64
	spawned atomic.Int64
	leaves  atomic.Int64
}

// Invoke runs task over root on p and blocks until the whole task tree has
// completed. The root occupies one slot of the pool.
func Invoke[T any](p *Pool, task Task[T], root T) (Stats, error) {
	inv := &invocation[T]{pool: p, task: task}

	done := make(chan struct{})
	err := p.waitToStart(func() {
		defer close(done)
		inv.compute(root)
	})
	if err != nil {
		return Stats{}, err
	}
	<-done

	return Stats{
		Forks:   inv.forks.Load(),
		Spawned: inv.spawned.Load(),
		Leaves:  inv.leaves.Load(),
	}, nil
}

func (inv *invocation[T]) compute(work T) {
	forked, inline, ok := inv.task.Split(work)
	if !ok {
		inv.leaves.Add(1)
		inv.task.Leaf(work)
		return
	}

	inv.forks.Add(1)
	j := inv.fork(forked)
	inv.compute(inline)
	j.join()
}

// pending is a forked half awaiting its join.
type pending[T any] struct {
	inv     *invocation[T]
	work    T
	spawned bool
	done    chan struct{}

	// guarded by pool.mu
	finished bool
	sleeping bool
}

func (inv *invocation[T]) fork(work T) *pending[T] {
	p := inv.pool
	j := &pending[T]{inv: inv, work: work, done: make(chan struct{})}
	j.spawned = p.startIfAvailable(
		func() { inv.compute(work) },
		func() {
			j.finished = true
			if j.sleeping {
				j.sleeping = false
				p.sleeping--
			}
			close(j.done)
		},
	)
	if j.spawned {
		inv.spawned.Add(1)
	}
	return j
}

func (j *pending[T]) join() {
	if !j.spawned {
		j.inv.compute(j.work)
		return
	}

	p := j.inv.pool
	p.mu.Lock()
	if j.finished {
		p.mu.Unlock()
		return
	}
	// Lend our slot while we wait; the forked task takes the loan back when
	// it releases its own slot.
	j.sleeping = true
	p.sleeping++
	p.cond.Broadcast()
	p.mu.Unlock()

	<-j.done
}
