// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.ShutdownNow()

	require.Equal(t, 4, pool.NumWorkers())
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.ShutdownNow()

	require.Equal(t, runtime.GOMAXPROCS(0), pool.NumWorkers())
}

func TestParallelForEach(t *testing.T) {
	pool := New(4)
	defer pool.ShutdownNow()

	n := 100
	results := make([]int, n)

	err := pool.ParallelForEach(context.Background(), n, func(i int) {
		results[i] = i * 2
	})
	require.NoError(t, err)

	for i := range n {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
	require.EqualValues(t, n, pool.Executed())
}

func TestParallelForEachMoreTasksThanWorkers(t *testing.T) {
	pool := New(1)
	defer pool.ShutdownNow()

	var count atomic.Int32
	err := pool.ParallelForEach(context.Background(), 50, func(int) {
		count.Add(1)
	})
	require.NoError(t, err)
	require.EqualValues(t, 50, count.Load())
}

func TestParallelForEachZeroN(t *testing.T) {
	pool := New(4)
	defer pool.ShutdownNow()

	var called bool
	err := pool.ParallelForEach(context.Background(), 0, func(int) {
		called = true
	})
	require.NoError(t, err)
	require.False(t, called, "ParallelForEach with n=0 should not call fn")
}

func TestPoolReusedAcrossBatches(t *testing.T) {
	pool := New(3)
	defer pool.ShutdownNow()

	for round := range 5 {
		var count atomic.Int32
		err := pool.ParallelForEach(context.Background(), 10+round, func(int) {
			count.Add(1)
		})
		require.NoError(t, err)
		require.EqualValues(t, 10+round, count.Load())
	}
}

func TestShutdownGraceful(t *testing.T) {
	pool := New(2)
	require.NoError(t, pool.ParallelForEach(context.Background(), 8, func(int) {}))

	require.NoError(t, pool.Shutdown(context.Background(), time.Second))
	require.True(t, pool.Closed())

	// Shutting down twice is safe.
	require.NoError(t, pool.Shutdown(context.Background(), time.Second))
}

func TestShutdownTimeoutTerminates(t *testing.T) {
	pool := New(1)
	release := make(chan struct{})
	defer close(release)

	b := pool.NewBatch()
	started := make(chan struct{})
	require.NoError(t, b.Go(context.Background(), func() {
		close(started)
		<-release
	}))
	var ranQueued atomic.Bool
	require.NoError(t, b.Go(context.Background(), func() {
		ranQueued.Store(true)
	}))
	<-started

	err := pool.Shutdown(context.Background(), 20*time.Millisecond)
	require.ErrorIs(t, err, ErrShutdownTimeout)

	release <- struct{}{}
	require.NoError(t, b.Wait(context.Background()))
	require.False(t, ranQueued.Load(), "queued task must be dropped after termination")
}

func TestBatchWaitCancelled(t *testing.T) {
	pool := New(1)
	defer pool.ShutdownNow()

	release := make(chan struct{})
	b := pool.NewBatch()
	require.NoError(t, b.Go(context.Background(), func() { <-release }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := b.Wait(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	close(release)
}

func TestSubmitAfterClose(t *testing.T) {
	pool := New(2)
	pool.Close()

	err := pool.ParallelForEach(context.Background(), 4, func(int) {})
	require.ErrorIs(t, err, ErrClosed)
}

func BenchmarkParallelForEach(b *testing.B) {
	pool := New(0)
	defer pool.ShutdownNow()

	n := 1000
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.ParallelForEach(ctx, n, func(j int) {
			_ = j * j
		})
	}
}
