// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	gonum "gonum.org/v1/gonum/mat"

	"github.com/ajroetker/matbench/contrib/forkjoin"
	"github.com/ajroetker/matbench/contrib/workerpool"
	"github.com/ajroetker/matbench/mat"
)

// matmulReference computes C = A * B using the naive triple loop, written
// independently of multiplyRows.
func matmulReference(a, b *mat.Matrix) *mat.Matrix {
	n := a.Size()
	c := mat.New(n)
	for i := range n {
		for j := range n {
			var sum float64
			for k := range n {
				sum += a.At(i, k) * b.At(k, j)
			}
			c.Set(i, j, sum)
		}
	}
	return c
}

func mustRows(t *testing.T, rows [][]float64) *mat.Matrix {
	t.Helper()
	m, err := mat.FromRows(rows)
	require.NoError(t, err)
	return m
}

func allStrategies(n int) []Multiplier {
	maxThreads := runtime.NumCPU()
	out := []Multiplier{NewSequential()}
	for _, threads := range []int{1, 2, 3, maxThreads} {
		out = append(out, NewFlatParallel(threads))
		for _, threshold := range []int{1, 2, 5, n, n + 1} {
			out = append(out, NewForkJoin(threads, threshold))
		}
	}
	return out
}

func describe(m Multiplier) string {
	switch s := m.(type) {
	case *FlatParallel:
		return fmt.Sprintf("%s/T=%d", s.Name(), s.Threads())
	case *ForkJoin:
		return fmt.Sprintf("%s/T=%d/H=%d", s.Name(), s.Threads(), s.Threshold())
	default:
		return m.Name()
	}
}

func TestIdentity2x2(t *testing.T) {
	ctx := context.Background()
	for _, s := range allStrategies(2) {
		c := mat.New(2)
		require.NoError(t, s.Multiply(ctx, mat.Identity(2), mat.Identity(2), c))
		require.True(t, mat.Equal(mat.Identity(2), c), describe(s))
	}
}

func TestSmallKnownProduct(t *testing.T) {
	ctx := context.Background()
	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{5, 6}, {7, 8}})
	want := mustRows(t, [][]float64{{19, 22}, {43, 50}})

	for _, s := range allStrategies(2) {
		c := mat.New(2)
		require.NoError(t, s.Multiply(ctx, a, b, c))
		if diff := cmp.Diff(want.Rows(), c.Rows()); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", describe(s), diff)
		}
	}
}

func TestSingleCell(t *testing.T) {
	ctx := context.Background()
	a := mustRows(t, [][]float64{{3}})
	b := mustRows(t, [][]float64{{-2.5}})
	for _, s := range allStrategies(1) {
		c := mat.New(1)
		require.NoError(t, s.Multiply(ctx, a, b, c))
		require.Equal(t, -7.5, c.At(0, 0), describe(s))
		if fj, ok := s.(*ForkJoin); ok {
			require.Zero(t, fj.ForkCount(), describe(s))
		}
	}
}

func TestAllStrategiesMatchSequentialExactly(t *testing.T) {
	ctx := context.Background()
	for _, n := range []int{3, 17, 64, 100} {
		gen := mat.NewGenerator(n, 6834723)
		a, b := gen.Generate(), gen.Generate()

		want := gen.GenerateZero()
		require.NoError(t, NewSequential().Multiply(ctx, a, b, want))
		require.True(t, mat.Equal(matmulReference(a, b), want))

		for _, s := range allStrategies(n) {
			c := gen.GenerateZero()
			require.NoError(t, s.Multiply(ctx, a, b, c))
			if err := mat.Compare(want, c); err != nil {
				t.Fatalf("n=%d %s: %v", n, describe(s), err)
			}
		}
	}
}

func TestOutputPriorContentsIgnored(t *testing.T) {
	ctx := context.Background()
	gen := mat.NewGenerator(12, 1)
	a, b := gen.Generate(), gen.Generate()
	want := matmulReference(a, b)

	for _, s := range allStrategies(12) {
		garbage := gen.Generate()
		require.NoError(t, s.Multiply(ctx, a, b, garbage))
		require.True(t, mat.Equal(want, garbage), describe(s))
	}
}

func TestIdempotent(t *testing.T) {
	ctx := context.Background()
	gen := mat.NewGenerator(33, 99)
	a, b := gen.Generate(), gen.Generate()

	for _, s := range allStrategies(33) {
		c1, c2 := gen.GenerateZero(), gen.GenerateZero()
		require.NoError(t, s.Multiply(ctx, a, b, c1))
		require.NoError(t, s.Multiply(ctx, a, b, c2))
		require.NoError(t, mat.Compare(c1, c2), describe(s))
	}
}

func TestFlatParallelSingleWorkerEqualsSequential(t *testing.T) {
	ctx := context.Background()
	gen := mat.NewGenerator(40, 5)
	a, b := gen.Generate(), gen.Generate()

	seq, par := gen.GenerateZero(), gen.GenerateZero()
	require.NoError(t, NewSequential().Multiply(ctx, a, b, seq))
	require.NoError(t, NewFlatParallel(1).Multiply(ctx, a, b, par))
	require.NoError(t, mat.Compare(seq, par))
}

func TestForkJoinThresholdAtLeastNNeverForks(t *testing.T) {
	ctx := context.Background()
	n := 32
	gen := mat.NewGenerator(n, 11)
	a, b := gen.Generate(), gen.Generate()
	want := matmulReference(a, b)

	for _, threshold := range []int{n, n + 1, 4 * n} {
		fj := NewForkJoin(4, threshold)
		c := gen.GenerateZero()
		require.NoError(t, fj.Multiply(ctx, a, b, c))
		require.Zero(t, fj.ForkCount())
		require.EqualValues(t, 1, fj.LastStats().Leaves)
		require.NoError(t, mat.Compare(want, c))
	}

	fj := NewForkJoin(4, n/2)
	require.NoError(t, fj.Multiply(ctx, a, b, gen.GenerateZero()))
	require.EqualValues(t, 1, fj.ForkCount())
}

func TestInjectedPoolsAreReused(t *testing.T) {
	ctx := context.Background()
	wp := workerpool.New(3)
	fp := forkjoin.NewPool(3)
	defer func() {
		require.NoError(t, wp.Shutdown(ctx, DefaultGracePeriod))
		require.NoError(t, fp.Shutdown(ctx, DefaultGracePeriod))
	}()

	gen := mat.NewGenerator(20, 3)
	a, b := gen.Generate(), gen.Generate()
	want := matmulReference(a, b)

	par := NewFlatParallel(3, WithWorkerPool(wp))
	fj := NewForkJoin(3, 4, WithForkJoinPool(fp))
	for range 3 {
		c := gen.GenerateZero()
		require.NoError(t, par.Multiply(ctx, a, b, c))
		require.NoError(t, mat.Compare(want, c))

		c = gen.GenerateZero()
		require.NoError(t, fj.Multiply(ctx, a, b, c))
		require.NoError(t, mat.Compare(want, c))
	}
	require.False(t, wp.Closed())
	require.EqualValues(t, 3*20, wp.Executed())
}

func TestFlatParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := mat.NewGenerator(64, 3)
	a, b := gen.Generate(), gen.Generate()
	err := NewFlatParallel(2).Multiply(ctx, a, b, gen.GenerateZero())
	require.ErrorIs(t, err, context.Canceled)
}

func TestAgreesWithGonum(t *testing.T) {
	ctx := context.Background()
	gen := mat.NewGenerator(48, 2024)
	a, b := gen.Generate(), gen.Generate()

	var want gonum.Dense
	want.Mul(mat.ToDense(a), mat.ToDense(b))

	c := gen.GenerateZero()
	require.NoError(t, NewForkJoin(4, 8).Multiply(ctx, a, b, c))
	require.True(t, gonum.EqualApprox(&want, mat.ToDense(c), 1e-9))
}

func BenchmarkStrategies(b *testing.B) {
	ctx := context.Background()
	n := 128
	gen := mat.NewGenerator(n, 6834723)
	x, y := gen.Generate(), gen.Generate()
	threads := runtime.GOMAXPROCS(0)

	for _, s := range []Multiplier{
		NewSequential(),
		NewFlatParallel(threads),
		NewForkJoin(threads, 16),
	} {
		b.Run(describe(s), func(b *testing.B) {
			c := gen.GenerateZero()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = s.Multiply(ctx, x, y, c)
			}
		})
	}
}
