// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/ajroetker/matbench/internal/cpuinfo"
	"github.com/ajroetker/matbench/matmul"
)

// Default sweep parameters.
const (
	DefaultSize       = 1024
	DefaultSeed       = 6834723
	DefaultIterations = 10
	DefaultOutputDir  = "output"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("bench: invalid config")

// Config holds every sweep parameter. It is passed by value and never
// mutated by the harness.
type Config struct {
	// Size is the matrix dimension N.
	Size int
	// Seed seeds the matrix generator.
	Seed int64
	// Iterations is the number of repetitions per measured combination.
	Iterations int
	// MaxThreads is the largest thread count swept; sweeps run 1..MaxThreads.
	MaxThreads int
	// OutputDir receives the CSV files. It is created if absent.
	OutputDir string
	// FixedThreshold, when > 0, skips the threshold sweep and uses this
	// fork-join threshold for every thread count.
	FixedThreshold int
	// GracePeriod bounds pool teardown after each multiplication.
	GracePeriod time.Duration
	// ReusePools creates one pool per thread count and reuses it across
	// iterations instead of creating a pool per multiplication.
	ReusePools bool
}

// DefaultConfig returns the standard benchmark setup sized to this host.
func DefaultConfig() Config {
	return Config{
		Size:        DefaultSize,
		Seed:        DefaultSeed,
		Iterations:  DefaultIterations,
		MaxThreads:  cpuinfo.MaxThreads(),
		OutputDir:   DefaultOutputDir,
		GracePeriod: matmul.DefaultGracePeriod,
	}
}

// Validate checks that the configuration describes a runnable sweep.
func (c Config) Validate() error {
	switch {
	case c.Size < 1:
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	case c.Iterations < 1:
		return fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidConfig, c.Iterations)
	case c.MaxThreads < 1:
		return fmt.Errorf("%w: max threads must be positive, got %d", ErrInvalidConfig, c.MaxThreads)
	case c.FixedThreshold < 0:
		return fmt.Errorf("%w: fixed threshold must not be negative, got %d", ErrInvalidConfig, c.FixedThreshold)
	case c.GracePeriod <= 0:
		return fmt.Errorf("%w: grace period must be positive, got %s", ErrInvalidConfig, c.GracePeriod)
	case c.OutputDir == "":
		return fmt.Errorf("%w: output directory is empty", ErrInvalidConfig)
	}
	return nil
}

// ThreadCounts returns 1, 2, ..., MaxThreads.
func (c Config) ThreadCounts() []int {
	return lo.RangeFrom(1, c.MaxThreads)
}

// Thresholds returns the powers of two from 1 up to Size.
func (c Config) Thresholds() []int {
	var out []int
	for h := 1; h <= c.Size; h *= 2 {
		out = append(out, h)
	}
	return out
}
