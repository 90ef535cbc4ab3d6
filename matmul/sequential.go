// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"context"

	"github.com/ajroetker/matbench/mat"
)

// Sequential is the single-goroutine baseline every other strategy must
// match exactly.
type Sequential struct{}

// NewSequential returns the baseline strategy.
func NewSequential() Sequential {
	return Sequential{}
}

// Name implements Multiplier.
func (Sequential) Name() string {
	return NameSequential
}

// Multiply implements Multiplier. It never fails.
func (Sequential) Multiply(_ context.Context, a, b, c *mat.Matrix) error {
	multiplyRows(a, b, c, 0, a.Size())
	return nil
}
