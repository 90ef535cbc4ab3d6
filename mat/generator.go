// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package mat

import "math/rand"

// Generator produces pseudo-random square matrices of a fixed size from a
// seeded stream. Two generators with the same size and seed return identical
// matrices when called in the same order.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	size int
	seed int64
	rng  *rand.Rand
}

// NewGenerator returns a generator of size x size matrices seeded with seed.
func NewGenerator(size int, seed int64) *Generator {
	return &Generator{
		size: size,
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Size returns the dimension of generated matrices.
func (g *Generator) Size() int {
	return g.size
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate returns a matrix with values uniform in [0, 1), drawn in row-major
// order. It advances the random stream by size*size values.
func (g *Generator) Generate() *Matrix {
	m := New(g.size)
	for _, r := range m.rows {
		for j := range r {
			r[j] = g.rng.Float64()
		}
	}
	return m
}

// GenerateZero returns an all-zero matrix. It does not touch the random stream.
func (g *Generator) GenerateZero() *Matrix {
	return New(g.size)
}
