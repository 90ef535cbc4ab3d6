// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package mat

import "fmt"

// Equal reports whether a and b have the same size and bit-for-bit equal
// cells (compared with ==, so NaN never equals NaN).
func Equal(a, b *Matrix) bool {
	return Compare(a, b) == nil
}

// Compare returns nil if got equals want exactly, a *MismatchError naming
// the first differing cell in row-major order, or an error wrapping
// ErrSizeMismatch.
func Compare(want, got *Matrix) error {
	if want.n != got.n {
		return fmt.Errorf("%w: %d vs %d", ErrSizeMismatch, want.n, got.n)
	}
	for i, wr := range want.rows {
		gr := got.rows[i]
		for j, w := range wr {
			if gr[j] != w {
				return &MismatchError{Row: i, Col: j, Want: w, Got: gr[j]}
			}
		}
	}
	return nil
}

// CompareAll checks every named result against want and returns the first
// mismatch, tagged with the offending name.
func CompareAll(want *Matrix, got map[string]*Matrix, order ...string) error {
	for _, name := range order {
		m, ok := got[name]
		if !ok {
			continue
		}
		if err := Compare(want, m); err != nil {
			if me, ok := err.(*MismatchError); ok {
				me.Strategy = name
				return me
			}
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
