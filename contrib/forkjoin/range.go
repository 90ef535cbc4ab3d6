// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package forkjoin

// Range is the half-open index range [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns Hi - Lo.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Bisect returns a Task over index ranges. Ranges of at most threshold
// indices are passed to leaf; longer ones are split at their midpoint, the
// first half [Lo, mid) being forked and the second half [mid, Hi) computed
// inline. A threshold below 1 is treated as 1.
func Bisect(threshold int, leaf func(lo, hi int)) Task[Range] {
	threshold = max(threshold, 1)
	return Task[Range]{
		Split: func(r Range) (Range, Range, bool) {
			if r.Len() <= threshold {
				return Range{}, Range{}, false
			}
			mid := (r.Lo + r.Hi) / 2
			return Range{Lo: r.Lo, Hi: mid}, Range{Lo: mid, Hi: r.Hi}, true
		},
		Leaf: func(r Range) {
			leaf(r.Lo, r.Hi)
		},
	}
}
