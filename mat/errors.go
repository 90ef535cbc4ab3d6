// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package mat

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSquare is returned when input rows do not form an N x N matrix.
	ErrNotSquare = errors.New("mat: matrix is not square")

	// ErrSizeMismatch is returned when two matrices compared or converted
	// have different dimensions.
	ErrSizeMismatch = errors.New("mat: size mismatch")
)

// MismatchError reports the first cell where two results differ.
// It signals a decomposition bug, never a transient condition.
type MismatchError struct {
	// Strategy names the result that disagreed with the reference.
	Strategy string
	Row, Col int
	Want     float64
	Got      float64
}

func (e *MismatchError) Error() string {
	name := e.Strategy
	if name == "" {
		name = "result"
	}
	return fmt.Sprintf("mat: %s differs at (%d,%d): got %v, want %v", name, e.Row, e.Col, e.Got, e.Want)
}
