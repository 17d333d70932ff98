// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package position

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by every *BoundsError via errors.Is.
var ErrOutOfBounds = errors.New("position out of bounds")

// BoundsError reports an offset that falls outside a position map's domain.
// It indicates a caller produced a span that does not belong to the text the
// map was built for, so it should be treated as a bug rather than retried.
type BoundsError struct {
	What string // "start", "end" or "position"
	Pos  int
	Len  int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s %d out of bounds for position map of length %d", e.What, e.Pos, e.Len)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
