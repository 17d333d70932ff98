// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package position

import "strings"

// DefaultLookahead is how many original bytes Align scans forward when the
// corrected text and the original stop agreeing.
const DefaultLookahead = 10

// Map correlates corrected-text offsets with original-text offsets.
// Element i is the original offset that corrected offset i came from.
// A Map is built once per document and never modified afterwards.
type Map []int

// Identity returns the map for a text of length n that was not rewritten.
func Identity(n int) Map {
	m := make(Map, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// Align builds a Map from corrected back to original using a greedy walk of
// both texts. It is a heuristic alignment, not a minimal edit script: Remap
// verifies each mapped span and searches nearby when the alignment drifted.
// lookahead <= 0 selects DefaultLookahead.
func Align(original, corrected string, lookahead int) Map {
	if original == corrected {
		return Identity(len(corrected))
	}
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}

	m := make(Map, 0, len(corrected))
	orig, corr := 0, 0

	for corr < len(corrected) {
		if orig >= len(original) {
			// Original exhausted: everything left sits on its last byte.
			m = append(m, max(len(original)-1, 0))
			corr++
			continue
		}

		c := corrected[corr]
		switch {
		case c == original[orig]:
			m = append(m, orig)
			orig++
			corr++

		case c == ' ':
			m = append(m, orig)
			if corr+1 < len(corrected) && corrected[corr+1] == original[orig] {
				// Inserted space; the original position does not move.
				corr++
			} else {
				orig++
				corr++
			}

		default:
			window := original[orig:min(orig+lookahead, len(original))]
			if skip := strings.IndexByte(window, c); skip >= 0 {
				orig += skip
				m = append(m, orig)
				orig++
			} else {
				m = append(m, orig)
			}
			corr++
		}
	}

	return m
}

// Original returns the original offset for corrected offset pos.
//
// In lenient mode a negative pos yields 0 and a pos past the end of the map
// is extrapolated from the last entry. In strict mode both cases return a
// *BoundsError. An empty map passes pos through unchanged.
func (m Map) Original(pos int, strict bool) (int, error) {
	if len(m) == 0 {
		return pos, nil
	}

	if pos < 0 {
		if strict {
			return 0, &BoundsError{What: "position", Pos: pos, Len: len(m)}
		}
		return 0, nil
	}

	if pos >= len(m) {
		if strict {
			return 0, &BoundsError{What: "position", Pos: pos, Len: len(m)}
		}
		return m[len(m)-1] + (pos - len(m) + 1), nil
	}

	return m[pos], nil
}

// IsIdentity reports whether every entry maps to its own index.
func (m Map) IsIdentity() bool {
	for i, v := range m {
		if v != i {
			return false
		}
	}
	return true
}
