// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package position

import (
	"strings"
	"unicode/utf8"
)

// SearchWindow is how far, in bytes, Remap searches on either side of the
// naive mapping when the mapped text does not match the span text.
const SearchWindow = 20

// Method records how Remap arrived at a range.
type Method int

const (
	// MethodDirect means the position map alone produced a matching range.
	MethodDirect Method = iota
	// MethodExact means the span text was found verbatim near the naive range.
	MethodExact
	// MethodCompact means the span text matched once spaces were ignored.
	MethodCompact
	// MethodDegraded means no recovery worked and the naive range was kept.
	MethodDegraded
)

// String returns the string representation of the remap method
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodExact:
		return "exact"
	case MethodCompact:
		return "compact"
	case MethodDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Range is a half-open byte range in the original text.
type Range struct {
	Start  int
	End    int
	Method Method
}

// Remap translates the corrected-text range [start, end) holding text back to
// original-text coordinates.
//
// start must lie in [0, len(m)) and end in [0, len(m)]; anything else returns
// a *BoundsError. When the mapped original text differs from text (ignoring
// spaces and case) Remap looks for text verbatim within SearchWindow bytes of
// the naive range, then for text with its spaces removed. If both searches
// fail the naive range is returned with MethodDegraded.
func Remap(start, end int, text string, m Map, original string) (Range, error) {
	if len(m) == 0 {
		return Range{Start: start, End: end, Method: MethodDirect}, nil
	}

	if start < 0 || start >= len(m) {
		return Range{}, &BoundsError{What: "start", Pos: start, Len: len(m)}
	}
	if end < 0 || end > len(m) {
		return Range{}, &BoundsError{What: "end", Pos: end, Len: len(m)}
	}

	origStart := m[start]
	origEnd := origStart
	if end > 0 {
		origEnd = m[end-1] + 1
	}

	origStart = max(0, min(origStart, len(original)))
	origEnd = max(origStart, min(origEnd, len(original)))
	origStart, origEnd = snapToRunes(original, origStart, origEnd)

	if text == "" || similar(original[origStart:origEnd], text) {
		return Range{Start: origStart, End: origEnd, Method: MethodDirect}, nil
	}

	searchStart := max(0, origStart-SearchWindow)
	searchEnd := min(len(original), origEnd+SearchWindow)

	if idx := strings.Index(original[searchStart:], text); idx >= 0 && searchStart+idx < searchEnd {
		pos := searchStart + idx
		return Range{Start: pos, End: pos + len(text), Method: MethodExact}, nil
	}

	compact := strings.ReplaceAll(text, " ", "")
	if compact != "" {
		last := min(searchEnd, len(original)-len(compact)+1)
		for i := searchStart; i < last; i++ {
			if original[i] == ' ' {
				continue
			}
			if stop, ok := compactMatch(original, i, compact); ok {
				return Range{Start: i, End: stop, Method: MethodCompact}, nil
			}
		}
	}

	return Range{Start: origStart, End: origEnd, Method: MethodDegraded}, nil
}

// compactMatch reports whether original, read from i with spaces skipped,
// begins with compact. stop is the offset just past the last matched byte.
func compactMatch(original string, i int, compact string) (stop int, ok bool) {
	j := 0
	for i < len(original) && j < len(compact) {
		if original[i] == ' ' {
			i++
			continue
		}
		if original[i] != compact[j] {
			return 0, false
		}
		i++
		j++
	}
	return i, j == len(compact)
}

// similar compares two strings ignoring spaces and case.
func similar(a, b string) bool {
	return strings.EqualFold(strings.ReplaceAll(a, " ", ""), strings.ReplaceAll(b, " ", ""))
}

// snapToRunes widens [start, end) so neither edge splits a UTF-8 sequence.
func snapToRunes(s string, start, end int) (int, int) {
	for start > 0 && start < len(s) && !utf8.RuneStart(s[start]) {
		start--
	}
	for end < len(s) && end > 0 && !utf8.RuneStart(s[end]) {
		end++
	}
	return start, end
}
