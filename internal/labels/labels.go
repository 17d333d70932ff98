// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package labels finds field labels such as "DOB:" or "4a ISS:" in form text
// and resolves them against the label taxonomy.
package labels

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"labelscan/internal/taxonomy"
)

// Strategy identifies which scan produced a label.
type Strategy int

const (
	// StrategyColon matches "LABEL:" and "LABEL -".
	StrategyColon Strategy = iota
	// StrategyFieldCode matches numbered ID card fields like "4a ISS:".
	StrategyFieldCode
	// StrategyBare matches a known label followed directly by a value.
	StrategyBare
)

func (s Strategy) String() string {
	switch s {
	case StrategyColon:
		return "colon"
	case StrategyFieldCode:
		return "field-code"
	case StrategyBare:
		return "bare"
	default:
		return "unknown"
	}
}

// Label is a field label found in corrected text. End is the offset just past
// the label, its separator and any whitespace after the separator.
type Label struct {
	Name     string // normalized taxonomy key
	Start    int
	End      int
	Type     taxonomy.EntityType // EntityNone for recognized non-sensitive labels
	Raw      string              // label text as it appeared
	Strategy Strategy
}

var (
	// The trailing (\S) stands in for a lookahead: it is never part of the
	// label and scanning resumes at it.
	colonPattern     = regexp.MustCompile(`(?i)\b([A-Z][A-Z0-9\s'\-#]{0,30}?)\s*[:\-]\s*(\S)`)
	fieldCodePattern = regexp.MustCompile(`(?i)\b\d+[a-z]?\s+([A-Z]{2,})\s*[:\-]\s*(\S)`)
	driverBefore     = regexp.MustCompile(`(?i)(DRIVER'?S?|DRIVING)\s*$`)
)

// colonExcluded are taxonomy hits that are usually document headers.
var colonExcluded = map[string]bool{
	"DRIVER'S LICENSE": true,
	"DRIVER LICENSE":   true,
	"LICENSE":          true,
	"STREET":           true,
	"USA":              true,
	"STATE":            true,
	"SAMPLE":           true,
}

// colonRequired labels are too short or too common in prose to accept
// without a separator.
var colonRequired = map[string]bool{
	"DL": true, "ID": true, "NO": true, "SS": true, "DD": true, "PH": true,
	"FN": true, "LN": true, "HT": true, "WT": true, "GRP": true, "BIN": true,
	"PCN": true, "NPI": true, "DEA": true, "DOC": true, "REF": true, "MRN": true,
	"RX": true,
	"HOSPITAL": true, "CLINIC": true, "MEDICAL": true, "CENTER": true, "HEALTH": true,
	"PATIENT": true, "DOCTOR": true, "DR": true, "PHYSICIAN": true, "PROVIDER": true,
	"NURSE": true, "MEMBER": true, "SUBSCRIBER": true, "EMPLOYER": true,
	"GUARDIAN": true, "PARENT": true, "SPOUSE": true,
}

var bareExcluded = map[string]bool{
	"DRIVER'S LICENSE": true,
	"DRIVER LICENSE":   true,
	"LICENSE":          true,
}

// DriverContext is how many bytes before a bare label are checked for a
// "DRIVER'S"/"DRIVING" prefix.
const DriverContext = 15

type barePattern struct {
	label string
	re    *regexp.Regexp
}

// barePatterns follow taxonomy.SortedLabels order so longer labels claim
// their positions first.
var barePatterns = func() []barePattern {
	var out []barePattern
	for _, label := range taxonomy.SortedLabels() {
		if len(label) < 3 || colonRequired[label] || bareExcluded[label] {
			continue
		}
		out = append(out, barePattern{
			label: label,
			re:    regexp.MustCompile(`(?i)\b(` + regexp.QuoteMeta(label) + `)\s+`),
		})
	}
	return out
}()

// Detect returns the labels in text ordered by start offset, with at most one
// label per start offset. Colon-delimited labels win over field-code labels,
// which win over bare labels.
func Detect(text string) []Label {
	var found []Label
	found = append(found, detectColon(text)...)
	found = detectFieldCode(text, found)
	found = detectBare(text, found)

	sort.SliceStable(found, func(i, j int) bool { return found[i].Start < found[j].Start })

	out := found[:0]
	seen := make(map[int]bool, len(found))
	for _, l := range found {
		if seen[l.Start] {
			continue
		}
		seen[l.Start] = true
		out = append(out, l)
	}
	return out
}

func detectColon(text string) []Label {
	var out []Label

	for pos := 0; pos < len(text); {
		loc := colonPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, valueAt := pos+loc[0], pos+loc[4]
		raw := strings.TrimRightFunc(text[pos+loc[2]:pos+loc[3]], unicode.IsSpace)
		// The byte before valueAt is a separator or whitespace, so \b still
		// behaves when the next search starts there.
		pos = valueAt

		name, offset, ok := longestSuffix(raw)
		if !ok || colonExcluded[name] {
			continue
		}
		typ, _ := taxonomy.Lookup(name)
		out = append(out, Label{
			Name:     name,
			Start:    start + offset,
			End:      valueAt,
			Type:     typ,
			Raw:      raw[offset:],
			Strategy: StrategyColon,
		})
	}
	return out
}

// longestSuffix finds the longest run of trailing words in raw that is a
// taxonomy label. offset is where that run starts within raw.
func longestSuffix(raw string) (name string, offset int, ok bool) {
	starts := wordStarts(raw)
	for _, s := range starts {
		candidate := taxonomy.Normalize(raw[s:])
		if taxonomy.Known(candidate) {
			return candidate, s, true
		}
	}
	return "", 0, false
}

// wordStarts returns the byte offsets where whitespace separated words begin.
func wordStarts(s string) []int {
	var starts []int
	inWord := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if !space && !inWord {
			starts = append(starts, i)
		}
		inWord = !space
	}
	return starts
}

func detectFieldCode(text string, found []Label) []Label {
	for pos := 0; pos < len(text); {
		loc := fieldCodePattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, valueAt := pos+loc[0], pos+loc[4]
		labelStart, labelEnd := pos+loc[2], pos+loc[3]
		pos = valueAt

		name := taxonomy.Normalize(text[labelStart:labelEnd])
		typ, ok := taxonomy.Lookup(name)
		if !ok || claimedNear(found, start) {
			continue
		}
		found = append(found, Label{
			Name:     name,
			Start:    labelStart,
			End:      valueAt,
			Type:     typ,
			Raw:      text[labelStart:labelEnd],
			Strategy: StrategyFieldCode,
		})
	}
	return found
}

// claimedNear reports whether a label already starts within 5 bytes of pos.
func claimedNear(found []Label, pos int) bool {
	for _, l := range found {
		if d := l.Start - pos; d > -5 && d < 5 {
			return true
		}
	}
	return false
}

func detectBare(text string, found []Label) []Label {
	for _, bp := range barePatterns {
		for _, loc := range bp.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if !looksLikeValue(text[end:]) || inside(found, start) {
				continue
			}
			if driverBefore.MatchString(text[max(0, start-DriverContext):start]) {
				continue
			}
			raw := text[loc[2]:loc[3]]
			typ, _ := taxonomy.Lookup(raw)
			found = append(found, Label{
				Name:     bp.label,
				Start:    start,
				End:      end,
				Type:     typ,
				Raw:      raw,
				Strategy: StrategyBare,
			})
		}
	}
	return found
}

// looksLikeValue reports whether s starts with a digit or two letters.
func looksLikeValue(s string) bool {
	if s == "" {
		return false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return true
	}
	return len(s) >= 2 && isASCIILetter(s[0]) && isASCIILetter(s[1])
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// inside reports whether pos falls within an already found label.
func inside(found []Label, pos int) bool {
	for _, l := range found {
		if l.Start <= pos && pos < l.End {
			return true
		}
	}
	return false
}
