// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package unlabeled finds address lines that carry no field label, as printed
// on the front of most driver's licenses.
package unlabeled

import (
	"regexp"

	"labelscan/internal/taxonomy"
)

// Confidence is lower than for labeled fields since nothing names the value.
const Confidence = 0.70

var (
	// Both patterns use [ \t] so a match never runs onto the next line.
	streetPattern = regexp.MustCompile(`(?i)\b(\d{1,5}[ \t]+[A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+)*[ \t]+` +
		`(?:STREET|ST|AVENUE|AVE|ROAD|RD|DRIVE|DR|LANE|LN|BLVD|BOULEVARD|` +
		`WAY|COURT|CT|CIRCLE|CIR|PLACE|PL|TERRACE|TER|TRAIL|TRL|PIKE|HWY|HIGHWAY)` +
		`(?:[ \t]+(?:APT|UNIT|STE|SUITE|#)[ \t]*\.?[ \t]*[A-Z0-9]*)?)\b`)

	cityStateZipPattern = regexp.MustCompile(`(?i)\b([A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+)*,[ \t]*[A-Z]{2}[ \t]+\d{5}(?:-\d{4})?)\b`)
)

// Candidate is an unlabeled match in the scanned text's coordinates.
type Candidate struct {
	Start      int
	End        int
	Text       string
	Type       taxonomy.EntityType
	Confidence float64
}

// Range is a half-open interval already claimed by another finding.
type Range struct {
	Start int
	End   int
}

// Detect returns street and city/state/ZIP lines in text that do not overlap
// any of the claimed ranges. Candidates are only checked against claimed,
// not against each other.
func Detect(text string, claimed []Range) []Candidate {
	var out []Candidate
	for _, re := range []*regexp.Regexp{streetPattern, cityStateZipPattern} {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if overlapsAny(claimed, loc[0], loc[1]) {
				continue
			}
			out = append(out, Candidate{
				Start:      loc[2],
				End:        loc[3],
				Text:       text[loc[2]:loc[3]],
				Type:       taxonomy.EntityAddress,
				Confidence: Confidence,
			})
		}
	}
	return out
}

func overlapsAny(claimed []Range, start, end int) bool {
	for _, r := range claimed {
		if start < r.End && r.Start < end {
			return true
		}
	}
	return false
}
