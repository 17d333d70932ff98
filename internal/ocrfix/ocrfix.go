// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ocrfix repairs common OCR artifacts in form text and keeps a
// position map from the repaired text back to the input.
package ocrfix

import (
	"regexp"

	"labelscan/internal/position"
)

// Rule is a single rewrite applied to the whole text.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// rules run once each, in order. The driver's license marker fix must come
// before the generic digit/letter splits, which would otherwise break it up.
var rules = []Rule{
	{
		Name:        "dln-marker",
		Pattern:     regexp.MustCompile(`(?i)\b\d+[a-z]?DLN[:\-]\s*(\S+)`),
		Replacement: "DLN: ${1}",
	},
	{
		Name:        "street-split",
		Pattern:     regexp.MustCompile(`(?i)(\d{1,5})([A-Z]{2,})(STREET|ST|AVENUE|AVE|ROAD|RD|DRIVE|DR|LANE|LN|BLVD|BOULEVARD|WAY|COURT|CT|CIRCLE|CIR|PLACE|PL|TERRACE|TER|TRAIL|TRL|PIKE|HWY|HIGHWAY)\b`),
		Replacement: "${1} ${2} ${3}",
	},
	{
		Name:        "city-state-zip",
		Pattern:     regexp.MustCompile(`\b([A-Z][A-Za-z]{2,}),([A-Z]{2})(\d{5}(?:-?\d{4})?)\b`),
		Replacement: "${1}, ${2} ${3}",
	},
	{
		Name:        "field-code-label",
		Pattern:     regexp.MustCompile(`\b(\d+[a-z])(ISS|EXP|DOB|SEX|HGT|WGT|EYES|END|RESTR):`),
		Replacement: "${1} ${2}:",
	},
	{
		Name:        "numeric-prefix-label",
		Pattern:     regexp.MustCompile(`\b(\d{1,2})(EYES|HGT|SEX|WGT|CLASS|RESTR|END):(\S+)`),
		Replacement: "${1} ${2}: ${3}",
	},
	{
		Name:        "label-colon-space",
		Pattern:     regexp.MustCompile(`\b(DOB|EXP|ISS|DLN|SSN|MRN|ID|DD):(\d)`),
		Replacement: "${1}: ${2}",
	},
	{
		Name:        "dob-zero",
		Pattern:     regexp.MustCompile(`\bD0B\b`),
		Replacement: "DOB",
	},
	{
		Name:        "document-discriminator",
		Pattern:     regexp.MustCompile(`\b(\d)DD:(\d+)`),
		Replacement: "${1} DD: ${2}",
	},
	{
		Name:        "digit-caps-split",
		Pattern:     regexp.MustCompile(`\b(\d)([A-Z]{2,})\b`),
		Replacement: "${1} ${2}",
	},
}

// Rules returns the rewrite rules in the order they are applied.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Result is the outcome of one Process call.
type Result struct {
	Text    string
	Map     position.Map
	Applied []string // names of rules that changed the text
}

// Processor applies the rewrite rules. The zero value is ready to use.
type Processor struct {
	// Lookahead bounds the alignment search; see position.Align.
	Lookahead int
}

// Process rewrites text and aligns the result back to it.
func (p Processor) Process(text string) Result {
	out := text
	var applied []string

	for _, r := range rules {
		next := r.Pattern.ReplaceAllString(out, r.Replacement)
		if next != out {
			applied = append(applied, r.Name)
			out = next
		}
	}

	return Result{
		Text:    out,
		Map:     position.Align(text, out, p.Lookahead),
		Applied: applied,
	}
}

// Process runs the default Processor and returns the corrected text and its
// position map.
func Process(text string) (string, position.Map) {
	r := Processor{}.Process(text)
	return r.Text, r.Map
}
