// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"labelscan/internal/taxonomy"
)

var prosePatterns = []*regexp.Regexp{
	// sentence break
	regexp.MustCompile(`\.\s+[A-Z]`),
	// pronouns between words
	regexp.MustCompile(`(?i)\s(he|she|they|his|her|their|him|them|it|its)\s`),
	// auxiliary and linking verbs
	regexp.MustCompile(`(?i)\b(was|were|is|are|has|have|had|will|would|could|should|been|being)\b`),
	// clinical narrative verbs
	regexp.MustCompile(`(?i)\b(reports?|presents?|denies?|admits?|states?|feels?|feeling|appears?|describes?|sleeps?|slept|lives?|lived)\b`),
	// transitions and time references
	regexp.MustCompile(`(?i)\b(today|yesterday|tonight|tomorrow|however|therefore|because|although|after|before|during|while|since|until|also|then|now)\b`),
	regexp.MustCompile(`(?i)\b(at the|in the|on the|to the|for the|with the|from the)\b`),
	regexp.MustCompile(`(?i)\b(what|when|where|why|how|which|who)\b`),
}

var (
	proseEnding    = regexp.MustCompile(`(?i)\b(well|better|worse|good|bad|okay|fine|much|very|really|still|already|just|even|only)\s*$`)
	proseQuantity  = regexp.MustCompile(`(?i)\b(in|for|about|approximately|around)\s+\d`)
	proseOpening   = regexp.MustCompile(`(?i)^(at|to|in|on|by|with|without|for|from|about|after|before|during|through|into|onto|upon)\s+`)
	proseSymptoms  = regexp.MustCompile(`(?i)\b(weakness|palpitations?|dizziness|fatigue|nausea|vomiting|pain|swelling|fever|cough|dyspnea|chest\s+pain|shortness|headache|symptoms?)\b`)
	nameConnectors = map[string]bool{
		"and": true, "or": true, "of": true, "the": true, "de": true,
		"van": true, "von": true, "la": true, "le": true,
	}
)

// MaxFieldLength is the longest value that is not treated as prose outright.
const MaxFieldLength = 60

// LooksLikeProse reports whether value reads like free text rather than a
// form field. Values shorter than three bytes are never prose.
func LooksLikeProse(value string) bool {
	if len(value) < 3 {
		return false
	}
	if len(value) > MaxFieldLength || strings.Contains(value, "|") {
		return true
	}

	for _, re := range prosePatterns {
		if re.MatchString(value) {
			return true
		}
	}

	// "John Smith" is fine, "John went to" is not.
	if words := strings.Fields(value); len(words) >= 3 {
		lower := 0
		for _, w := range words[1:] {
			r, _ := utf8.DecodeRuneInString(w)
			if unicode.IsLower(r) && !nameConnectors[w] {
				lower++
			}
		}
		if lower >= 2 {
			return true
		}
	}

	return proseEnding.MatchString(value) ||
		proseQuantity.MatchString(value) ||
		proseOpening.MatchString(value) ||
		proseSymptoms.MatchString(value)
}

var (
	trailingColon   = regexp.MustCompile(`\s*:\s*$`)
	dateAgeSuffix   = regexp.MustCompile(`(?i)\s*\|?\s*Age\s*:?\s*\d*\s*$`)
	dateLabelSuffix = regexp.MustCompile(`(?i)\s+(MRN|SSN|Sex|Gender|Room|Bed)\s*:?\s*$`)
	nameLabelSuffix = regexp.MustCompile(`(?i)\s+(DOB|MRN|SSN|ID)\s*:?\s*$`)
	openParenSuffix = regexp.MustCompile(`\s*\([^)]*$`)
)

// Clean trims separators and neighbouring label fragments that bled into a
// value. The result is always a prefix of the trimmed input.
func Clean(value string, typ taxonomy.EntityType) string {
	if i := strings.IndexByte(value, '|'); i >= 0 {
		value = strings.TrimSpace(value[:i])
	}
	value = trailingColon.ReplaceAllString(value, "")

	switch {
	case typ.IsDate():
		value = dateAgeSuffix.ReplaceAllString(value, "")
		value = dateLabelSuffix.ReplaceAllString(value, "")
	case typ.IsName():
		value = nameLabelSuffix.ReplaceAllString(value, "")
		value = openParenSuffix.ReplaceAllString(value, "")
	}

	return strings.TrimSpace(value)
}
