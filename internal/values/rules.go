// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package values

import (
	"regexp"
	"strings"
	"unicode"

	"labelscan/internal/taxonomy"
)

// matcher reports the value at the very start of window, if any.
type matcher func(window string) (value string, ok bool)

// validator decides whether a cleaned value is plausible for its type.
type validator func(value string) bool

type fieldRule struct {
	match    matcher
	validate validator
}

// anchored builds a matcher from an expression whose first group is the value.
// The expression must begin with ^ (after any flags).
func anchored(expr string) matcher {
	re := regexp.MustCompile(expr)
	return func(window string) (string, bool) {
		m := re.FindStringSubmatch(window)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

var (
	matchDate      = anchored(`^(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`)
	matchPhone     = anchored(`^(\(?\d{3}\)?[\-\.\s]?\d{3}[\-\.\s]?\d{4})`)
	matchGenericID = anchored(`^([A-Z]*\d[\dA-Z\-]{3,15})`)
	matchName      = anchored(`^((?:Dr\.?\s+)?[A-Z][A-Za-z'\-]*(?:[\s,]+[A-Z][A-Za-z'\-]*\.?){0,4})`)
)

// rules is indexed by entity type. Every sensitive type has an entry;
// TestEveryTypeHasRule keeps it that way.
var rules = [taxonomy.EntityTypeCount]fieldRule{
	taxonomy.EntityDate:    {matchDate, hasDigit},
	taxonomy.EntityDateDOB: {matchDate, hasDigit},

	taxonomy.EntitySSN: {anchored(`^(\d{3}[\-\s]?\d{2}[\-\s]?\d{4})`), digitCount(4, 11)},

	taxonomy.EntityPhone: {matchPhone, digitCount(7, 15)},
	taxonomy.EntityFax:   {matchPhone, digitCount(7, 15)},

	taxonomy.EntityEmail: {
		anchored(`^([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`),
		func(v string) bool { return strings.Contains(v, "@") },
	},

	taxonomy.EntityIPAddress: {anchored(`^(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`), nonEmpty},

	taxonomy.EntityMACAddress: {
		anchored(`^([0-9A-Fa-f]{2}[:\-][0-9A-Fa-f]{2}[:\-][0-9A-Fa-f]{2}[:\-][0-9A-Fa-f]{2}[:\-][0-9A-Fa-f]{2}[:\-][0-9A-Fa-f]{2})`),
		nonEmpty,
	},
	taxonomy.EntityDeviceID:     {anchored(`^((?:SN|S/N)?\s*[A-Z0-9\-]{5,20}|\(\d{2}\)\d{14,30})`), nonEmpty},
	taxonomy.EntityLicensePlate: {anchored(`^([A-Z]{2,3}[\-\s]?\d{3,4}|\d{3,4}[\-\s]?[A-Z]{2,3})`), nonEmpty},
	taxonomy.EntityVIN:          {anchored(`^([A-HJ-NPR-Z0-9]{17})`), nonEmpty},

	taxonomy.EntityZip: {anchored(`^(\d{5}(?:\-\d{4})?)`), validZip},

	taxonomy.EntityPhysicalDesc: {anchored(`^([A-Za-z0-9'"\-]+)`), validPhysical},

	taxonomy.EntityMRN:           {matchGenericID, validID(false)},
	taxonomy.EntityAccountNumber: {matchGenericID, validID(false)},
	taxonomy.EntityIDNumber:      {matchGenericID, validID(true)},
	taxonomy.EntityEncounterID:   {matchGenericID, nonEmpty},
	taxonomy.EntityAccessionID:   {matchGenericID, nonEmpty},
	taxonomy.EntityHealthPlanID:  {anchored(`^([A-Z]*\d[\dA-Z\-]{3,20})`), validID(false)},
	taxonomy.EntityDocumentID:    {anchored(`^(\d{6,20})`), validID(false)},
	taxonomy.EntityDriverLicense: {anchored(`^([A-Z]*\d[\dA-Z\-\s]{3,15})`), hasAlnum},
	taxonomy.EntityMedicareID:    {anchored(`^([A-Z0-9]{10,12})`), nonEmpty},
	taxonomy.EntityNPI:           {anchored(`^(\d{10})`), nonEmpty},
	taxonomy.EntityDEA:           {anchored(`^([A-Z]{2}\d{7})`), nonEmpty},
	taxonomy.EntityPassport:      {anchored(`^([A-Z0-9]{6,12})`), nonEmpty},

	taxonomy.EntityName:         {matchName, validName},
	taxonomy.EntityNamePatient:  {matchName, validName},
	taxonomy.EntityNameProvider: {matchName, validName},

	taxonomy.EntityAddress: {matchAddress, func(v string) bool { return len(v) >= 5 }},

	taxonomy.EntityFacility: {
		anchored(`(?i)^([A-Z][A-Za-z.\s'\-&]+(?:Hospital|Medical|Clinic|Center|Health)?)`),
		nonEmpty,
	},
}

var addressStop = regexp.MustCompile(`^(?:\s+\d{0,2}[a-z]?\s*[A-Z]{2,}:|\s{2,}|\n|$)`)

// matchAddress takes the shortest run of 5 to 50 bytes after a leading house
// number that is followed by another label, a blank run, a newline or the
// end of the window. The run may not contain a colon or a newline.
func matchAddress(window string) (string, bool) {
	digits := 0
	for digits < len(window) && isDigit(window[digits]) {
		digits++
	}

	// Longer house numbers are tried first, as a backtracking engine would.
	for k := digits; k >= 1; k-- {
		for n := 1; n <= 50 && k+n <= len(window); n++ {
			if c := window[k+n-1]; c == ':' || c == '\n' {
				break
			}
			if n >= 5 && addressStop.MatchString(window[k+n:]) {
				return window[:k+n], true
			}
		}
	}
	return "", false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func nonEmpty(v string) bool {
	return v != ""
}

func hasDigit(v string) bool {
	return strings.IndexFunc(v, unicode.IsDigit) >= 0
}

func hasAlnum(v string) bool {
	return strings.IndexFunc(v, isASCIIAlnum) >= 0
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func countDigits(v string) int {
	n := 0
	for _, r := range v {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func digitCount(lo, hi int) validator {
	return func(v string) bool {
		n := countDigits(v)
		return n >= lo && n <= hi
	}
}

func validZip(v string) bool {
	n := countDigits(v)
	return n == 5 || n == 9
}

var idFalsePositives = wordSet("range", "result", "value", "normal", "test", "level", "type", "class", "code")

func validID(needDigit bool) validator {
	return func(v string) bool {
		if !hasAlnum(v) || (needDigit && !hasDigit(v)) {
			return false
		}
		return !idFalsePositives[strings.ToLower(v)] && len(v) >= 3
	}
}

var nameFalsePositives = wordSet(
	"range", "result", "results", "test", "tests", "value", "values",
	"normal", "abnormal", "positive", "negative", "pending", "final",
	"report", "chart", "note", "notes", "history", "physical",
	"loss", "gain", "change", "changes", "level", "levels",
	"high", "low", "moderate", "severe", "mild", "acute", "chronic",
	"male", "female", "unknown", "other", "none", "yes", "no",
	"call", "return", "follow", "see", "refer", "consult",
)

var digitsOnly = regexp.MustCompile(`^[\d\s\-]+$`)

func validName(v string) bool {
	if strings.IndexFunc(v, isASCIILetter) < 0 || digitsOnly.MatchString(v) || len(v) < 2 {
		return false
	}
	if len(strings.Fields(v)) == 1 {
		if r := []rune(v)[0]; !unicode.IsUpper(r) {
			return false
		}
	}
	return !nameFalsePositives[strings.ToLower(v)]
}

func isASCIILetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

var physicalFalsePositives = wordSet("loss", "gain", "change", "normal", "abnormal", "stable", "unchanged")

func validPhysical(v string) bool {
	return len(v) >= 2 && !physicalFalsePositives[strings.ToLower(v)]
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
