// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package values pulls the value that follows a field label out of form text
// and checks it against the rules for the label's entity type.
package values

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"labelscan/internal/labels"
	"labelscan/internal/taxonomy"
)

const (
	// Confidence is assigned to every label-driven extraction.
	Confidence = 0.92

	// DefaultMaxLength bounds the value window when no label follows.
	DefaultMaxLength = 100
)

// Field is a label paired with its extracted value. Start and End are
// offsets into the text passed to Extract.
type Field struct {
	Label      string
	Type       taxonomy.EntityType
	Value      string
	Start      int
	End        int
	Confidence float64
}

var (
	// Stops a value at the next "LABEL:" (optionally field-coded), a blank
	// run or a newline.
	genericTerminator = regexp.MustCompile(`\s+(?:\d{0,2}[a-z]?\s+)?[A-Z]{2,}\s*[:\-]|\s{2,}|\n`)

	addressContinuation = regexp.MustCompile(`^(\s*\n\s*[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*,\s*[A-Z]{2}\s+\d{5}(?:-\d{4})?)`)
)

// Extractor extracts label values. The zero value uses DefaultMaxLength.
type Extractor struct {
	MaxLength int
}

// Extract returns the value following label in text. next, when non-nil,
// is the following label and bounds the value. ok is false when the label is
// not sensitive or no acceptable value was found.
func (e Extractor) Extract(text string, label labels.Label, next *labels.Label) (Field, bool) {
	rule := ruleFor(label.Type)
	if rule == nil {
		return Field{}, false
	}

	start := label.End
	for start < len(text) && (text[start] == ' ' || text[start] == '\t') {
		start++
	}

	var stop int
	if next != nil {
		stop = next.Start
	} else {
		stop = min(start+e.maxLength(), len(text))
		for stop > start && stop < len(text) && !utf8.RuneStart(text[stop]) {
			stop--
		}
	}
	if stop <= start {
		return Field{}, false
	}

	window := text[start:stop]
	if strings.TrimSpace(window) == "" {
		return Field{}, false
	}

	raw, ok := rule.match(window)
	if !ok {
		if loc := genericTerminator.FindStringIndex(window); loc != nil {
			raw = window[:loc[0]]
		} else {
			raw = strings.TrimRightFunc(window, unicode.IsSpace)
		}
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return Field{}, false
	}
	value = Clean(value, label.Type)
	if value == "" || LooksLikeProse(value) {
		return Field{}, false
	}

	idx := strings.Index(raw, value)
	if idx < 0 {
		return Field{}, false
	}
	valueStart := start + idx
	valueEnd := valueStart + len(value)

	if label.Type == taxonomy.EntityAddress {
		if m := addressContinuation.FindStringSubmatch(text[valueEnd:]); m != nil {
			value += m[1]
			valueEnd += len(m[1])
		}
	}

	if !rule.validate(value) {
		return Field{}, false
	}

	return Field{
		Label:      label.Name,
		Type:       label.Type,
		Value:      value,
		Start:      valueStart,
		End:        valueEnd,
		Confidence: Confidence,
	}, true
}

func (e Extractor) maxLength() int {
	if e.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return e.MaxLength
}

// Extract runs the zero Extractor.
func Extract(text string, label labels.Label, next *labels.Label) (Field, bool) {
	return Extractor{}.Extract(text, label, next)
}

// Validate reports whether value passes the checks for typ. Non-sensitive
// types never validate.
func Validate(value string, typ taxonomy.EntityType) bool {
	rule := ruleFor(typ)
	return rule != nil && value != "" && rule.validate(value)
}

func ruleFor(typ taxonomy.EntityType) *fieldRule {
	if !typ.Sensitive() {
		return nil
	}
	return &rules[typ]
}
