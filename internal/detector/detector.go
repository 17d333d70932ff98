// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Tier ranks detectors for whoever merges their spans. A higher tier
// outranks a lower one when spans collide.
type Tier int

const (
	TierML         Tier = 1
	TierPattern    Tier = 2
	TierStructured Tier = 3 // label-driven extraction
	TierChecksum   Tier = 4 // algorithmically validated
)

// ParseTier converts an integer to a Tier, rejecting anything outside 1-4.
func ParseTier(v int) (Tier, error) {
	t := Tier(v)
	if !t.Valid() {
		return 0, fmt.Errorf("invalid tier %d: must be 1-4", v)
	}
	return t, nil
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= TierML && t <= TierChecksum
}

func (t Tier) String() string {
	switch t {
	case TierML:
		return "ML"
	case TierPattern:
		return "PATTERN"
	case TierStructured:
		return "STRUCTURED"
	case TierChecksum:
		return "CHECKSUM"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ErrInvalidSpan is wrapped by every NewSpan validation failure.
var ErrInvalidSpan = errors.New("invalid span")

// Span is a located, typed detection. Start and End are character offsets
// with End exclusive. Build spans with NewSpan and treat them as values.
type Span struct {
	Start      int     `json:"start" yaml:"start"`
	End        int     `json:"end" yaml:"end"`
	Text       string  `json:"text" yaml:"text"`
	EntityType string  `json:"entity_type" yaml:"entity_type"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Detector   string  `json:"detector" yaml:"detector"`
	Tier       Tier    `json:"tier" yaml:"tier"`
}

// NewSpan validates and returns a Span.
func NewSpan(start, end int, text, entityType string, confidence float64, detector string, tier Tier) (Span, error) {
	switch {
	case start < 0:
		return Span{}, fmt.Errorf("%w: negative start %d", ErrInvalidSpan, start)
	case end <= start:
		return Span{}, fmt.Errorf("%w: end %d must be after start %d", ErrInvalidSpan, end, start)
	case confidence < 0 || confidence > 1:
		return Span{}, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidSpan, confidence)
	case utf8.RuneCountInString(text) != end-start:
		return Span{}, fmt.Errorf("%w: text length %d does not match span length %d",
			ErrInvalidSpan, utf8.RuneCountInString(text), end-start)
	case !tier.Valid():
		return Span{}, fmt.Errorf("%w: %v", ErrInvalidSpan, tier)
	}

	return Span{
		Start:      start,
		End:        end,
		Text:       text,
		EntityType: entityType,
		Confidence: confidence,
		Detector:   detector,
		Tier:       tier,
	}, nil
}

// Len returns the span length in characters.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether s and other share at least one character.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// String describes the span without its text so it is safe to log.
func (s Span) String() string {
	return fmt.Sprintf("Span(%d-%d, %s, conf=%.2f, %s, tier=%s, len=%d)",
		s.Start, s.End, s.EntityType, s.Confidence, s.Detector, s.Tier, s.Len())
}

// Detector produces spans from a document's text.
type Detector interface {
	Name() string
	Tier() Tier
	Detect(ctx context.Context, text string) ([]Span, error)
}
