// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package structured runs label-driven extraction over OCR text and returns
// spans in the caller's original coordinates.
package structured

import (
	"context"
	"fmt"
	"unicode/utf8"

	"labelscan/internal/detector"
	"labelscan/internal/labels"
	"labelscan/internal/logger"
	"labelscan/internal/observability"
	"labelscan/internal/ocrfix"
	"labelscan/internal/position"
	"labelscan/internal/taxonomy"
	"labelscan/internal/unlabeled"
	"labelscan/internal/values"
)

// DetectorName is stamped on every span this package produces.
const DetectorName = "structured"

// Options configures an Extractor. The zero value is usable.
type Options struct {
	// MaxValueLength bounds a value window in bytes when no label follows.
	MaxValueLength int
	// AlignLookahead bounds the OCR alignment search.
	AlignLookahead int
	// Types restricts emitted spans to these entity types. Empty emits all.
	Types []taxonomy.EntityType

	Logger   logger.Logger
	Observer *observability.StandardObserver
}

// Result is the outcome of one extraction.
type Result struct {
	Spans           []detector.Span `json:"spans" yaml:"spans"`
	ProcessedText   string          `json:"-" yaml:"-"`
	LabelsFound     int             `json:"labels_found" yaml:"labels_found"`
	FieldsExtracted int             `json:"fields_extracted" yaml:"fields_extracted"`
	DegradedRemaps  int             `json:"degraded_remaps" yaml:"degraded_remaps"`
}

// Extractor is stateless between calls and safe for concurrent use.
type Extractor struct {
	ocr    ocrfix.Processor
	values values.Extractor
	types  map[taxonomy.EntityType]bool
	log    logger.Logger
	obs    *observability.StandardObserver
}

var _ detector.Detector = (*Extractor)(nil)

// NewExtractor builds an Extractor from opts.
func NewExtractor(opts Options) *Extractor {
	e := &Extractor{
		ocr:    ocrfix.Processor{Lookahead: opts.AlignLookahead},
		values: values.Extractor{MaxLength: opts.MaxValueLength},
		log:    opts.Logger,
		obs:    opts.Observer,
	}
	if e.log == nil {
		e.log = logger.Discard()
	}
	if len(opts.Types) > 0 {
		e.types = make(map[taxonomy.EntityType]bool, len(opts.Types))
		for _, t := range opts.Types {
			e.types[t] = true
		}
	}
	return e
}

func (e *Extractor) Name() string        { return DetectorName }
func (e *Extractor) Tier() detector.Tier { return detector.TierStructured }

// Detect implements detector.Detector.
func (e *Extractor) Detect(ctx context.Context, text string) ([]detector.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := e.Extract(text)
	if err != nil {
		return nil, err
	}
	return res.Spans, nil
}

// candidate is a finding in corrected-text byte coordinates.
type candidate struct {
	start, end int
	text       string
	typ        taxonomy.EntityType
	confidence float64
}

// Extract runs OCR correction, label detection, value extraction and the
// unlabeled pass over text, then maps every finding back onto text.
//
// Rejected candidates are dropped silently. The only errors are position
// bounds violations and invalid spans, both of which indicate a bug.
func (e *Extractor) Extract(text string) (*Result, error) {
	finish := e.obs.StartTiming("structured", "extract", "")
	dbg := e.debug()

	step := dbg.StartStep("structured", "ocr_correction", "")
	fixed := e.ocr.Process(text)
	step(true, fmt.Sprintf("rules=%v", fixed.Applied))

	step = dbg.StartStep("structured", "label_detection", "")
	found := labels.Detect(fixed.Text)
	step(true, "")
	dbg.LogMetric("structured", "labels_found", len(found))

	var cands []candidate
	claimed := make([]unlabeled.Range, 0, len(found))
	for i, l := range found {
		var next *labels.Label
		if i+1 < len(found) {
			next = &found[i+1]
		}
		f, ok := e.values.Extract(fixed.Text, l, next)
		if !ok {
			continue
		}
		cands = append(cands, candidate{f.Start, f.End, f.Value, f.Type, f.Confidence})
		claimed = append(claimed, unlabeled.Range{Start: f.Start, End: f.End})
	}
	fields := len(cands)

	for _, c := range unlabeled.Detect(fixed.Text, claimed) {
		cands = append(cands, candidate{c.Start, c.End, c.Text, c.Type, c.Confidence})
	}

	res := &Result{
		ProcessedText:   fixed.Text,
		LabelsFound:     len(found),
		FieldsExtracted: fields,
	}

	for _, c := range cands {
		if e.types != nil && !e.types[c.typ] {
			continue
		}
		span, method, err := e.toOriginal(c, fixed.Map, text)
		if err != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
			return nil, err
		}
		if method == position.MethodDegraded {
			res.DegradedRemaps++
			e.log.Debug("degraded remap", "entity_type", c.typ.String(), "start", c.start, "end", c.end)
		}
		res.Spans = append(res.Spans, span)
	}

	e.log.Debug("structured extraction",
		"labels", res.LabelsFound,
		"fields", res.FieldsExtracted,
		"spans", len(res.Spans),
		"degraded", res.DegradedRemaps,
		"ocr_rules", len(fixed.Applied))
	finish(true, map[string]interface{}{
		"labels": res.LabelsFound,
		"fields": res.FieldsExtracted,
		"spans":  len(res.Spans),
	})
	return res, nil
}

// toOriginal remaps c onto original and builds a span with rune offsets.
// If the remapped range is empty or starts past the end of original the
// corrected text is kept as the span text.
func (e *Extractor) toOriginal(c candidate, m position.Map, original string) (detector.Span, position.Method, error) {
	r, err := position.Remap(c.start, c.end, c.text, m, original)
	if err != nil {
		return detector.Span{}, 0, fmt.Errorf("remap %s span: %w", c.typ, err)
	}

	text := c.text
	start := min(r.Start, len(original))
	if r.Start < len(original) && r.End > r.Start {
		text = original[r.Start:r.End]
	}

	runeStart := utf8.RuneCountInString(original[:start])
	runeEnd := runeStart + utf8.RuneCountInString(text)

	span, err := detector.NewSpan(runeStart, runeEnd, text, c.typ.String(), c.confidence, DetectorName, detector.TierStructured)
	if err != nil {
		return detector.Span{}, 0, fmt.Errorf("build %s span: %w", c.typ, err)
	}
	return span, r.Method, nil
}

func (e *Extractor) debug() *observability.DebugObserver {
	if e.obs == nil {
		return nil
	}
	return e.obs.DebugObserver
}

// Extract runs an Extractor with default options.
func Extract(text string) (*Result, error) {
	return NewExtractor(Options{}).Extract(text)
}
