// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"fmt"
	"unicode/utf8"

	"labelscan/internal/formatters"
)

// JSONResponse represents the top-level response structure for JSON/YAML output
type JSONResponse struct {
	Documents []JSONDocument `json:"documents" yaml:"documents"`
	Summary   JSONSummary    `json:"summary" yaml:"summary"`
}

// JSONDocument is one scanned document.
type JSONDocument struct {
	Path            string        `json:"path" yaml:"path"`
	Findings        []JSONFinding `json:"findings" yaml:"findings"`
	LabelsFound     int           `json:"labels_found" yaml:"labels_found"`
	FieldsExtracted int           `json:"fields_extracted" yaml:"fields_extracted"`
	DegradedRemaps  int           `json:"degraded_remaps,omitempty" yaml:"degraded_remaps,omitempty"`
	Suppressed      int           `json:"suppressed,omitempty" yaml:"suppressed,omitempty"`
	Error           string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// JSONFinding represents a single span in JSON/YAML format
type JSONFinding struct {
	EntityType      string  `json:"entity_type" yaml:"entity_type"`
	Text            string  `json:"text" yaml:"text"`
	Start           int     `json:"start" yaml:"start"`
	End             int     `json:"end" yaml:"end"`
	Line            int     `json:"line" yaml:"line"`
	Confidence      float64 `json:"confidence" yaml:"confidence"`
	ConfidenceLevel string  `json:"confidence_level" yaml:"confidence_level"`
	Detector        string  `json:"detector" yaml:"detector"`
	Tier            int     `json:"tier" yaml:"tier"`
}

// JSONSummary totals the run.
type JSONSummary struct {
	Documents int            `json:"documents" yaml:"documents"`
	Findings  int            `json:"findings" yaml:"findings"`
	Errors    int            `json:"errors" yaml:"errors"`
	ByType    map[string]int `json:"by_type,omitempty" yaml:"by_type,omitempty"`
}

// GetConfidenceLevel buckets a [0,1] confidence.
func GetConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "HIGH"
	case confidence >= 0.6:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// DisplayText returns text, or a mask carrying only its length.
func DisplayText(text string, options formatters.FormatterOptions) string {
	if options.ShowText {
		return text
	}
	return fmt.Sprintf("[REDACTED:%d]", utf8.RuneCountInString(text))
}

// ConvertReports converts reports to the JSON/YAML structure.
func ConvertReports(reports []formatters.Report, options formatters.FormatterOptions) JSONResponse {
	resp := JSONResponse{
		Documents: make([]JSONDocument, 0, len(reports)),
		Summary:   JSONSummary{Documents: len(reports), ByType: make(map[string]int)},
	}

	for _, r := range reports {
		doc := JSONDocument{
			Path:            r.Path,
			Findings:        make([]JSONFinding, 0, len(r.Findings)),
			LabelsFound:     r.LabelsFound,
			FieldsExtracted: r.FieldsExtracted,
			DegradedRemaps:  r.DegradedRemaps,
			Suppressed:      r.Suppressed,
		}
		if r.Err != nil {
			doc.Error = r.Err.Error()
			resp.Summary.Errors++
		}

		for _, f := range r.Findings {
			doc.Findings = append(doc.Findings, JSONFinding{
				EntityType:      f.EntityType,
				Text:            DisplayText(f.Text, options),
				Start:           f.Start,
				End:             f.End,
				Line:            f.Line,
				Confidence:      f.Confidence,
				ConfidenceLevel: GetConfidenceLevel(f.Confidence),
				Detector:        f.Detector,
				Tier:            int(f.Tier),
			})
			resp.Summary.ByType[f.EntityType]++
		}
		resp.Summary.Findings += len(r.Findings)
		resp.Documents = append(resp.Documents, doc)
	}

	if len(resp.Summary.ByType) == 0 {
		resp.Summary.ByType = nil
	}
	return resp
}
