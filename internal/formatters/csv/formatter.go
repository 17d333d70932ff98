// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"labelscan/internal/formatters"
	"labelscan/internal/formatters/shared"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

var header = []string{"File", "Type", "Confidence Level", "Confidence", "Line", "Start", "End", "Text"}

func (f *Formatter) Format(reports []formatters.Report, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, r := range reports {
		for _, finding := range r.Findings {
			row := []string{
				r.Path,
				finding.EntityType,
				shared.GetConfidenceLevel(finding.Confidence),
				strconv.FormatFloat(finding.Confidence, 'f', 2, 64),
				strconv.Itoa(finding.Line),
				strconv.Itoa(finding.Start),
				strconv.Itoa(finding.End),
				shared.DisplayText(finding.Text, options),
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("error formatting CSV: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error formatting CSV: %w", err)
	}
	return b.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
