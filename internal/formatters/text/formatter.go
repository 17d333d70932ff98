// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"labelscan/internal/formatters"
	"labelscan/internal/formatters/shared"

	"github.com/fatih/color"
)

// valueWidth caps the value column.
const valueWidth = 30

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"blue":    color.New(color.FgBlue),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(reports []formatters.Report, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	paint := func(name, format string, args ...any) string {
		if options.NoColor {
			return fmt.Sprintf(format, args...)
		}
		return f.colors[name].Sprintf(format, args...)
	}

	findings, errs := 0, 0
	for _, r := range reports {
		findings += len(r.Findings)
		if r.Err != nil {
			errs++
		}
	}

	if findings > 0 {
		width := f.valueColumnWidth(reports, options)
		b.WriteString(paint("white", "%-8s %-16s %-5s %-10s %-*s %s\n", "LEVEL", "TYPE", "CONF", "LINE", width, "VALUE", "FILE"))
		b.WriteString(paint("white", "%s\n", strings.Repeat("-", 8+1+16+1+5+1+10+1+width+1+10)))

		for _, r := range reports {
			for _, finding := range r.Findings {
				level := shared.GetConfidenceLevel(finding.Confidence)
				fmt.Fprintf(&b, "%s %s %s %s %s %s\n",
					paint(levelColor(level), "[%-6s]", level),
					paint("cyan", "%-16s", finding.EntityType),
					paint("blue", "%5.2f", finding.Confidence),
					paint("magenta", "line %5d", finding.Line),
					pad(displayValue(finding.Text, options), width),
					r.Path)
			}
		}
	}

	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(&b, "%s %s: %v\n", paint("red", "[%-6s]", "ERROR"), r.Path, r.Err)
		}
		if options.Verbose && r.Err == nil {
			fmt.Fprintf(&b, "%s labels=%d fields=%d findings=%d suppressed=%d degraded=%d\n",
				paint("white", "%s:", r.Path), r.LabelsFound, r.FieldsExtracted, len(r.Findings), r.Suppressed, r.DegradedRemaps)
		}
	}

	if findings == 0 && errs == 0 {
		b.WriteString("No structured fields found.\n")
	}
	fmt.Fprintf(&b, "Scanned %d document(s): %d finding(s), %d error(s)\n", len(reports), findings, errs)
	return b.String(), nil
}

func levelColor(level string) string {
	switch level {
	case "HIGH":
		return "red"
	case "MEDIUM":
		return "yellow"
	default:
		return "green"
	}
}

// displayValue flattens whitespace and truncates to valueWidth runes.
func displayValue(text string, options formatters.FormatterOptions) string {
	v := shared.DisplayText(text, options)
	v = strings.NewReplacer("\n", " ", "\t", " ").Replace(v)
	if runes := []rune(v); len(runes) > valueWidth {
		v = string(runes[:valueWidth-3]) + "..."
	}
	return v
}

func (f *Formatter) valueColumnWidth(reports []formatters.Report, options formatters.FormatterOptions) int {
	width := len("VALUE")
	for _, r := range reports {
		for _, finding := range r.Findings {
			width = max(width, len([]rune(displayValue(finding.Text, options))))
		}
	}
	return width
}

func pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
