// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"

	"labelscan/internal/detector"
	"labelscan/internal/structured"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	ShowText bool // print extracted values instead of masks
	NoColor  bool // disable colored output
	Verbose  bool // include per-document counters
}

// Finding is one span plus its 1-based line in the scanned text.
type Finding struct {
	detector.Span
	Line int
}

// Report is the extraction outcome for one document.
type Report struct {
	Path            string
	Findings        []Finding
	LabelsFound     int
	FieldsExtracted int
	DegradedRemaps  int
	Suppressed      int // findings hidden by suppression rules
	Err             error
}

// NewReport builds a Report from a result over text. Span offsets are rune
// offsets into text.
func NewReport(path, text string, res *structured.Result) Report {
	r := Report{Path: path}
	if res == nil {
		return r
	}
	r.LabelsFound = res.LabelsFound
	r.FieldsExtracted = res.FieldsExtracted
	r.DegradedRemaps = res.DegradedRemaps

	lines := lineStarts(text)
	for _, s := range res.Spans {
		r.Findings = append(r.Findings, Finding{Span: s, Line: lineOf(lines, s.Start)})
	}
	return r
}

// ErrorReport records a document that could not be processed.
func ErrorReport(path string, err error) Report {
	return Report{Path: path, Err: err}
}

// lineStarts returns the rune offset at which each line begins.
func lineStarts(text string) []int {
	starts := []int{0}
	i := 0
	for _, r := range text {
		i++
		if r == '\n' {
			starts = append(starts, i)
		}
	}
	return starts
}

func lineOf(starts []int, pos int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > pos })
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders reports in the formatter's output format
	Format(reports []Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text", "csv")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".json", ".txt", ".csv")
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export formats reports with the named formatter from the default registry.
func Export(format string, reports []Report, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(reports, options)
}

// FormatInfo describes a registered formatter.
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}

	switch name {
	case "json":
		info.MimeType = "application/json"
	case "csv":
		info.MimeType = "text/csv"
	case "yaml":
		info.MimeType = "application/x-yaml"
	case "text":
		info.MimeType = "text/plain"
	default:
		info.MimeType = "application/octet-stream"
	}

	return info
}

// GetSupportedFormats returns information about all available formatters
func GetSupportedFormats() []FormatInfo {
	var formats []FormatInfo
	for _, name := range List() {
		formats = append(formats, GetFormatInfo(name))
	}
	return formats
}
