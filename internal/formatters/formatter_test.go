// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscan/internal/structured"
)

func TestNewReportLines(t *testing.T) {
	text := "Café card\nNAME: John Smith\nDOB: 01/15/1980"
	res, err := structured.Extract(text)
	require.NoError(t, err)

	r := NewReport("card.txt", text, res)
	require.Len(t, r.Findings, 2)
	assert.Equal(t, "NAME", r.Findings[0].EntityType)
	assert.Equal(t, 2, r.Findings[0].Line)
	assert.Equal(t, "DATE_DOB", r.Findings[1].EntityType)
	assert.Equal(t, 3, r.Findings[1].Line)
	assert.Equal(t, res.LabelsFound, r.LabelsFound)
	assert.NoError(t, r.Err)
}

func TestNewReportNilResult(t *testing.T) {
	r := NewReport("x", "text", nil)
	assert.Empty(t, r.Findings)
	assert.Equal(t, "x", r.Path)
}

func TestLineOf(t *testing.T) {
	starts := lineStarts("ab\ncd\n\nef")
	assert.Equal(t, []int{0, 3, 6, 7}, starts)

	tests := map[int]int{0: 1, 2: 1, 3: 2, 6: 3, 7: 4, 9: 4}
	for pos, want := range tests {
		assert.Equal(t, want, lineOf(starts, pos), "pos %d", pos)
	}
}

type stubFormatter struct{ name string }

func (s stubFormatter) Format(reports []Report, _ FormatterOptions) (string, error) {
	return s.name, nil
}
func (s stubFormatter) Name() string          { return s.name }
func (s stubFormatter) Description() string   { return "stub" }
func (s stubFormatter) FileExtension() string { return ".stub" }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stubFormatter{"b"})
	r.Register(stubFormatter{"a"})

	assert.Equal(t, []string{"a", "b"}, r.List())
	f, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", f.Name())
	_, ok = r.Get("c")
	assert.False(t, ok)
}

func TestExportUnsupported(t *testing.T) {
	_, err := Export("sarif", nil, FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format 'sarif'")
	assert.Equal(t, FormatInfo{}, GetFormatInfo("sarif"))
}
