// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MaxPDFPages caps how many pages are read from one PDF.
const MaxPDFPages = 200

func loadPDF(ctx context.Context, path string) (*Document, error) {
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("source: invalid PDF %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	pages := min(r.NumPage(), MaxPDFPages)
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("source: %s page %d: %w", path, i, err)
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
	}

	if fields := formFields(r); len(fields) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(fields, "\n"))
	}

	return &Document{Path: path, Kind: KindPDF, Text: validUTF8(b.String()), Pages: pages}, nil
}

// formFields renders filled AcroForm fields as "NAME: value" lines so the
// field name acts as a label.
func formFields(r *pdf.Reader) []string {
	root := r.Trailer().Key("Root")
	if root.IsNull() {
		return nil
	}
	fields := root.Key("AcroForm").Key("Fields")
	if fields.Kind() != pdf.Array {
		return nil
	}

	var out []string
	for i := 0; i < fields.Len(); i++ {
		if line, ok := formField(fields.Index(i)); ok {
			out = append(out, line)
		}
	}
	return out
}

func formField(field pdf.Value) (string, bool) {
	if field.Kind() != pdf.Dict {
		return "", false
	}
	name := strings.TrimSpace(field.Key("T").Text())
	if name == "" {
		return "", false
	}

	value := fieldValue(field.Key("V"))
	if value == "" {
		value = fieldValue(field.Key("DV"))
	}
	if value == "" {
		return "", false
	}
	return strings.ToUpper(name) + ": " + value, true
}

func fieldValue(v pdf.Value) string {
	switch v.Kind() {
	case pdf.String:
		return strings.TrimSpace(v.Text())
	case pdf.Name:
		return v.Name()
	}
	return ""
}
