// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package source turns input files into the text the extractor scans.
// Span offsets in results refer to Document.Text, not to the raw file.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"labelscan/internal/paths"
)

// ErrUnsupported is returned for file types no loader handles.
var ErrUnsupported = errors.New("unsupported file type")

// Kind identifies the loader that produced a Document.
type Kind string

const (
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

// Document is loaded text plus where it came from.
type Document struct {
	Path     string
	Kind     Kind
	Text     string
	Pages    int    // PDF pages read; 0 for other kinds
	Encoding string // source charset when text was transcoded to UTF-8
}

type loader func(ctx context.Context, path string) (*Document, error)

var loaders = map[string]loader{
	".txt":  loadText,
	".text": loadText,
	".ocr":  loadText,
	".log":  loadText,
	".csv":  loadText,
	".md":   loadText,
	".pdf":  loadPDF,
	".jpg":  loadImage,
	".jpeg": loadImage,
	".tif":  loadImage,
	".tiff": loadImage,
}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	_, ok := loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the handled extensions.
func Extensions() []string {
	out := make([]string, 0, len(loaders))
	for ext := range loaders {
		out = append(out, ext)
	}
	return out
}

// sniffed maps detected content types to loaders for files without an
// extension, as scanners often write them.
var sniffed = map[string]loader{
	"text/plain":      loadText,
	"application/pdf": loadPDF,
	"image/jpeg":      loadImage,
	"image/tiff":      loadImage,
}

// Load reads path with the loader registered for its extension. Files with
// no extension are dispatched on their detected content type.
func Load(ctx context.Context, path string) (*Document, error) {
	if err := paths.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		load, err := sniff(path)
		if err != nil {
			return nil, err
		}
		return load(ctx, path)
	}

	load, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("source: %s: %w", path, ErrUnsupported)
	}
	return load(ctx, path)
}

func sniff(path string) (loader, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	for m := detected; m != nil; m = m.Parent() {
		for contentType, load := range sniffed {
			if m.Is(contentType) {
				return load, nil
			}
		}
	}
	return nil, fmt.Errorf("source: %s (%s): %w", path, detected.String(), ErrUnsupported)
}

// LoadReader reads plain text from r. name labels the document in results.
func LoadReader(ctx context.Context, name string, r io.Reader) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", name, err)
	}
	return textDocument(name, data)
}

func loadText(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	return textDocument(path, data)
}

func textDocument(name string, data []byte) (*Document, error) {
	text, enc, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", name, err)
	}
	return &Document{Path: name, Kind: KindText, Text: text, Encoding: enc}, nil
}

// decodeText returns data as UTF-8 so offsets can be counted in runes.
// Non-UTF-8 input is transcoded from its BOM-declared charset, or from
// windows-1252 as OCR tools on Windows write it. enc is empty for UTF-8.
// A leading byte order mark is dropped.
func decodeText(data []byte) (text, enc string, err error) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff"), "", nil
	}
	e, name, _ := charset.DetermineEncoding(data, "text/plain")
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), e.NewDecoder()))
	if err != nil {
		return "", "", fmt.Errorf("transcode from %s: %w", name, err)
	}
	return strings.TrimPrefix(validUTF8(string(decoded)), "\ufeff"), name, nil
}

// validUTF8 replaces invalid sequences in text pulled from binary formats.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\ufffd")
}
