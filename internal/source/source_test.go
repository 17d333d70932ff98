// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscan/internal/paths"
)

func write(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0600))
	return p
}

func TestLoadText(t *testing.T) {
	p := write(t, "card.OCR", []byte("DOB: 01/15/1980\nMRN: 12345678"))

	doc, err := Load(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, KindText, doc.Kind)
	assert.Equal(t, p, doc.Path)
	assert.Equal(t, "DOB: 01/15/1980\nMRN: 12345678", doc.Text)
	assert.Zero(t, doc.Pages)
}

func TestLoadTextTranscodes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		text string
		enc  string
	}{
		{"utf8", []byte("NAME: José"), "NAME: José", ""},
		{"windows-1252", []byte("NAME: Jos\xe9"), "NAME: José", "windows-1252"},
		{"utf16 bom", []byte("\xff\xfeD\x00O\x00B\x00"), "DOB", "utf-16le"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load(context.Background(), write(t, "card.txt", tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.text, doc.Text)
			assert.Equal(t, tt.enc, doc.Encoding)
		})
	}
}

func TestLoadSniffsExtensionless(t *testing.T) {
	doc, err := Load(context.Background(), write(t, "scan_0001", []byte("DOB: 01/15/1980\n")))
	require.NoError(t, err)
	assert.Equal(t, KindText, doc.Kind)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	_, err = Load(context.Background(), write(t, "scan_0002", png))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported", func(t *testing.T) {
		_, err := Load(ctx, write(t, "scan.docx", []byte("x")))
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "none.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad path", func(t *testing.T) {
		_, err := Load(ctx, "a\x00b.txt")
		var pve *paths.PathValidationError
		assert.ErrorAs(t, err, &pve)
	})

	t.Run("not a pdf", func(t *testing.T) {
		_, err := Load(ctx, write(t, "form.pdf", []byte("NAME: John")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid PDF")
	})

	t.Run("image without exif", func(t *testing.T) {
		_, err := Load(ctx, write(t, "card.jpg", []byte{0xff, 0xd8, 0xff, 0xd9}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no EXIF data")
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Load(cctx, write(t, "card.txt", []byte("x")))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadReader(t *testing.T) {
	doc, err := LoadReader(context.Background(), "-", strings.NewReader("SSN: 123-45-6789"))
	require.NoError(t, err)
	assert.Equal(t, "-", doc.Path)
	assert.Equal(t, KindText, doc.Kind)
	assert.Equal(t, "SSN: 123-45-6789", doc.Text)
}

func TestSupported(t *testing.T) {
	for _, p := range []string{"a.txt", "b.PDF", "c.jpeg", "d.TIF"} {
		assert.True(t, Supported(p), p)
	}
	assert.False(t, Supported("e.png"))
	assert.False(t, Supported("noext"))
	assert.Len(t, Extensions(), len(loaders))
}

func TestUserComment(t *testing.T) {
	tests := []struct {
		name string
		val  []byte
		want string
	}{
		{"ascii", append([]byte("ASCII\x00\x00\x00"), "DOB: 01/02/1990"...), "DOB: 01/02/1990"},
		{"undefined", append(make([]byte, 8), "MRN: 5"...), "MRN: 5"},
		{"unicode code", append([]byte("UNICODE\x00"), 0, 'A'), ""},
		{"short", []byte("ASC"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userComment(tt.val))
		})
	}
}
