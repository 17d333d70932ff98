// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// textTags are the EXIF fields scanners and phones fill with free text.
var textTags = []exif.FieldName{
	exif.ImageDescription,
	exif.UserComment,
	exif.Artist,
	exif.Copyright,
}

func loadImage(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: no EXIF data in %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var lines []string
	for _, name := range textTags {
		tag, err := x.Get(name)
		if err != nil {
			continue
		}
		var text string
		if s, err := tag.StringVal(); err == nil {
			text = s
		} else if name == exif.UserComment {
			text = userComment(tag.Val)
		}
		if text = strings.TrimSpace(strings.Trim(text, "\x00")); text != "" {
			lines = append(lines, text)
		}
	}

	return &Document{Path: path, Kind: KindImage, Text: validUTF8(strings.Join(lines, "\n"))}, nil
}

// userComment strips the 8-byte character code that prefixes UserComment.
// Only ASCII and undefined codes are decoded.
func userComment(val []byte) string {
	if len(val) < 8 {
		return ""
	}
	code, body := val[:8], val[8:]
	switch {
	case bytes.HasPrefix(code, []byte("ASCII")), bytes.Equal(code, make([]byte, 8)):
		return string(body)
	}
	return ""
}
