// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscan/internal/formatters/shared"
	"labelscan/internal/paths"
)

// run executes the CLI in an isolated working and config directory.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(paths.ConfigDirEnv, t.TempDir())
	return dir
}

func TestScanStdinJSON(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "NAME: John Smith RX: Take daily\nDOB: 01/15/1980", "scan", "--format", "json")
	require.NoError(t, err)

	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Documents, 1)
	doc := resp.Documents[0]
	assert.Equal(t, "-", doc.Path)
	require.Len(t, doc.Findings, 2)
	assert.Equal(t, "NAME", doc.Findings[0].EntityType)
	assert.Equal(t, "[REDACTED:10]", doc.Findings[0].Text)
	assert.Equal(t, "DATE_DOB", doc.Findings[1].EntityType)
	assert.Equal(t, 2, doc.Findings[1].Line)
	assert.NotContains(t, out, "John")
}

func TestScanFilesWithTypesAndShowText(t *testing.T) {
	dir := isolate(t)
	card := filepath.Join(dir, "card.txt")
	require.NoError(t, os.WriteFile(card, []byte("MRN: 12345678\nDOB: 01/15/1980"), 0600))
	outFile := filepath.Join(dir, "out.csv")

	stdout, _, err := run(t, "", "scan", card, "--format", "csv", "--types", "mrn", "--show-text", "-o", outFile)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, card+",MRN,HIGH,0.92,1,5,13,12345678", lines[1])
}

func TestScanEnvAndProfile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labelscan.yaml"), []byte(`
profiles:
  dob-only:
    types: [DATE_DOB]
`), 0600))
	t.Setenv("LABELSCAN_FORMAT", "yaml")
	t.Setenv("LABELSCAN_PROFILE", "dob-only")

	out, _, err := run(t, "MRN: 12345678\nDOB: 01/15/1980", "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "entity_type: DATE_DOB")
	assert.NotContains(t, out, "entity_type: MRN")
}

func TestScanTextDefault(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "SSN: 123-45-6789", "scan", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "SSN")
	assert.Contains(t, out, "[REDACTED:11]")
	assert.Contains(t, out, "Scanned 1 document(s): 1 finding(s), 0 error(s)")
}

func TestScanErrors(t *testing.T) {
	dir := isolate(t)

	t.Run("missing file", func(t *testing.T) {
		out, _, err := run(t, "", "scan", "--format", "json", filepath.Join(dir, "none.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 document(s) failed")
		assert.Contains(t, out, `"errors": 1`)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := run(t, "DOB: 01/15/1980", "scan", "--format", "sarif")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, _, err := run(t, "", "scan", "--types", "BLOOD")
		assert.Error(t, err)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, _, err := run(t, "", "scan", "--profile", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown profile")
	})

	t.Run("bad explicit config", func(t *testing.T) {
		_, _, err := run(t, "", "scan", "--config", filepath.Join(dir, "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLabelsCommand(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "", "labels", "--type", "date_dob")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 1)
	assert.True(t, strings.HasPrefix(lines[0], "LABEL"))
	assert.Contains(t, out, "DOB")
	for _, l := range lines[1:] {
		assert.True(t, strings.HasSuffix(l, "DATE_DOB"), l)
	}

	_, _, err = run(t, "", "labels", "--type", "BOGUS")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "labelscan "))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"MRN", "SSN", "DOB"}, splitList([]string{"MRN, SSN", "", "DOB"}))
	assert.Nil(t, splitList(nil))
}

func TestSuppressWorkflow(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "123-45-6789\n", "suppress", "add", "--type", "ssn", "--value", "-", "--reason", "sample card")
	require.NoError(t, err)
	assert.Contains(t, out, "Added suppression rule SUP-00000001 for SSN")

	out, _, err = run(t, "", "suppress", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SUP-00000001")
	assert.Contains(t, out, "sample card")
	assert.NotContains(t, out, "123-45-6789")

	out, _, err = run(t, "SSN: 123-45-6789", "scan", "--format", "json")
	require.NoError(t, err)
	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Empty(t, resp.Documents[0].Findings)
	assert.Equal(t, 1, resp.Documents[0].Suppressed)

	out, _, err = run(t, "SSN: 123-45-6789", "scan", "--format", "json", "--no-suppress")
	require.NoError(t, err)
	assert.Contains(t, out, `"entity_type": "SSN"`)

	_, _, err = run(t, "", "suppress", "add", "--type", "NONE", "--value", "x")
	assert.Error(t, err)

	out, _, err = run(t, "", "suppress", "remove", "SUP-00000001")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed suppression rule SUP-00000001")

	out, _, err = run(t, "", "suppress", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 expired")
}

func TestScanDirectoryAndGlob(t *testing.T) {
	dir := isolate(t)
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "a.txt"), []byte("MRN: 12345678"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "sub", "b.txt"), []byte("DOB: 01/15/1980"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "sub", "c.png"), []byte("x"), 0600))

	docPaths := func(out string) []string {
		var resp shared.JSONResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		var got []string
		for _, d := range resp.Documents {
			got = append(got, d.Path)
		}
		return got
	}

	out, _, err := run(t, "", "scan", "--format", "json", docs)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(docs, "a.txt"), filepath.Join(docs, "sub", "b.txt")}, docPaths(out))

	out, _, err = run(t, "", "scan", "--format", "json", filepath.Join(docs, "**", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(docs, "sub", "b.txt")}, docPaths(out))

	_, _, err = run(t, "", "scan", filepath.Join(docs, "*.pdf"))
	assert.ErrorContains(t, err, "no files match")
}

func TestSuppressExpires(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "", "suppress", "add", "--type", "MRN", "--value", "00000000", "--expires", "2w")
	require.NoError(t, err)
	out, _, err := run(t, "", "suppress", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "never")
	assert.Contains(t, out, "enabled")

	_, _, err = run(t, "", "suppress", "add", "--type", "MRN", "--value", "11111111", "--expires", "soon")
	assert.ErrorContains(t, err, "invalid --expires")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
