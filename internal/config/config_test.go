// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscan/internal/paths"
	"labelscan/internal/taxonomy"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Defaults.Format)
	assert.Equal(t, "info", cfg.Defaults.LogLevel)
	assert.False(t, cfg.Defaults.ShowText)
	assert.Equal(t, 100, cfg.Extraction.MaxValueLength)
	assert.Equal(t, 10, cfg.Extraction.AlignLookahead)
	assert.Equal(t, []string{"id-card", "insurance"}, cfg.ListProfiles())
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "labelscan.yaml", `
defaults:
  format: json
extraction:
  types: [DATE_DOB, mrn]
profiles:
  intake:
    description: intake forms
    max_value_length: 60
`)

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Defaults.Format)
	assert.Equal(t, "info", cfg.Defaults.LogLevel)
	assert.Equal(t, 100, cfg.Extraction.MaxValueLength)
	assert.Contains(t, cfg.ListProfiles(), "intake")
	assert.Contains(t, cfg.ListProfiles(), "id-card")

	opts, err := cfg.ExtractionOptions()
	require.NoError(t, err)
	assert.Equal(t, []taxonomy.EntityType{taxonomy.EntityDateDOB, taxonomy.EntityMRN}, opts.Types)
	assert.Equal(t, 100, opts.MaxValueLength)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"bad yaml", ":::invalid yaml:::", "error parsing config file"},
		{"unknown type", "extraction:\n  types: [BLOOD_TYPE]\n", "unknown entity type"},
		{"non-sensitive type", "extraction:\n  types: [NONE]\n", "never emitted"},
		{"zero length", "extraction:\n  max_value_length: 0\n", "max_value_length"},
		{"log level", "defaults:\n  log_level: loud\n", "log_level"},
		{"negative workers", "defaults:\n  workers: -2\n", "workers"},
		{"profile type", "profiles:\n  x:\n    types: [nope]\n", "profile 'x'"},
		{"profile workers", "profiles:\n  x:\n    workers: -1\n", "profiles[x].workers"},
		{"zero lookahead", "extraction:\n  align_lookahead: 0\n", "extraction.align_lookahead must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeConfig(t, dir, "c.yaml", tt.content)
			_, err := LoadConfig(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigOrDefault(t *testing.T) {
	dir := t.TempDir()
	bad := writeConfig(t, dir, "bad.yaml", ":::")

	cfg, err := LoadConfigOrDefault(bad)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "text", cfg.Defaults.Format)

	good := writeConfig(t, dir, "good.yaml", "defaults:\n  format: yaml\n")
	cfg, err = LoadConfigOrDefault(good)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Defaults.Format)
}

func TestFindConfigFile(t *testing.T) {
	work := t.TempDir()
	confDir := t.TempDir()
	chdir(t, work)
	t.Setenv(paths.ConfigDirEnv, confDir)

	assert.Empty(t, FindConfigFile())

	standard := writeConfig(t, confDir, "config.yaml", "{}")
	assert.Equal(t, standard, FindConfigFile())

	writeConfig(t, work, ".labelscan.yaml", "{}")
	assert.Equal(t, ".labelscan.yaml", FindConfigFile())

	writeConfig(t, work, "labelscan.yaml", "{}")
	assert.Equal(t, "labelscan.yaml", FindConfigFile())
}

func TestApplyProfile(t *testing.T) {
	cfg := Default()
	cfg.Profiles["wide"] = Profile{Format: "json", ShowText: true, MaxValueLength: 40, Workers: 3}

	require.NoError(t, cfg.ApplyProfile("wide"))
	assert.Equal(t, "json", cfg.Defaults.Format)
	assert.True(t, cfg.Defaults.ShowText)
	assert.Equal(t, 3, cfg.Defaults.Workers)
	assert.Equal(t, 40, cfg.Extraction.MaxValueLength)
	assert.Empty(t, cfg.Extraction.Types)

	require.NoError(t, cfg.ApplyProfile("id-card"))
	assert.Contains(t, cfg.Extraction.Types, "DRIVER_LICENSE")
	assert.Equal(t, 40, cfg.Extraction.MaxValueLength)

	err := cfg.ApplyProfile("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id-card")
}

func TestDefaultProfilesAreValid(t *testing.T) {
	require.NoError(t, ValidateConfig(Default()))
	assert.Nil(t, Default().GetProfile("nope"))
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
