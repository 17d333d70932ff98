// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	assert.Equal(t, filepath.Clean(dir), GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
	assert.Equal(t, filepath.Join(dir, "suppressions.yaml"), GetSuppressionsFile())
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	assert.Contains(t, filepath.Base(GetConfigDir()), "labelscan")
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty", "", false},
		{"relative", "cards/front.txt", false},
		{"null byte", "cards/\x00front.txt", true},
	}
	if runtime.GOOS == "windows" {
		tests = append(tests,
			struct {
				name    string
				path    string
				wantErr bool
			}{"drive letter", `C:\scans\a.txt`, false},
			struct {
				name    string
				path    string
				wantErr bool
			}{"pipe", `C:\scans\a|b.txt`, true},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var pve *PathValidationError
			require.ErrorAs(t, err, &pve)
			assert.Equal(t, tt.path, pve.Path)
		})
	}
}

func TestResolvePath(t *testing.T) {
	got, err := ResolvePath("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ResolvePath("a/../b.txt")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "b.txt", filepath.Base(got))
}

func TestIsStdin(t *testing.T) {
	assert.True(t, IsStdin(""))
	assert.True(t, IsStdin("-"))
	assert.False(t, IsStdin("card.txt"))
}
