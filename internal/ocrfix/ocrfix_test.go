// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ocrfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRewrites(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dln marker", "4dDLN:99", "DLN: 99"},
		{"concatenated street", "8123MAINSTREET", "8123 MAIN STREET"},
		{"city state zip", "HARRISBURG,PA17101", "HARRISBURG, PA 17101"},
		{"field code", "4aISS:01/01/2020", "4a ISS: 01/01/2020"},
		{"numeric prefix", "18EYES:BRO", "18 EYES: BRO"},
		{"missing space after colon", "DOB:01/15/1980", "DOB: 01/15/1980"},
		{"zero for O", "D0B 01/15/1980", "DOB 01/15/1980"},
		{"document discriminator", "5DD:123", "5 DD: 123"},
		{"digit caps split", "2ANDREW 1SAMPLE", "2 ANDREW 1 SAMPLE"},
		{"untouched", "NAME: John Smith", "NAME: John Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, m := Process(tt.in)
			assert.Equal(t, tt.want, got)
			require.Len(t, m, len(got))
			for i, o := range m {
				assert.True(t, o >= 0 && o < len(tt.in), "offset %d maps outside input: %d", i, o)
			}
		})
	}
}

func TestProcessIdentityWhenClean(t *testing.T) {
	text := "PATIENT NAME: Jane Doe\nMRN: 12345678"
	r := Processor{}.Process(text)
	assert.Equal(t, text, r.Text)
	assert.True(t, r.Map.IsIdentity())
	assert.Empty(t, r.Applied)
}

func TestProcessReportsAppliedRules(t *testing.T) {
	r := Processor{Lookahead: 4}.Process("4dDLN:99 8123MAINSTREET")
	assert.Equal(t, "DLN: 99 8123 MAIN STREET", r.Text)
	assert.Equal(t, []string{"dln-marker", "street-split"}, r.Applied)
}

func TestProcessMapIsNonDecreasing(t *testing.T) {
	in := "4dDLN:99 HARRISBURG,PA17101 18EYES:BRO"
	_, m := Process(in)
	for i := 1; i < len(m); i++ {
		assert.LessOrEqual(t, m[i-1], m[i], "map decreases at %d", i)
	}
}

func TestRulesOrder(t *testing.T) {
	r := Rules()
	require.NotEmpty(t, r)
	assert.Equal(t, "dln-marker", r[0].Name)
	assert.Equal(t, "digit-caps-split", r[len(r)-1].Name)
}
