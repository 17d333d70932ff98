// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dob:", "DOB"},
		{"DOB :", "DOB"},
		{"Dob", "DOB"},
		{"  patient   name -", "PATIENT NAME"},
		{"date\tof  birth:  ", "DATE OF BIRTH"},
		{"SS#", "SS#"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		label string
		want  EntityType
		found bool
	}{
		{"dob:", EntityDateDOB, true},
		{"DOB :", EntityDateDOB, true},
		{"Patient Name", EntityNamePatient, true},
		{"NAME", EntityName, true},
		{"RX", EntityNone, true},
		{"class", EntityNone, true},
		{"DRIVER'S LICENSE", EntityDriverLicense, true},
		{"S/N", EntityDeviceID, true},
		{"FAVORITE COLOR", EntityNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, found := Lookup(tt.label)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortedLabels(t *testing.T) {
	labels := SortedLabels()
	require.Len(t, labels, Len())

	for i := 1; i < len(labels); i++ {
		assert.GreaterOrEqual(t, len(labels[i-1]), len(labels[i]),
			"%q should not precede %q", labels[i-1], labels[i])
	}

	// Callers get their own copy.
	labels[0] = "MUTATED"
	assert.NotEqual(t, "MUTATED", SortedLabels()[0])
}

func TestEveryLabelIsNormalized(t *testing.T) {
	for _, e := range Entries() {
		assert.Equal(t, e.Label, Normalize(e.Label), "label %q is stored unnormalized", e.Label)
		assert.True(t, e.Type.Valid())
	}
}

func TestEntityTypeStringRoundTrip(t *testing.T) {
	for _, e := range Types() {
		parsed, err := ParseEntityType(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
		assert.True(t, e.Sensitive())
	}

	_, err := ParseEntityType("NOT_A_TYPE")
	assert.Error(t, err)
	assert.False(t, EntityNone.Sensitive())
	assert.Equal(t, "EntityType(99)", EntityType(99).String())
	assert.Len(t, Types(), 30)
}
