// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelscan/internal/taxonomy"
)

func TestDetectColonLabels(t *testing.T) {
	got := Detect("DOB: 01/15/1980")
	require.Len(t, got, 1)
	assert.Equal(t, Label{
		Name: "DOB", Start: 0, End: 5, Type: taxonomy.EntityDateDOB, Raw: "DOB", Strategy: StrategyColon,
	}, got[0])
}

func TestDetectNonSensitiveLabelIsKept(t *testing.T) {
	got := Detect("NAME: John Smith RX: Take daily")
	require.Len(t, got, 2)

	assert.Equal(t, "NAME", got[0].Name)
	assert.Equal(t, 0, got[0].Start)
	assert.Equal(t, 6, got[0].End)

	assert.Equal(t, "RX", got[1].Name)
	assert.Equal(t, 17, got[1].Start)
	assert.Equal(t, 21, got[1].End)
	assert.Equal(t, taxonomy.EntityNone, got[1].Type)
}

func TestDetectPrefersLongestSuffix(t *testing.T) {
	got := Detect("PATIENT NAME: Jane Doe")
	require.Len(t, got, 1)
	assert.Equal(t, "PATIENT NAME", got[0].Name)
	assert.Equal(t, taxonomy.EntityNamePatient, got[0].Type)
	assert.Equal(t, 0, got[0].Start)
}

func TestDetectSuffixAfterFreeText(t *testing.T) {
	got := Detect("Card Holder Copy MRN: 12345")
	require.Len(t, got, 1)
	assert.Equal(t, "MRN", got[0].Name)
	assert.Equal(t, 17, got[0].Start)
	assert.Equal(t, "MRN", got[0].Raw)
}

func TestDetectCaseInsensitive(t *testing.T) {
	got := Detect("dob : 01/15/1980")
	require.Len(t, got, 1)
	assert.Equal(t, "DOB", got[0].Name)
	assert.Equal(t, 6, got[0].End)
}

func TestDetectSkipsDocumentHeaders(t *testing.T) {
	assert.Empty(t, Detect("STATE: Pennsylvania"))
	assert.Empty(t, Detect("DRIVER LICENSE - Pennsylvania"))
}

func TestDetectFieldCodeLabels(t *testing.T) {
	// The colon scan finds HGT itself, so the field-code scan defers to it.
	got := Detect("16 HGT: 5-09")
	require.Len(t, got, 1)
	assert.Equal(t, "HGT", got[0].Name)
	assert.Equal(t, 3, got[0].Start)
	assert.Equal(t, StrategyColon, got[0].Strategy)

	// STATE is rejected as a colon label but accepted behind a field code.
	got = Detect("1 STATE: PA")
	require.Len(t, got, 1)
	assert.Equal(t, "STATE", got[0].Name)
	assert.Equal(t, 2, got[0].Start)
	assert.Equal(t, 9, got[0].End)
	assert.Equal(t, StrategyFieldCode, got[0].Strategy)
	assert.Equal(t, taxonomy.EntityAddress, got[0].Type)
}

func TestDetectBareLabels(t *testing.T) {
	got := Detect("DATE OF BIRTH 01/15/1980")
	require.Len(t, got, 1)
	assert.Equal(t, "DATE OF BIRTH", got[0].Name)
	assert.Equal(t, StrategyBare, got[0].Strategy)
	assert.Equal(t, 14, got[0].End)
}

func TestDetectBareLabelNeedsValue(t *testing.T) {
	assert.Empty(t, Detect("DATE OF BIRTH (unknown)"))
}

func TestDetectBareLabelSkipsColonRequired(t *testing.T) {
	assert.Empty(t, Detect("PATIENT Jane Doe"))
	assert.Empty(t, Detect("MRN 12345678"))
}

func TestDetectBareLabelAfterDriver(t *testing.T) {
	assert.Empty(t, Detect("DRIVER LICENSE NO 1234"))
}

func TestDetectOrderedAndUnique(t *testing.T) {
	text := "4a ISS: 01/01/2020 4b EXP: 01/01/2028\n1 SAMPLE 2 ANDREW\n8 123 MAIN ST\n" +
		"DOB: 01/15/1980 SEX: M HGT: 5-09 EYES: BRO\nDATE OF BIRTH 01/15/1980 PATIENT NAME: Jane"
	got := Detect(text)
	require.NotEmpty(t, got)

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Start, got[i].Start)
	}
	for _, l := range got {
		assert.Less(t, l.Start, l.End)
		assert.LessOrEqual(t, l.End, len(text))
	}
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "colon", StrategyColon.String())
	assert.Equal(t, "field-code", StrategyFieldCode.String())
	assert.Equal(t, "bare", StrategyBare.String())
	assert.Equal(t, "unknown", Strategy(9).String())
}
