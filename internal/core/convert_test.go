package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		{name: "integer", input: "3", wantValid: true, wantValue: "3"},
		{name: "decimal point", input: "0.1", wantValid: true, wantValue: "0.1"},
		{name: "decimal comma", input: "0,25", wantValid: true, wantValue: "0.25"},
		{name: "leading decimal point", input: ".5", wantValid: true, wantValue: "0.5"},
		{name: "thousands then decimal point", input: "1,234.5", wantValid: true, wantValue: "1234.5"},
		{name: "thousands then decimal comma", input: "1.234,5", wantValid: true, wantValue: "1234.5"},
		{name: "lone comma group is decimal", input: "1,500", wantValid: true, wantValue: "1.5"},
		{name: "repeated comma groups", input: "1,000,000", wantValid: true, wantValue: "1000000"},
		{name: "currency", input: "$12.50", wantValid: true, wantValue: "12.5"},
		{name: "accounting negative", input: "(2)", wantValid: true, wantValue: "-2"},
		{name: "scientific notation", input: "1.5e2", wantValid: true, wantValue: "150"},
		{name: "whitespace", input: "  7 ", wantValid: true, wantValue: "7"},
		{name: "non-breaking space", input: "\u00a04", wantValid: true, wantValue: "4"},
		{name: "formula prefix", input: `="12"`, wantValid: true, wantValue: "12"},
		{name: "text", input: "abc", wantValid: false},
		{name: "empty", input: "", wantValid: false},
		{name: "only spaces", input: "   ", wantValid: false},
		{name: "mixed", input: "12 kg", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			if !tt.wantValid {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrNotNumeric))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantValue, got.String())
		})
	}
}

func TestParseUnitsSold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,500", "1500"},
		{"12,000", "12000"},
		{"1,000,000", "1000000"},
		{"-2,500", "-2500"},
		{" 1,500 ", "1500"},
		{"0,500", "0.5"},
		{"1,5", "1.5"},
		{"3", "3"},
		{"1.234,5", "1234.5"},
	}

	for _, tt := range tests {
		got, err := ParseUnitsSold(tt.input)
		require.NoError(t, err, "ParseUnitsSold(%q)", tt.input)
		require.Equal(t, tt.want, got.String(), "ParseUnitsSold(%q)", tt.input)
	}

	_, err := ParseUnitsSold("abc")
	require.ErrorIs(t, err, ErrNotNumeric)
}

func TestIsTextual(t *testing.T) {
	require.True(t, IsTextual("rice"))
	require.True(t, IsTextual("***"))
	require.True(t, IsTextual(" Roll A "))
	require.False(t, IsTextual(""))
	require.False(t, IsTextual("  "))
	require.False(t, IsTextual("12"))
	require.False(t, IsTextual("0,5"))
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Roll A  ", "Roll A"},
		{`="Roll A"`, "Roll A"},
		{"=42", "42"},
		{`"quoted"`, "quoted"},
		{"\u00a0nbsp\u00a0", "nbsp"},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, CleanCell(tt.input), "CleanCell(%q)", tt.input)
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{" item name ", "units sold", "item name"})
	require.Equal(t, 0, idx["item name"])
	require.Equal(t, 1, idx["units sold"])
	_, ok := idx["Item Name"]
	require.False(t, ok, "header lookup is exact")
}
