package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePropertyID(t *testing.T) {
	tests := []struct {
		name       string
		input      interface{}
		expectOK   bool
		expectedID int64
	}{
		{name: "integer", input: 42, expectOK: true, expectedID: 42},
		{name: "zero integer", input: 0, expectOK: true, expectedID: 0},
		{name: "negative integer", input: -7, expectOK: true, expectedID: -7},
		{name: "int64", input: int64(9000000000), expectOK: true, expectedID: 9000000000},
		{name: "int8", input: int8(-3), expectOK: true, expectedID: -3},
		{name: "int16", input: int16(300), expectOK: true, expectedID: 300},
		{name: "uint8", input: uint8(200), expectOK: true, expectedID: 200},
		{name: "uint32", input: uint32(4000000000), expectOK: true, expectedID: 4000000000},
		{name: "uint", input: uint(12), expectOK: true, expectedID: 12},
		{name: "uint64 in range", input: uint64(math.MaxInt64), expectOK: true, expectedID: math.MaxInt64},
		{name: "uint64 overflows int64", input: uint64(math.MaxInt64) + 1, expectOK: false},
		{name: "numeric string", input: "123", expectOK: true, expectedID: 123},
		{name: "decimal string truncates", input: "123.45", expectOK: true, expectedID: 123},
		{name: "trailing garbage ignored", input: "42abc", expectOK: true, expectedID: 42},
		{name: "leading whitespace", input: "  17", expectOK: true, expectedID: 17},
		{name: "signed string", input: "-5", expectOK: true, expectedID: -5},
		{name: "plus sign", input: "+8", expectOK: true, expectedID: 8},
		{name: "empty string", input: "", expectOK: false},
		{name: "whitespace only", input: "   ", expectOK: false},
		{name: "letters", input: "abc", expectOK: false},
		{name: "sign only", input: "-", expectOK: false},
		{name: "leading dot", input: ".5", expectOK: false},
		{name: "overflows int64", input: "99999999999999999999", expectOK: false},
		{name: "unsupported type", input: 1.5, expectOK: false},
		{name: "nil", input: nil, expectOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePropertyID(tt.input)
			assert.Equal(t, tt.expectOK, result.IsValid)
			if tt.expectOK {
				require.NotNil(t, result.PropertyID)
				assert.Equal(t, tt.expectedID, *result.PropertyID)
				assert.Empty(t, result.Error)
			} else {
				assert.Nil(t, result.PropertyID)
				assert.Equal(t, "Invalid property ID", result.Error)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-01", "move_in_date")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	_, err = ParseDate("", "move_in_date")
	assert.EqualError(t, err, "move_in_date is required")

	_, err = ParseDate("03/01/2025", "move_in_date")
	assert.EqualError(t, err, "move_in_date must be in YYYY-MM-DD format")
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, -3)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, _ = ValidatePaginationParams(500, 0)
	assert.Equal(t, 100, limit)
}
