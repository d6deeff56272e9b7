package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const invalidPropertyID = "Invalid property ID"

// PropertyIDValidation is the outcome of validating a property identifier.
type PropertyIDValidation struct {
	IsValid    bool   `json:"isValid"`
	PropertyID *int64 `json:"propertyId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ValidatePropertyID accepts an integer or a string taken from a URL or form.
// Strings are read like parseInt: leading whitespace and sign, then the
// leading run of digits; anything after the digits is ignored.
func ValidatePropertyID(raw interface{}) PropertyIDValidation {
	var id int64
	switch v := raw.(type) {
	case int:
		id = int64(v)
	case int8:
		id = int64(v)
	case int16:
		id = int64(v)
	case int32:
		id = int64(v)
	case int64:
		id = v
	case uint8:
		id = int64(v)
	case uint16:
		id = int64(v)
	case uint32:
		id = int64(v)
	case uint:
		if uint64(v) > math.MaxInt64 {
			return PropertyIDValidation{Error: invalidPropertyID}
		}
		id = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return PropertyIDValidation{Error: invalidPropertyID}
		}
		id = int64(v)
	case string:
		parsed, ok := parseLeadingInt(v)
		if !ok {
			return PropertyIDValidation{Error: invalidPropertyID}
		}
		id = parsed
	default:
		return PropertyIDValidation{Error: invalidPropertyID}
	}
	return PropertyIDValidation{IsValid: true, PropertyID: &id}
}

func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// out of int64 range
		return 0, false
	}
	return n, true
}

// ValidateRequiredString validates required string fields
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(value, fieldName string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("%s is required", fieldName)
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	return date, nil
}

// ValidatePaginationParams clamps pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
