package enums

import (
	"fmt"
	"strings"
)

// FeeType selects how the platform's desired service fee is derived from an
// order subtotal.
type FeeType string

const (
	FeeTypeFixed      FeeType = "fixed"
	FeeTypePercentage FeeType = "percentage"
	FeeTypeHybrid     FeeType = "hybrid"
)

var validFeeTypes = []FeeType{
	FeeTypeFixed,
	FeeTypePercentage,
	FeeTypeHybrid,
}

// String implements fmt.Stringer.
func (f FeeType) String() string {
	return string(f)
}

// IsValid reports whether the value is known.
func (f FeeType) IsValid() bool {
	for _, candidate := range validFeeTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFeeType converts raw input into a FeeType.
func ParseFeeType(value string) (FeeType, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validFeeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fee type %q", value)
}
