package enums

import "fmt"

// PricingType maps to the custom_item_pricing_type enum in Postgres.
type PricingType string

const (
	PricingTypeFlat    PricingType = "flat"
	PricingTypePerUnit PricingType = "per_unit"
)

var validPricingTypes = []PricingType{
	PricingTypeFlat,
	PricingTypePerUnit,
}

// String implements fmt.Stringer.
func (p PricingType) String() string {
	return string(p)
}

// IsValid reports whether the value matches the canonical pricing type enum.
func (p PricingType) IsValid() bool {
	for _, candidate := range validPricingTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingType converts raw input into PricingType.
func ParsePricingType(value string) (PricingType, error) {
	for _, candidate := range validPricingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing type %q", value)
}
