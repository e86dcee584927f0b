package enums

import "fmt"

// RoofSizeUnit discriminates how a roof size was entered.
type RoofSizeUnit string

const (
	RoofSizeUnitSquares RoofSizeUnit = "squares"
	RoofSizeUnitSqft    RoofSizeUnit = "sqft"
)

var validRoofSizeUnits = []RoofSizeUnit{
	RoofSizeUnitSquares,
	RoofSizeUnitSqft,
}

func (u RoofSizeUnit) String() string {
	return string(u)
}

func (u RoofSizeUnit) IsValid() bool {
	for _, candidate := range validRoofSizeUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

func ParseRoofSizeUnit(value string) (RoofSizeUnit, error) {
	for _, candidate := range validRoofSizeUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid roof size unit %q", value)
}

// LineItemCategory groups priced line items for display.
type LineItemCategory string

const (
	LineItemCategoryCore       LineItemCategory = "core"
	LineItemCategoryTearoff    LineItemCategory = "tearoff"
	LineItemCategoryOptional   LineItemCategory = "optional"
	LineItemCategoryCustom     LineItemCategory = "custom"
	LineItemCategoryAdjustment LineItemCategory = "adjustment"
)

var validLineItemCategories = []LineItemCategory{
	LineItemCategoryCore,
	LineItemCategoryTearoff,
	LineItemCategoryOptional,
	LineItemCategoryCustom,
	LineItemCategoryAdjustment,
}

func (c LineItemCategory) String() string {
	return string(c)
}

func (c LineItemCategory) IsValid() bool {
	for _, candidate := range validLineItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}
