package pricing

import (
	"github.com/leviwiederhold/forman/pkg/enums"
)

const sqftPerSquare = 100

// NormalizeSquares converts a roof size into roofing squares (100 sq ft).
// The result is not rounded. Non-finite or non-positive sizes yield 0.
func NormalizeSquares(value float64, unit enums.RoofSizeUnit) float64 {
	v := finite(value)
	if v <= 0 {
		return 0
	}
	if unit == enums.RoofSizeUnitSquares {
		return v
	}
	return v / sqftPerSquare
}
