package quotes

import (
	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	maxPercent = decimal.NewFromInt(100)
)

// DepositCents is the deposit owed on total at percent, in cents. The total is
// rounded to cents first and percent is clamped to 0..100.
func DepositCents(total decimal.Decimal, percent decimal.Decimal) int64 {
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	if percent.GreaterThan(maxPercent) {
		percent = maxPercent
	}
	totalCents := total.Mul(hundred).Round(0)
	if !totalCents.IsPositive() {
		return 0
	}
	return totalCents.Mul(percent).Div(hundred).Round(0).IntPart()
}
