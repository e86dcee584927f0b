package enums

import "fmt"

// Trade maps to the trade column shared by rate cards, custom items and quotes.
type Trade string

const (
	TradeRoofing Trade = "roofing"
)

var validTrades = []Trade{
	TradeRoofing,
}

// String implements fmt.Stringer.
func (t Trade) String() string {
	return string(t)
}

// IsValid reports whether the value is a supported trade.
func (t Trade) IsValid() bool {
	for _, candidate := range validTrades {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrade converts raw input into Trade.
func ParseTrade(value string) (Trade, error) {
	for _, candidate := range validTrades {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade %q", value)
}
