package profiles

import (
	"math"
	"strings"

	"github.com/leviwiederhold/forman/pkg/enums"
)

const (
	defaultRoofSize = 24
	defaultPitch    = "7/12"
	defaultStories  = 2
	defaultLayers   = 1
	minRoofSize     = 0.01
)

type DefaultInputs struct {
	RoofSizeValue float64            `json:"roof_size_value"`
	RoofSizeUnit  enums.RoofSizeUnit `json:"roof_size_unit"`
	Pitch         string             `json:"pitch"`
	Stories       int                `json:"stories"`
	Tearoff       bool               `json:"tearoff"`
	Layers        *int               `json:"layers,omitempty"`
}

type DefaultSelections struct {
	RidgeVentSelected   bool `json:"ridge_vent_selected"`
	DripEdgeSelected    bool `json:"drip_edge_selected"`
	IceWaterSelected    bool `json:"ice_water_selected"`
	SteepChargeSelected bool `json:"steep_charge_selected"`
	PermitFeeSelected   bool `json:"permit_fee_selected"`
	TearoffSelected     bool `json:"tearoff_selected"`
}

// QuoteDefaults pre-fills the new quote form.
type QuoteDefaults struct {
	Inputs     DefaultInputs     `json:"inputs"`
	Selections DefaultSelections `json:"selections"`
}

// SanitizeDefaults coerces an untrusted JSON object into QuoteDefaults. Unknown
// or malformed values fall back to the stock defaults instead of failing.
func SanitizeDefaults(raw map[string]any) QuoteDefaults {
	inputs := object(raw["inputs"])
	selections := object(raw["selections"])

	tearoff := boolOr(inputs["tearoff"], true)
	out := QuoteDefaults{
		Inputs: DefaultInputs{
			RoofSizeValue: math.Max(minRoofSize, numberOr(inputs["roof_size_value"], defaultRoofSize)),
			RoofSizeUnit:  unitOr(inputs["roof_size_unit"], enums.RoofSizeUnitSquares),
			Pitch:         pitchOr(inputs["pitch"], defaultPitch),
			Stories:       oneToThree(inputs["stories"], defaultStories),
			Tearoff:       tearoff,
		},
		Selections: DefaultSelections{
			RidgeVentSelected:   boolOr(selections["ridge_vent_selected"], false),
			DripEdgeSelected:    boolOr(selections["drip_edge_selected"], false),
			IceWaterSelected:    boolOr(selections["ice_water_selected"], false),
			SteepChargeSelected: boolOr(selections["steep_charge_selected"], false),
			PermitFeeSelected:   boolOr(selections["permit_fee_selected"], false),
			TearoffSelected:     boolOr(selections["tearoff_selected"], tearoff),
		},
	}
	if tearoff {
		layers := oneToThree(inputs["layers"], defaultLayers)
		out.Inputs.Layers = &layers
	}
	return out
}

func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func boolOr(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func numberOr(v any, fallback float64) float64 {
	if n, ok := v.(float64); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n
	}
	return fallback
}

func oneToThree(v any, fallback int) int {
	if n, ok := v.(float64); ok && (n == 1 || n == 2 || n == 3) {
		return int(n)
	}
	return fallback
}

func unitOr(v any, fallback enums.RoofSizeUnit) enums.RoofSizeUnit {
	if s, ok := v.(string); ok {
		if unit, err := enums.ParseRoofSizeUnit(s); err == nil {
			return unit
		}
	}
	return fallback
}

func pitchOr(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return fallback
}
