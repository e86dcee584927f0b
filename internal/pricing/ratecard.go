package pricing

import (
	"math"

	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

const MaxMarkupPercent = 500

// RateCard holds a contractor's roofing rates. The engine reads it as-is and
// never substitutes defaults for missing or zero values.
type RateCard struct {
	LaborPerSquare           float64 `json:"labor_per_square"`
	ShinglesPerSquare        float64 `json:"shingles_per_square"`
	UnderlaymentPerSquare    float64 `json:"underlayment_per_square"`
	TearoffDisposalPerSquare float64 `json:"tearoff_disposal_per_square"`
	MinimumJobPrice          float64 `json:"minimum_job_price"`
	MarkupPercent            float64 `json:"markup_percent"`
	RidgeVentPerLF           float64 `json:"ridge_vent_per_lf"`
	DripEdgePerLF            float64 `json:"drip_edge_per_lf"`
	IceWaterPerSquare        float64 `json:"ice_water_per_square"`
	SteepChargeFlat          float64 `json:"steep_charge_flat"`
	PermitFeeFlat            float64 `json:"permit_fee_flat"`
}

// DefaultRateCard returns the starting values offered on the settings screen.
func DefaultRateCard() RateCard {
	return RateCard{
		LaborPerSquare:           55,
		ShinglesPerSquare:        115,
		UnderlaymentPerSquare:    20,
		TearoffDisposalPerSquare: 35,
		MinimumJobPrice:          4500,
		MarkupPercent:            15,
		RidgeVentPerLF:           8.5,
		DripEdgePerLF:            2.25,
		IceWaterPerSquare:        45,
		SteepChargeFlat:          450,
		PermitFeeFlat:            250,
	}
}

func (c RateCard) fields() map[string]float64 {
	return map[string]float64{
		"labor_per_square":            c.LaborPerSquare,
		"shingles_per_square":         c.ShinglesPerSquare,
		"underlayment_per_square":     c.UnderlaymentPerSquare,
		"tearoff_disposal_per_square": c.TearoffDisposalPerSquare,
		"minimum_job_price":           c.MinimumJobPrice,
		"markup_percent":              c.MarkupPercent,
		"ridge_vent_per_lf":           c.RidgeVentPerLF,
		"drip_edge_per_lf":            c.DripEdgePerLF,
		"ice_water_per_square":        c.IceWaterPerSquare,
		"steep_charge_flat":           c.SteepChargeFlat,
		"permit_fee_flat":             c.PermitFeeFlat,
	}
}

// Validate enforces non-negative finite rates and the markup ceiling.
func (c RateCard) Validate() error {
	violations := map[string]string{}
	for name, v := range c.fields() {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			violations[name] = "must be a finite number"
		case v < 0:
			violations[name] = "must be >= 0"
		}
	}
	if _, bad := violations["markup_percent"]; !bad && c.MarkupPercent > MaxMarkupPercent {
		violations["markup_percent"] = "must be <= 500"
	}
	if len(violations) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid rate card").WithDetails(violations)
	}
	return nil
}

// IsZero reports whether every rate is zero, which happens mid-setup.
func (c RateCard) IsZero() bool {
	for _, v := range c.fields() {
		if v != 0 {
			return false
		}
	}
	return true
}
