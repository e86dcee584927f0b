package quotes

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/enums"
)

const guidanceSpread = 0.1

// Sample is a past quote used to derive historical price-per-square.
type Sample struct {
	Total      decimal.Decimal
	InputsJSON []byte
}

// Guidance summarizes what the contractor has charged per square before.
type Guidance struct {
	SampleCount          int      `json:"sample_count"`
	MedianPricePerSquare *float64 `json:"median_price_per_square"`
	RecommendedTotal     *float64 `json:"recommended_total"`
	LowerRangeTotal      *float64 `json:"lower_range_total"`
	UpperRangeTotal      *float64 `json:"upper_range_total"`
}

type sampleInputs struct {
	RoofSizeValue *float64 `json:"roof_size_value"`
	RoofSizeUnit  string   `json:"roof_size_unit"`
}

// BuildGuidance projects the median price per square of samples onto the
// current roof size, with a ±10% range.
func BuildGuidance(samples []Sample, roofSizeValue float64, unit enums.RoofSizeUnit) Guidance {
	points := make([]float64, 0, len(samples))
	for _, s := range samples {
		total := s.Total.InexactFloat64()
		squares := sampleSquares(s.InputsJSON)
		if total <= 0 || squares <= 0 {
			continue
		}
		if perSquare := total / squares; isFinite(perSquare) && perSquare > 0 {
			points = append(points, perSquare)
		}
	}

	out := Guidance{SampleCount: len(points)}
	current := roofSizeValue
	if unit == enums.RoofSizeUnitSqft {
		current = roofSizeValue / 100
	}
	m, ok := median(points)
	if !ok || !isFinite(current) || current <= 0 {
		return out
	}

	recommended := m * current
	lower := recommended * (1 - guidanceSpread)
	upper := recommended * (1 + guidanceSpread)
	out.MedianPricePerSquare = &m
	out.RecommendedTotal = &recommended
	out.LowerRangeTotal = &lower
	out.UpperRangeTotal = &upper
	return out
}

func sampleSquares(raw []byte) float64 {
	if len(raw) == 0 {
		return 0
	}
	var in sampleInputs
	if err := json.Unmarshal(raw, &in); err != nil || in.RoofSizeValue == nil {
		return 0
	}
	v := *in.RoofSizeValue
	if !isFinite(v) || v <= 0 {
		return 0
	}
	if in.RoofSizeUnit == string(enums.RoofSizeUnitSqft) {
		return v / 100
	}
	return v
}

func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

// roundedGuidance rounds every money figure to cents for display.
func roundedGuidance(g Guidance) Guidance {
	round := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		r := pricing.Round2(*v)
		return &r
	}
	return Guidance{
		SampleCount:          g.SampleCount,
		MedianPricePerSquare: round(g.MedianPricePerSquare),
		RecommendedTotal:     round(g.RecommendedTotal),
		LowerRangeTotal:      round(g.LowerRangeTotal),
		UpperRangeTotal:      round(g.UpperRangeTotal),
	}
}
