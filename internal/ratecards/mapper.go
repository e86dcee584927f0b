package ratecards

import (
	"github.com/shopspring/decimal"

	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/db/models"
)

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// ToPricing converts the stored row into the engine's rate card.
func ToPricing(m models.RateCard) pricing.RateCard {
	return pricing.RateCard{
		LaborPerSquare:           m.LaborPerSquare.InexactFloat64(),
		ShinglesPerSquare:        m.ShinglesPerSquare.InexactFloat64(),
		UnderlaymentPerSquare:    m.UnderlaymentPerSquare.InexactFloat64(),
		TearoffDisposalPerSquare: m.TearoffDisposalPerSquare.InexactFloat64(),
		MinimumJobPrice:          m.MinimumJobPrice.InexactFloat64(),
		MarkupPercent:            m.MarkupPercent.InexactFloat64(),
		RidgeVentPerLF:           m.RidgeVentPerLF.InexactFloat64(),
		DripEdgePerLF:            m.DripEdgePerLF.InexactFloat64(),
		IceWaterPerSquare:        m.IceWaterPerSquare.InexactFloat64(),
		SteepChargeFlat:          m.SteepChargeFlat.InexactFloat64(),
		PermitFeeFlat:            m.PermitFeeFlat.InexactFloat64(),
	}
}

func applyRates(m *models.RateCard, card pricing.RateCard) {
	m.LaborPerSquare = money(card.LaborPerSquare)
	m.ShinglesPerSquare = money(card.ShinglesPerSquare)
	m.UnderlaymentPerSquare = money(card.UnderlaymentPerSquare)
	m.TearoffDisposalPerSquare = money(card.TearoffDisposalPerSquare)
	m.MinimumJobPrice = money(card.MinimumJobPrice)
	m.MarkupPercent = money(card.MarkupPercent)
	m.RidgeVentPerLF = money(card.RidgeVentPerLF)
	m.DripEdgePerLF = money(card.DripEdgePerLF)
	m.IceWaterPerSquare = money(card.IceWaterPerSquare)
	m.SteepChargeFlat = money(card.SteepChargeFlat)
	m.PermitFeeFlat = money(card.PermitFeeFlat)
}
