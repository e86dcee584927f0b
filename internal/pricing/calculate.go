package pricing

import (
	"github.com/google/uuid"
	"github.com/leviwiederhold/forman/pkg/enums"
)

const (
	unitSquare     = "sq"
	unitLinearFoot = "LF"
	unitEach       = "each"
	unitDefault    = "unit"

	AdjustmentName = "Minimum job price adjustment"
)

func lineItem(name string, category enums.LineItemCategory, qty float64, unit string, unitPrice float64, custom bool) LineItem {
	qty = finite(qty)
	unitPrice = finite(unitPrice)
	return LineItem{
		Name:      name,
		Category:  category,
		Quantity:  qty,
		Unit:      unit,
		UnitPrice: unitPrice,
		Subtotal:  Round2(qty * unitPrice),
		IsCustom:  custom,
	}
}

// Calculate prices a roofing quote. It is pure: the same arguments always
// produce the same Result, and a zero-valued rate card is accepted.
func Calculate(inputs Inputs, selections Selections, card RateCard, saved []SavedItem) Result {
	squares := Round2(NormalizeSquares(inputs.RoofSizeValue, inputs.RoofSizeUnit))

	items := []LineItem{
		lineItem("Labor", enums.LineItemCategoryCore, squares, unitSquare, card.LaborPerSquare, false),
		lineItem("Shingles", enums.LineItemCategoryCore, squares, unitSquare, card.ShinglesPerSquare, false),
		lineItem("Underlayment", enums.LineItemCategoryCore, squares, unitSquare, card.UnderlaymentPerSquare, false),
	}

	// both flags must be set: tearoff records the roof, tearoff_selected bills it
	if inputs.Tearoff && selections.TearoffSelected {
		items = append(items, lineItem("Tear-off & disposal", enums.LineItemCategoryTearoff, squares, unitSquare, card.TearoffDisposalPerSquare, false))
	}

	if selections.RidgeVentSelected {
		items = append(items, lineItem("Ridge vent", enums.LineItemCategoryOptional, finitePtr(selections.RidgeVentLF), unitLinearFoot, card.RidgeVentPerLF, false))
	}
	if selections.DripEdgeSelected {
		items = append(items, lineItem("Drip edge", enums.LineItemCategoryOptional, finitePtr(selections.DripEdgeLF), unitLinearFoot, card.DripEdgePerLF, false))
	}
	if selections.IceWaterSelected {
		items = append(items, lineItem("Ice & water shield", enums.LineItemCategoryOptional, finitePtr(selections.IceWaterSquares), unitSquare, card.IceWaterPerSquare, false))
	}
	if selections.SteepChargeSelected {
		items = append(items, lineItem("Steep charge (flat)", enums.LineItemCategoryOptional, 1, unitEach, card.SteepChargeFlat, false))
	}
	if selections.PermitFeeSelected {
		items = append(items, lineItem("Permit fee (flat)", enums.LineItemCategoryOptional, 1, unitEach, card.PermitFeeFlat, false))
	}

	items = append(items, savedItemLines(selections.SelectedSavedCustomItemIDs, saved)...)

	for _, it := range selections.OneTimeCustomItems {
		qty := 1.0
		unit := unitEach
		if it.PricingType == enums.PricingTypePerUnit {
			qty = finitePtr(it.Quantity)
			unit = labelOr(it.UnitLabel, unitDefault)
		}
		items = append(items, lineItem(it.Name, enums.LineItemCategoryCustom, qty, unit, it.UnitPrice, true))
	}

	var sum float64
	for _, item := range items {
		sum += item.Subtotal
	}
	subtotal := Round2(sum)
	markupPercent := finite(card.MarkupPercent)
	markupAmount := Round2(subtotal * (markupPercent / 100))
	totalBeforeMinimum := Round2(subtotal + markupAmount)

	minimum := finite(card.MinimumJobPrice)
	total := totalBeforeMinimum
	if minimum > totalBeforeMinimum {
		diff := Round2(minimum - totalBeforeMinimum)
		items = append(items, LineItem{
			Name:      AdjustmentName,
			Category:  enums.LineItemCategoryAdjustment,
			Quantity:  1,
			Unit:      unitEach,
			UnitPrice: diff,
			Subtotal:  diff,
		})
		total = minimum
	}

	return Result{
		LineItems:          items,
		Subtotal:           subtotal,
		MarkupPercent:      markupPercent,
		MarkupAmount:       markupAmount,
		TotalBeforeMinimum: totalBeforeMinimum,
		Total:              Round2(total),
		Squares:            squares,
	}
}

// savedItemLines keeps the order of saved, not of ids. Per-unit saved items
// are priced at quantity 1 because there is no quantity override for them.
func savedItemLines(ids []uuid.UUID, saved []SavedItem) []LineItem {
	if len(ids) == 0 || len(saved) == 0 {
		return nil
	}
	selected := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}

	var out []LineItem
	for _, it := range saved {
		if _, ok := selected[it.ID]; !ok {
			continue
		}
		unit := unitEach
		if it.PricingType == enums.PricingTypePerUnit {
			unit = labelOr(it.UnitLabel, unitDefault)
		}
		out = append(out, lineItem(it.Name, enums.LineItemCategoryCustom, 1, unit, it.UnitPrice, true))
	}
	return out
}

// labelOr treats a blank label the same as a missing one so line items
// never render with an empty unit.
func labelOr(label *string, fallback string) string {
	if label == nil || *label == "" {
		return fallback
	}
	return *label
}
