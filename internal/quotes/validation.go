package quotes

import (
	"fmt"
	"math"
	"strings"

	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

const minRoofSize = 0.01

// Validate applies the quote form rules ahead of pricing. Every violation is
// reported in the details map keyed by its field path.
func Validate(in pricing.Inputs, sel pricing.Selections) error {
	fields := map[string]string{}
	validateInputs(in, fields)
	validateSelections(sel, fields)
	if len(fields) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid quote").WithDetails(fields)
}

func validateInputs(in pricing.Inputs, fields map[string]string) {
	if strings.TrimSpace(in.CustomerName) == "" {
		fields["inputs.customer_name"] = "Customer name is required"
	}
	if !isFinite(in.RoofSizeValue) || in.RoofSizeValue < minRoofSize {
		fields["inputs.roof_size_value"] = "Roof size is required"
	}
	if !in.RoofSizeUnit.IsValid() {
		fields["inputs.roof_size_unit"] = "Roof size unit must be squares or sqft"
	}
	if strings.TrimSpace(in.Pitch) == "" {
		fields["inputs.pitch"] = "Pitch is required"
	}
	if in.Stories < 1 || in.Stories > 3 {
		fields["inputs.stories"] = "Stories must be 1, 2 or 3"
	}

	hasLayers := in.Layers != nil && *in.Layers != 0
	switch {
	case in.Tearoff && !hasLayers:
		fields["inputs.layers"] = "Layers is required when tear-off is selected"
	case !in.Tearoff && hasLayers:
		fields["inputs.layers"] = "Layers should be empty when tear-off is not selected"
	case hasLayers && (*in.Layers < 1 || *in.Layers > 3):
		fields["inputs.layers"] = "Layers must be 1, 2 or 3"
	}
}

func validateSelections(sel pricing.Selections, fields map[string]string) {
	if sel.RidgeVentSelected && !positive(sel.RidgeVentLF) {
		fields["selections.ridge_vent_lf"] = "LF required"
	}
	if sel.DripEdgeSelected && !positive(sel.DripEdgeLF) {
		fields["selections.drip_edge_lf"] = "LF required"
	}
	if sel.IceWaterSelected && !positive(sel.IceWaterSquares) {
		fields["selections.ice_water_squares"] = "Squares required"
	}

	for i, item := range sel.OneTimeCustomItems {
		prefix := fmt.Sprintf("selections.one_time_custom_items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			fields[prefix+".name"] = "Item name is required"
		}
		if !item.PricingType.IsValid() {
			fields[prefix+".pricing_type"] = "Pricing type must be flat or per_unit"
		}
		if !isFinite(item.UnitPrice) || item.UnitPrice < 0 {
			fields[prefix+".unit_price"] = "Unit price must be >= 0"
		}
		if item.PricingType != enums.PricingTypePerUnit {
			continue
		}
		if item.UnitLabel == nil || strings.TrimSpace(*item.UnitLabel) == "" {
			fields[prefix+".unit_label"] = "Unit label is required for per-unit items"
		}
		if !positive(item.Quantity) {
			fields[prefix+".quantity"] = "Quantity is required for per-unit items"
		}
	}
}

func positive(v *float64) bool {
	return v != nil && isFinite(*v) && *v > 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
