package pricing

import (
	"github.com/google/uuid"
	"github.com/leviwiederhold/forman/pkg/enums"
)

// Inputs describes the customer and the roof being quoted.
type Inputs struct {
	CustomerName    string             `json:"customer_name"`
	CustomerAddress *string            `json:"customer_address,omitempty"`
	RoofSizeValue   float64            `json:"roof_size_value"`
	RoofSizeUnit    enums.RoofSizeUnit `json:"roof_size_unit"`
	Pitch           string             `json:"pitch"`
	Stories         int                `json:"stories"`
	Tearoff         bool               `json:"tearoff"`
	Layers          *int               `json:"layers,omitempty"`
}

// Selections lists the optional line items chosen for a quote.
// TearoffSelected gates billing independently of Inputs.Tearoff.
type Selections struct {
	TearoffSelected bool `json:"tearoff_selected"`

	RidgeVentSelected bool     `json:"ridge_vent_selected"`
	RidgeVentLF       *float64 `json:"ridge_vent_lf,omitempty"`

	DripEdgeSelected bool     `json:"drip_edge_selected"`
	DripEdgeLF       *float64 `json:"drip_edge_lf,omitempty"`

	IceWaterSelected bool     `json:"ice_water_selected"`
	IceWaterSquares  *float64 `json:"ice_water_squares,omitempty"`

	SteepChargeSelected bool `json:"steep_charge_selected"`
	PermitFeeSelected   bool `json:"permit_fee_selected"`

	SelectedSavedCustomItemIDs []uuid.UUID   `json:"selected_saved_custom_item_ids"`
	OneTimeCustomItems         []OneTimeItem `json:"one_time_custom_items"`
}

// OneTimeItem is an ad-hoc custom line entered on a single quote.
type OneTimeItem struct {
	Name          string            `json:"name"`
	PricingType   enums.PricingType `json:"pricing_type"`
	UnitPrice     float64           `json:"unit_price"`
	Quantity      *float64          `json:"quantity,omitempty"`
	UnitLabel     *string           `json:"unit_label,omitempty"`
	Taxable       bool              `json:"taxable"`
	SaveToAccount bool              `json:"save_to_account"`
}

// SavedItem is a contractor's reusable custom item as seen by the engine.
type SavedItem struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	PricingType enums.PricingType `json:"pricing_type"`
	UnitLabel   *string           `json:"unit_label,omitempty"`
	UnitPrice   float64           `json:"unit_price"`
	Taxable     bool              `json:"taxable"`
}

type LineItem struct {
	Name      string                 `json:"name"`
	Category  enums.LineItemCategory `json:"category"`
	Quantity  float64                `json:"quantity"`
	Unit      string                 `json:"unit"`
	UnitPrice float64                `json:"unit_price"`
	Subtotal  float64                `json:"subtotal"`
	IsCustom  bool                   `json:"is_custom"`
}

// Result is the pricing snapshot persisted with a quote.
type Result struct {
	LineItems          []LineItem `json:"line_items"`
	Subtotal           float64    `json:"subtotal"`
	MarkupPercent      float64    `json:"markup_percent"`
	MarkupAmount       float64    `json:"markup_amount"`
	TotalBeforeMinimum float64    `json:"total_before_minimum"`
	Total              float64    `json:"total"`
	Squares            float64    `json:"squares"`
}

// MinimumApplied reports whether the total was raised to the minimum job price.
func (r Result) MinimumApplied() bool {
	for _, item := range r.LineItems {
		if item.Category == enums.LineItemCategoryAdjustment {
			return true
		}
	}
	return false
}

// CountByCategory returns how many line items fall in category.
func (r Result) CountByCategory(category enums.LineItemCategory) int {
	n := 0
	for _, item := range r.LineItems {
		if item.Category == category {
			n++
		}
	}
	return n
}
