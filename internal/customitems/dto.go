package customitems

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
)

const (
	flatLabel        = "Flat"
	defaultUnitLabel = "Unit"
)

// CreateInput describes a new saved item.
type CreateInput struct {
	Name        string
	PricingType enums.PricingType
	UnitLabel   *string
	UnitPrice   float64
	Taxable     bool
}

type Item struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	PricingType enums.PricingType `json:"pricing_type"`
	UnitLabel   *string           `json:"unit_label"`
	UnitPrice   float64           `json:"unit_price"`
	Taxable     bool              `json:"taxable"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
}

func toItem(m models.CustomItem) Item {
	return Item{
		ID:          m.ID,
		Name:        m.Name,
		PricingType: m.PricingType,
		UnitLabel:   m.UnitLabel,
		UnitPrice:   m.UnitPrice.InexactFloat64(),
		Taxable:     m.Taxable,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

// ToSavedItem maps a stored row into the engine's saved item shape.
func ToSavedItem(m models.CustomItem) pricing.SavedItem {
	return pricing.SavedItem{
		ID:          m.ID,
		Name:        m.Name,
		PricingType: m.PricingType,
		UnitLabel:   m.UnitLabel,
		UnitPrice:   m.UnitPrice.InexactFloat64(),
		Taxable:     m.Taxable,
	}
}

// NewModel builds the row for a saved item. Flat items are labelled "Flat";
// per-unit items keep their trimmed label or fall back to "Unit".
func NewModel(contractorID uuid.UUID, trade enums.Trade, in CreateInput) *models.CustomItem {
	label := flatLabel
	if in.PricingType == enums.PricingTypePerUnit {
		label = defaultUnitLabel
		if in.UnitLabel != nil && strings.TrimSpace(*in.UnitLabel) != "" {
			label = strings.TrimSpace(*in.UnitLabel)
		}
	}
	return &models.CustomItem{
		ID:           uuid.New(),
		ContractorID: contractorID,
		Trade:        trade,
		Name:         strings.TrimSpace(in.Name),
		PricingType:  in.PricingType,
		UnitLabel:    &label,
		UnitPrice:    decimal.NewFromFloat(in.UnitPrice).Round(2),
		Taxable:      in.Taxable,
		IsActive:     true,
	}
}

// FromOneTime converts a quote's one-time item into a saved item input.
func FromOneTime(it pricing.OneTimeItem) CreateInput {
	return CreateInput{
		Name:        it.Name,
		PricingType: it.PricingType,
		UnitLabel:   it.UnitLabel,
		UnitPrice:   it.UnitPrice,
		Taxable:     it.Taxable,
	}
}
