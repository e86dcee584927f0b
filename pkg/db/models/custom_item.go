package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leviwiederhold/forman/pkg/enums"
)

// CustomItem is a reusable line item saved to a contractor's account.
type CustomItem struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractorID uuid.UUID         `gorm:"column:contractor_id;type:uuid;not null"`
	Trade        enums.Trade       `gorm:"column:trade;not null"`
	Name         string            `gorm:"column:name;not null"`
	PricingType  enums.PricingType `gorm:"column:pricing_type;type:custom_item_pricing_type;not null"`
	UnitLabel    *string           `gorm:"column:unit_label"`
	UnitPrice    decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Taxable      bool              `gorm:"column:taxable;not null;default:false"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
