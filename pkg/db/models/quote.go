package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/leviwiederhold/forman/pkg/enums"
)

// Quote persists the inputs and the pricing snapshot taken at save time.
// The snapshot is never recomputed when the rate card changes.
type Quote struct {
	ID                      uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractorID            uuid.UUID         `gorm:"column:contractor_id;type:uuid;not null"`
	Trade                   enums.Trade       `gorm:"column:trade;not null"`
	Status                  enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:'draft'"`
	CustomerName            string            `gorm:"column:customer_name;not null"`
	CustomerAddress         *string           `gorm:"column:customer_address"`
	InputsJSON              datatypes.JSON    `gorm:"column:inputs_json;type:jsonb;not null"`
	SelectionsJSON          datatypes.JSON    `gorm:"column:selections_json;type:jsonb;not null"`
	LineItemsJSON           datatypes.JSON    `gorm:"column:line_items_json;type:jsonb;not null"`
	PricingJSON             datatypes.JSON    `gorm:"column:pricing_json;type:jsonb;not null"`
	Subtotal                decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Total                   decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Squares                 decimal.Decimal   `gorm:"column:squares;type:numeric(12,2);not null"`
	ShareToken              string            `gorm:"column:share_token;not null;unique"`
	ExpiresAt               *time.Time        `gorm:"column:expires_at"`
	SentAt                  *time.Time        `gorm:"column:sent_at"`
	AcceptedAt              *time.Time        `gorm:"column:accepted_at"`
	RejectedAt              *time.Time        `gorm:"column:rejected_at"`
	LowMarginAcknowledgedAt *time.Time        `gorm:"column:low_margin_acknowledged_at"`
	CreatedAt               time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
