package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Profile holds per-contractor quoting preferences and billing state.
type Profile struct {
	ContractorID       uuid.UUID       `gorm:"column:contractor_id;type:uuid;primaryKey"`
	BusinessName       *string         `gorm:"column:business_name"`
	DepositPercent     decimal.Decimal `gorm:"column:deposit_percent;type:numeric(5,2);not null;default:0"`
	QuoteDefaultsJSON  datatypes.JSON  `gorm:"column:quote_defaults_json;type:jsonb"`
	TrialStartedAt     *time.Time      `gorm:"column:trial_started_at"`
	SubscriptionActive bool            `gorm:"column:subscription_active;not null;default:false"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
