package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leviwiederhold/forman/pkg/enums"
)

// RateCard stores one contractor's rates for a trade.
type RateCard struct {
	ID                       uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractorID             uuid.UUID       `gorm:"column:contractor_id;type:uuid;not null"`
	Trade                    enums.Trade     `gorm:"column:trade;not null"`
	LaborPerSquare           decimal.Decimal `gorm:"column:labor_per_square;type:numeric(12,2);not null"`
	ShinglesPerSquare        decimal.Decimal `gorm:"column:shingles_per_square;type:numeric(12,2);not null"`
	UnderlaymentPerSquare    decimal.Decimal `gorm:"column:underlayment_per_square;type:numeric(12,2);not null"`
	TearoffDisposalPerSquare decimal.Decimal `gorm:"column:tearoff_disposal_per_square;type:numeric(12,2);not null"`
	MinimumJobPrice          decimal.Decimal `gorm:"column:minimum_job_price;type:numeric(12,2);not null"`
	MarkupPercent            decimal.Decimal `gorm:"column:markup_percent;type:numeric(6,2);not null"`
	RidgeVentPerLF           decimal.Decimal `gorm:"column:ridge_vent_per_lf;type:numeric(12,2);not null"`
	DripEdgePerLF            decimal.Decimal `gorm:"column:drip_edge_per_lf;type:numeric(12,2);not null"`
	IceWaterPerSquare        decimal.Decimal `gorm:"column:ice_water_per_square;type:numeric(12,2);not null"`
	SteepChargeFlat          decimal.Decimal `gorm:"column:steep_charge_flat;type:numeric(12,2);not null"`
	PermitFeeFlat            decimal.Decimal `gorm:"column:permit_fee_flat;type:numeric(12,2);not null"`
	CreatedAt                time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
