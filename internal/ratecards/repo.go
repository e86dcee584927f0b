package ratecards

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leviwiederhold/forman/internal/repo"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
)

var rateColumns = []string{
	"labor_per_square",
	"shingles_per_square",
	"underlayment_per_square",
	"tearoff_disposal_per_square",
	"minimum_job_price",
	"markup_percent",
	"ridge_vent_per_lf",
	"drip_edge_per_lf",
	"ice_water_per_square",
	"steep_charge_flat",
	"permit_fee_flat",
	"updated_at",
}

// Repository persists rate cards keyed by contractor and trade.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindByContractor returns gorm.ErrRecordNotFound when no card was saved yet.
func (r *Repository) FindByContractor(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) (*models.RateCard, error) {
	var card models.RateCard
	err := r.Owned(ctx, contractorID).
		Where("trade = ?", trade).
		Take(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Upsert inserts or overwrites the rates for (contractor_id, trade).
func (r *Repository) Upsert(ctx context.Context, card *models.RateCard) (*models.RateCard, error) {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contractor_id"}, {Name: "trade"}},
		DoUpdates: clause.AssignmentColumns(rateColumns),
	}).Create(card).Error
	if err != nil {
		return nil, err
	}
	return r.FindByContractor(ctx, card.ContractorID, card.Trade)
}

// Exists reports whether the contractor saved any rate card for trade.
func (r *Repository) Exists(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) (bool, error) {
	var count int64
	err := r.Owned(ctx, contractorID).Model(&models.RateCard{}).
		Where("trade = ?", trade).
		Count(&count).Error
	return count > 0, err
}
