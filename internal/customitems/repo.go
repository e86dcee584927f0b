package customitems

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwiederhold/forman/internal/repo"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
)

// Repository persists saved custom items.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, item *models.CustomItem) error {
	return r.CreateWithTx(r.DB(ctx), item)
}

// CreateWithTx inserts using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, item *models.CustomItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return tx.Create(item).Error
}

// List returns every item for the contractor, active first then newest first.
func (r *Repository) List(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) ([]models.CustomItem, error) {
	var rows []models.CustomItem
	err := r.Owned(ctx, contractorID).
		Where("trade = ?", trade).
		Order("is_active DESC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// ListActive returns the items offered when building a quote, oldest first.
func (r *Repository) ListActive(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) ([]models.CustomItem, error) {
	var rows []models.CustomItem
	err := r.Owned(ctx, contractorID).
		Where("trade = ? AND is_active = ?", trade, true).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.CustomItem, error) {
	var item models.CustomItem
	err := r.Owned(ctx, contractorID).
		Where("id = ?", id).
		Take(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) SetActive(ctx context.Context, contractorID, id uuid.UUID, active bool) error {
	res := r.Owned(ctx, contractorID).Model(&models.CustomItem{}).
		Where("id = ?", id).
		Update("is_active", active)
	return repo.RequireRow(res)
}

func (r *Repository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	res := r.Owned(ctx, contractorID).
		Where("id = ?", id).
		Delete(&models.CustomItem{})
	return repo.RequireRow(res)
}
