package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/leviwiederhold/forman/internal/repo"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
)

// ShareTokenConstraint is the unique constraint guarding share tokens.
const ShareTokenConstraint = "quotes_share_token_key"

// Repository persists quotes. Every contractor-facing query is scoped by contractor_id.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) CreateWithTx(tx *gorm.DB, quote *models.Quote) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	return tx.Create(quote).Error
}

// List returns contractor quotes newest first using cursor pagination.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Quote, error) {
	query := r.Owned(ctx, opts.contractorID).Model(&models.Quote{})
	if opts.status != nil {
		query = query.Where("status = ?", *opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	var rows []models.Quote
	err := query.Order("created_at DESC").Order("id DESC").Limit(opts.limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.Owned(ctx, contractorID).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// FindByShareToken is the only unscoped lookup; the token is the credential.
func (r *Repository) FindByShareToken(ctx context.Context, token string) (*models.Quote, error) {
	var quote models.Quote
	if err := r.DB(ctx).Where("share_token = ?", token).First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

// UpdateFields applies a partial update and reports gorm.ErrRecordNotFound when no row matched.
func (r *Repository) UpdateFields(ctx context.Context, contractorID, id uuid.UUID, fields map[string]any) error {
	res := r.Owned(ctx, contractorID).Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(fields)
	return repo.RequireRow(res)
}

func (r *Repository) Delete(ctx context.Context, contractorID, id uuid.UUID) error {
	res := r.Owned(ctx, contractorID).
		Where("id = ?", id).
		Delete(&models.Quote{})
	return repo.RequireRow(res)
}

// ListSamples returns the most recent priced quotes for historical guidance.
func (r *Repository) ListSamples(ctx context.Context, contractorID uuid.UUID, limit int) ([]models.Quote, error) {
	var rows []models.Quote
	err := r.Owned(ctx, contractorID).
		Select("id", "total", "inputs_json", "created_at").
		Where("total > 0").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCreatedSince returns every quote created at or after since, oldest first.
func (r *Repository) ListCreatedSince(ctx context.Context, contractorID uuid.UUID, since time.Time) ([]models.Quote, error) {
	var rows []models.Quote
	err := r.Owned(ctx, contractorID).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) ListRecent(ctx context.Context, contractorID uuid.UUID, limit int) ([]models.Quote, error) {
	var rows []models.Quote
	err := r.Owned(ctx, contractorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListExpiredSentWithTx locks sent quotes whose expiry has passed.
func (r *Repository) ListExpiredSentWithTx(tx *gorm.DB, now time.Time, limit int) ([]models.Quote, error) {
	var rows []models.Quote
	query := tx.
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", enums.QuoteStatusSent, now).
		Order("expires_at ASC").
		Limit(limit)
	if tx.Dialector != nil && tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkExpiredWithTx moves a quote to expired unless the customer answered first.
func (r *Repository) MarkExpiredWithTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&models.Quote{}).
		Where("id = ? AND status = ?", id, enums.QuoteStatusSent).
		Update("status", enums.QuoteStatusExpired)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
