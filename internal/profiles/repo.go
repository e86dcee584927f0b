package profiles

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwiederhold/forman/internal/repo"
	"github.com/leviwiederhold/forman/pkg/db/models"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Find(ctx context.Context, contractorID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.Owned(ctx, contractorID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindOrCreate returns the contractor's profile, inserting an empty one on first use.
func (r *Repository) FindOrCreate(ctx context.Context, contractorID uuid.UUID) (*models.Profile, error) {
	profile := models.Profile{ContractorID: contractorID}
	err := r.Owned(ctx, contractorID).
		Attrs(models.Profile{ContractorID: contractorID}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) UpdateFields(ctx context.Context, contractorID uuid.UUID, fields map[string]any) error {
	res := r.Owned(ctx, contractorID).Model(&models.Profile{}).Updates(fields)
	return repo.RequireRow(res)
}

// StartTrial stamps trial_started_at once. Concurrent callers keep the first value.
func (r *Repository) StartTrial(ctx context.Context, contractorID uuid.UUID, at time.Time) error {
	return r.Owned(ctx, contractorID).Model(&models.Profile{}).
		Where("trial_started_at IS NULL").
		Update("trial_started_at", at).Error
}
