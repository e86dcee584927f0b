package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/leviwiederhold/forman/pkg/db/models"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

const defaultTrialPeriod = 7 * 24 * time.Hour

type profilesRepository interface {
	Find(ctx context.Context, contractorID uuid.UUID) (*models.Profile, error)
	FindOrCreate(ctx context.Context, contractorID uuid.UUID) (*models.Profile, error)
	UpdateFields(ctx context.Context, contractorID uuid.UUID, fields map[string]any) error
	StartTrial(ctx context.Context, contractorID uuid.UUID, at time.Time) error
}

// Service manages contractor preferences and quote entitlements.
type Service interface {
	DepositPercent(ctx context.Context, contractorID uuid.UUID) (decimal.Decimal, error)
	SetDepositPercent(ctx context.Context, contractorID uuid.UUID, percent float64) (decimal.Decimal, error)
	QuoteDefaults(ctx context.Context, contractorID uuid.UUID) (*QuoteDefaults, error)
	SetQuoteDefaults(ctx context.Context, contractorID uuid.UUID, raw map[string]any) (*QuoteDefaults, error)
	Entitlements(ctx context.Context, contractorID uuid.UUID) (*Entitlements, error)
	CanCreateQuotes(ctx context.Context, contractorID uuid.UUID) (bool, error)
}

type service struct {
	repo  profilesRepository
	trial time.Duration
	now   func() time.Time
}

func NewService(repo profilesRepository, trial time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if trial <= 0 {
		trial = defaultTrialPeriod
	}
	return &service{repo: repo, trial: trial, now: time.Now}, nil
}

// DepositPercent reads without creating a profile; missing profiles owe no deposit.
func (s *service) DepositPercent(ctx context.Context, contractorID uuid.UUID) (decimal.Decimal, error) {
	profile, err := s.repo.Find(ctx, contractorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup profile")
	}
	return profile.DepositPercent, nil
}

func (s *service) SetDepositPercent(ctx context.Context, contractorID uuid.UUID, percent float64) (decimal.Decimal, error) {
	if math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0 || percent > 100 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "Invalid deposit percent").
			WithDetails(map[string]string{"deposit_percent": "must be between 0 and 100"})
	}
	if _, err := s.ensure(ctx, contractorID); err != nil {
		return decimal.Zero, err
	}
	value := decimal.NewFromFloat(percent).Round(2)
	if err := s.repo.UpdateFields(ctx, contractorID, map[string]any{"deposit_percent": value}); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save deposit percent")
	}
	return value, nil
}

// QuoteDefaults returns nil when the contractor never saved defaults.
func (s *service) QuoteDefaults(ctx context.Context, contractorID uuid.UUID) (*QuoteDefaults, error) {
	profile, err := s.repo.Find(ctx, contractorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup profile")
	}
	if len(profile.QuoteDefaultsJSON) == 0 {
		return nil, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(profile.QuoteDefaultsJSON, &raw); err != nil {
		return nil, nil
	}
	defaults := SanitizeDefaults(raw)
	return &defaults, nil
}

func (s *service) SetQuoteDefaults(ctx context.Context, contractorID uuid.UUID, raw map[string]any) (*QuoteDefaults, error) {
	defaults := SanitizeDefaults(raw)
	encoded, err := json.Marshal(defaults)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode quote defaults")
	}
	if _, err := s.ensure(ctx, contractorID); err != nil {
		return nil, err
	}
	fields := map[string]any{"quote_defaults_json": datatypes.JSON(encoded)}
	if err := s.repo.UpdateFields(ctx, contractorID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save quote defaults")
	}
	return &defaults, nil
}

// Entitlements starts the trial on first check.
func (s *service) Entitlements(ctx context.Context, contractorID uuid.UUID) (*Entitlements, error) {
	profile, err := s.ensure(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if profile.TrialStartedAt == nil {
		if err := s.repo.StartTrial(ctx, contractorID, s.now().UTC()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start trial")
		}
		profile, err = s.repo.Find(ctx, contractorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile")
		}
	}
	out := evaluate(profile.TrialStartedAt, profile.SubscriptionActive, s.trial, s.now())
	return &out, nil
}

func (s *service) CanCreateQuotes(ctx context.Context, contractorID uuid.UUID) (bool, error) {
	ent, err := s.Entitlements(ctx, contractorID)
	if err != nil {
		return false, err
	}
	return ent.CanCreateQuotes, nil
}

func (s *service) ensure(ctx context.Context, contractorID uuid.UUID) (*models.Profile, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	profile, err := s.repo.FindOrCreate(ctx, contractorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}
