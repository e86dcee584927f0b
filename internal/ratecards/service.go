package ratecards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

// MissingRatesMessage is shown when a quote is attempted before rates are saved.
const MissingRatesMessage = "No roofing rate card found. Set rates in Pricing → Roofing."

type rateCardsRepository interface {
	FindByContractor(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) (*models.RateCard, error)
	Upsert(ctx context.Context, card *models.RateCard) (*models.RateCard, error)
}

// Service exposes the settings view of rate cards and the strict pricing loader.
type Service interface {
	Get(ctx context.Context, contractorID uuid.UUID) (*View, error)
	Upsert(ctx context.Context, contractorID uuid.UUID, card pricing.RateCard) (*View, error)
	LoadForPricing(ctx context.Context, contractorID uuid.UUID) (pricing.RateCard, error)
}

// View is what the settings screen renders. Defaults are only shown, never priced.
type View struct {
	Trade     enums.Trade      `json:"trade"`
	RateCard  pricing.RateCard `json:"rate_card"`
	Exists    bool             `json:"exists"`
	IsZero    bool             `json:"is_zero"`
	UpdatedAt *time.Time       `json:"updated_at,omitempty"`
}

type service struct {
	repo  rateCardsRepository
	trade enums.Trade
}

func NewService(repo rateCardsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rate card repository required")
	}
	return &service{repo: repo, trade: enums.TradeRoofing}, nil
}

func (s *service) Get(ctx context.Context, contractorID uuid.UUID) (*View, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}

	row, err := s.repo.FindByContractor(ctx, contractorID, s.trade)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &View{Trade: s.trade, RateCard: pricing.DefaultRateCard()}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup rate card")
	}
	return toView(row), nil
}

func (s *service) Upsert(ctx context.Context, contractorID uuid.UUID, card pricing.RateCard) (*View, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	row := &models.RateCard{ContractorID: contractorID, Trade: s.trade}
	applyRates(row, card)

	saved, err := s.repo.Upsert(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rate card")
	}
	return toView(saved), nil
}

// LoadForPricing never falls back to defaults: a missing or invalid card blocks pricing.
func (s *service) LoadForPricing(ctx context.Context, contractorID uuid.UUID) (pricing.RateCard, error) {
	row, err := s.repo.FindByContractor(ctx, contractorID, s.trade)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.RateCard{}, pkgerrors.New(pkgerrors.CodeRatesMissing, MissingRatesMessage)
		}
		return pricing.RateCard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rate card")
	}

	card := ToPricing(*row)
	if err := card.Validate(); err != nil {
		details := map[string]any{"rate_card_id": row.ID.String()}
		if typed := pkgerrors.As(err); typed != nil {
			details["fields"] = typed.Details()
		}
		return pricing.RateCard{}, pkgerrors.Wrap(pkgerrors.CodeRatesMissing, err, MissingRatesMessage).WithDetails(details)
	}
	return card, nil
}

func toView(row *models.RateCard) *View {
	card := ToPricing(*row)
	updated := row.UpdatedAt
	return &View{
		Trade:     row.Trade,
		RateCard:  card,
		Exists:    true,
		IsZero:    card.IsZero(),
		UpdatedAt: &updated,
	}
}
