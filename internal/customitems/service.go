package customitems

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

type customItemsRepository interface {
	Create(ctx context.Context, item *models.CustomItem) error
	List(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) ([]models.CustomItem, error)
	ListActive(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) ([]models.CustomItem, error)
	FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.CustomItem, error)
	SetActive(ctx context.Context, contractorID, id uuid.UUID, active bool) error
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
}

// Service manages a contractor's saved custom items.
type Service interface {
	List(ctx context.Context, contractorID uuid.UUID) ([]Item, error)
	Create(ctx context.Context, contractorID uuid.UUID, input CreateInput) (*Item, error)
	SetActive(ctx context.Context, contractorID, itemID uuid.UUID, active bool) (*Item, error)
	Delete(ctx context.Context, contractorID, itemID uuid.UUID) error
	ListForPricing(ctx context.Context, contractorID uuid.UUID) ([]pricing.SavedItem, error)
}

type service struct {
	repo  customItemsRepository
	trade enums.Trade
}

func NewService(repo customItemsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("custom item repository required")
	}
	return &service{repo: repo, trade: enums.TradeRoofing}, nil
}

func (s *service) List(ctx context.Context, contractorID uuid.UUID) ([]Item, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	rows, err := s.repo.List(ctx, contractorID, s.trade)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custom items")
	}
	items := make([]Item, len(rows))
	for i, row := range rows {
		items[i] = toItem(row)
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, contractorID uuid.UUID, input CreateInput) (*Item, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	row := NewModel(contractorID, s.trade, input)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create custom item")
	}
	item := toItem(*row)
	return &item, nil
}

func (s *service) SetActive(ctx context.Context, contractorID, itemID uuid.UUID, active bool) (*Item, error) {
	if err := s.repo.SetActive(ctx, contractorID, itemID, active); err != nil {
		return nil, notFoundOr(err, "update custom item")
	}
	row, err := s.repo.FindByID(ctx, contractorID, itemID)
	if err != nil {
		return nil, notFoundOr(err, "lookup custom item")
	}
	item := toItem(*row)
	return &item, nil
}

func (s *service) Delete(ctx context.Context, contractorID, itemID uuid.UUID) error {
	if err := s.repo.Delete(ctx, contractorID, itemID); err != nil {
		return notFoundOr(err, "delete custom item")
	}
	return nil
}

func (s *service) ListForPricing(ctx context.Context, contractorID uuid.UUID) ([]pricing.SavedItem, error) {
	rows, err := s.repo.ListActive(ctx, contractorID, s.trade)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load saved custom items")
	}
	items := make([]pricing.SavedItem, len(rows))
	for i, row := range rows {
		items[i] = ToSavedItem(row)
	}
	return items, nil
}

// ValidateInput checks a saved item before it is stored.
func ValidateInput(input CreateInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "Name is required"
	}
	if !input.PricingType.IsValid() {
		fields["pricing_type"] = "must be flat or per_unit"
	}
	if math.IsNaN(input.UnitPrice) || math.IsInf(input.UnitPrice, 0) || input.UnitPrice < 0 {
		fields["unit_price"] = "must be >= 0"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid custom item").WithDetails(fields)
	}
	return nil
}

func notFoundOr(err error, step string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "custom item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}
