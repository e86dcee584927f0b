package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leviwiederhold/forman/internal/quotes"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

const (
	dashboardDays      = 30
	recentQuoteLimit   = 5
	defaultMarginFloor = 25
)

type quoteReader interface {
	ListCreatedSince(ctx context.Context, contractorID uuid.UUID, since time.Time) ([]models.Quote, error)
	ListRecent(ctx context.Context, contractorID uuid.UUID, limit int) ([]models.Quote, error)
}

type rateCardChecker interface {
	Exists(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) (bool, error)
}

type Service interface {
	Dashboard(ctx context.Context, contractorID uuid.UUID) (*Dashboard, error)
	Summary(ctx context.Context, contractorID uuid.UUID, days int) (*SummaryReport, error)
}

type Dashboard struct {
	Summary      Summary        `json:"summary"`
	MarginTarget float64        `json:"margin_target"`
	LowMargin    []QuoteSummary `json:"low_margin_quotes"`
	RecentQuotes []QuoteSummary `json:"recent_quotes"`
	Checklist    Checklist      `json:"checklist"`
}

type QuoteSummary struct {
	ID           uuid.UUID         `json:"id"`
	CustomerName string            `json:"customer_name"`
	Status       enums.QuoteStatus `json:"status"`
	Total        float64           `json:"total"`
	MarginPct    float64           `json:"margin_pct"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Checklist tracks the onboarding steps shown until the contractor quotes.
type Checklist struct {
	RateCardSaved bool `json:"rate_card_saved"`
	HasQuote      bool `json:"has_quote"`
	Complete      bool `json:"complete"`
}

type SummaryReport struct {
	Summary Summary      `json:"summary"`
	Daily   []DailyPoint `json:"daily"`
}

type service struct {
	quotes       quoteReader
	rateCards    rateCardChecker
	marginTarget float64
	now          func() time.Time
}

func NewService(quotes quoteReader, rateCards rateCardChecker, marginTarget float64) (Service, error) {
	if quotes == nil {
		return nil, fmt.Errorf("quote reader required")
	}
	if rateCards == nil {
		return nil, fmt.Errorf("rate card checker required")
	}
	if marginTarget <= 0 {
		marginTarget = defaultMarginFloor
	}
	return &service{quotes: quotes, rateCards: rateCards, marginTarget: marginTarget, now: time.Now}, nil
}

func (s *service) Dashboard(ctx context.Context, contractorID uuid.UUID) (*Dashboard, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}

	rows, err := s.quotes.ListCreatedSince(ctx, contractorID, s.now().AddDate(0, 0, -dashboardDays))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard quotes")
	}
	recent, err := s.quotes.ListRecent(ctx, contractorID, recentQuoteLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent quotes")
	}
	hasRates, err := s.rateCards.Exists(ctx, contractorID, enums.TradeRoofing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check rate card")
	}

	out := &Dashboard{
		Summary:      summarize(rows, dashboardDays),
		MarginTarget: s.marginTarget,
		LowMargin:    []QuoteSummary{},
		RecentQuotes: make([]QuoteSummary, 0, len(recent)),
		Checklist: Checklist{
			RateCardSaved: hasRates,
			HasQuote:      len(recent) > 0,
		},
	}
	out.Checklist.Complete = out.Checklist.RateCardSaved && out.Checklist.HasQuote

	for _, row := range rows {
		if item := toQuoteSummary(row); item.MarginPct < s.marginTarget {
			out.LowMargin = append(out.LowMargin, item)
		}
	}
	for _, row := range recent {
		out.RecentQuotes = append(out.RecentQuotes, toQuoteSummary(row))
	}
	return out, nil
}

func (s *service) Summary(ctx context.Context, contractorID uuid.UUID, days int) (*SummaryReport, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	if days != 30 && days != 90 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "days must be 30 or 90")
	}

	now := s.now()
	rows, err := s.quotes.ListCreatedSince(ctx, contractorID, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load report quotes")
	}
	return &SummaryReport{
		Summary: summarize(rows, days),
		Daily:   dailySeries(rows, days, now),
	}, nil
}

func toQuoteSummary(row models.Quote) QuoteSummary {
	return QuoteSummary{
		ID:           row.ID,
		CustomerName: row.CustomerName,
		Status:       row.Status,
		Total:        row.Total.InexactFloat64(),
		MarginPct:    quotes.MarginOf(row).MarginPct,
		CreatedAt:    row.CreatedAt,
	}
}
