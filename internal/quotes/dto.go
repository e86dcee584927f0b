package quotes

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgpagination "github.com/leviwiederhold/forman/pkg/pagination"
)

// QuoteInput is the body of create, preview and update requests.
type QuoteInput struct {
	Inputs     pricing.Inputs     `json:"inputs"`
	Selections pricing.Selections `json:"selections"`
}

// Quote is the contractor-facing view of a stored quote.
type Quote struct {
	ID                      uuid.UUID               `json:"id"`
	Trade                   enums.Trade             `json:"trade"`
	Status                  enums.QuoteStatus       `json:"status"`
	CustomerName            string                  `json:"customer_name"`
	CustomerAddress         *string                 `json:"customer_address"`
	Inputs                  pricing.Inputs          `json:"inputs"`
	Selections              pricing.Selections      `json:"selections"`
	Pricing                 pricing.Result          `json:"pricing"`
	Margin                  pricing.EffectiveMargin `json:"margin"`
	IsLowMargin             bool                    `json:"is_low_margin"`
	ShareToken              string                  `json:"share_token"`
	Expiration              Expiration              `json:"expiration"`
	SentAt                  *time.Time              `json:"sent_at"`
	AcceptedAt              *time.Time              `json:"accepted_at"`
	RejectedAt              *time.Time              `json:"rejected_at"`
	LowMarginAcknowledgedAt *time.Time              `json:"low_margin_acknowledged_at"`
	CreatedAt               time.Time               `json:"created_at"`
	UpdatedAt               time.Time               `json:"updated_at"`
}

// Preview is a priced quote that was not saved.
type Preview struct {
	Pricing     pricing.Result          `json:"pricing"`
	Margin      pricing.EffectiveMargin `json:"margin"`
	IsLowMargin bool                    `json:"is_low_margin"`
}

type ListParams struct {
	ContractorID uuid.UUID
	Status       *enums.QuoteStatus
	pkgpagination.Params
}

type ListResult struct {
	Items  []ListItem `json:"items"`
	Cursor string     `json:"cursor"`
}

type ListItem struct {
	ID           uuid.UUID         `json:"id"`
	CustomerName string            `json:"customer_name"`
	Status       enums.QuoteStatus `json:"status"`
	Total        float64           `json:"total"`
	MarginPct    float64           `json:"margin_pct"`
	IsLowMargin  bool              `json:"is_low_margin"`
	Expiration   Expiration        `json:"expiration"`
	CreatedAt    time.Time         `json:"created_at"`
}

type listQuery struct {
	contractorID uuid.UUID
	status       *enums.QuoteStatus
	limit        int
	cursor       *pkgpagination.Cursor
}

// ShareLink is returned when a contractor shares a quote.
type ShareLink struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// SharedQuote is what the customer sees on the public share page.
type SharedQuote struct {
	ID              uuid.UUID          `json:"id"`
	Trade           enums.Trade        `json:"trade"`
	Status          enums.QuoteStatus  `json:"status"`
	CustomerName    string             `json:"customer_name"`
	CustomerAddress *string            `json:"customer_address"`
	LineItems       []pricing.LineItem `json:"line_items"`
	Subtotal        float64            `json:"subtotal"`
	Total           float64            `json:"total"`
	Expiration      Expiration         `json:"expiration"`
	DepositPercent  float64            `json:"deposit_percent"`
	DepositCents    int64              `json:"deposit_cents"`
	AcceptedAt      *time.Time         `json:"accepted_at"`
	RejectedAt      *time.Time         `json:"rejected_at"`
	CreatedAt       time.Time          `json:"created_at"`
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func marshalJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// decodeSnapshot reads a stored snapshot. Rows written by older clients may
// miss fields; those decode as zero values. Undecodable columns are logged
// and left at their zero value.
func (s *service) decodeSnapshot(ctx context.Context, quoteID uuid.UUID, column string, raw datatypes.JSON, dst any) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"quote_id": quoteID.String(),
			"column":   column,
			"error":    err.Error(),
		})
		s.logg.Warn(logCtx, "quote.snapshot_corrupt")
	}
}

// MarginOf reads the effective margin from a stored quote, falling back to
// the persisted totals for rows saved without a snapshot.
func MarginOf(m models.Quote) pricing.EffectiveMargin {
	if len(m.PricingJSON) == 0 {
		return pricing.CalculateEffectiveMargin(map[string]any{
			"subtotal": m.Subtotal.InexactFloat64(),
			"total":    m.Total.InexactFloat64(),
		})
	}
	return pricing.CalculateEffectiveMargin([]byte(m.PricingJSON))
}

func (s *service) toQuote(ctx context.Context, m models.Quote, now time.Time) Quote {
	q := Quote{
		ID:                      m.ID,
		Trade:                   m.Trade,
		Status:                  m.Status,
		CustomerName:            m.CustomerName,
		CustomerAddress:         m.CustomerAddress,
		ShareToken:              m.ShareToken,
		Expiration:              ExpirationStatus(m.ExpiresAt, now, s.opts.ExpiringSoon),
		SentAt:                  m.SentAt,
		AcceptedAt:              m.AcceptedAt,
		RejectedAt:              m.RejectedAt,
		LowMarginAcknowledgedAt: m.LowMarginAcknowledgedAt,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	s.decodeSnapshot(ctx, m.ID, "inputs_json", m.InputsJSON, &q.Inputs)
	s.decodeSnapshot(ctx, m.ID, "selections_json", m.SelectionsJSON, &q.Selections)
	s.decodeSnapshot(ctx, m.ID, "pricing_json", m.PricingJSON, &q.Pricing)
	if len(q.Pricing.LineItems) == 0 {
		s.decodeSnapshot(ctx, m.ID, "line_items_json", m.LineItemsJSON, &q.Pricing.LineItems)
	}
	q.Margin = MarginOf(m)
	q.IsLowMargin = pricing.IsLowMargin(q.Margin.MarginPct, s.opts.LowMarginTarget)
	return q
}

func (s *service) toListItem(m models.Quote, now time.Time) ListItem {
	margin := MarginOf(m)
	return ListItem{
		ID:           m.ID,
		CustomerName: m.CustomerName,
		Status:       m.Status,
		Total:        m.Total.InexactFloat64(),
		MarginPct:    margin.MarginPct,
		IsLowMargin:  pricing.IsLowMargin(margin.MarginPct, s.opts.LowMarginTarget),
		Expiration:   ExpirationStatus(m.ExpiresAt, now, s.opts.ExpiringSoon),
		CreatedAt:    m.CreatedAt,
	}
}

func (s *service) toShared(ctx context.Context, m models.Quote, depositPercent decimal.Decimal, now time.Time) SharedQuote {
	out := SharedQuote{
		ID:              m.ID,
		Trade:           m.Trade,
		Status:          m.Status,
		CustomerName:    m.CustomerName,
		CustomerAddress: m.CustomerAddress,
		Subtotal:        m.Subtotal.InexactFloat64(),
		Total:           m.Total.InexactFloat64(),
		Expiration:      ExpirationStatus(m.ExpiresAt, now, s.opts.ExpiringSoon),
		DepositPercent:  depositPercent.InexactFloat64(),
		DepositCents:    DepositCents(m.Total, depositPercent),
		AcceptedAt:      m.AcceptedAt,
		RejectedAt:      m.RejectedAt,
		CreatedAt:       m.CreatedAt,
	}
	s.decodeSnapshot(ctx, m.ID, "line_items_json", m.LineItemsJSON, &out.LineItems)
	if out.LineItems == nil {
		out.LineItems = []pricing.LineItem{}
	}
	return out
}
