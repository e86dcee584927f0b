package quotes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/leviwiederhold/forman/internal/customitems"
	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/pkg/config"
	pkgdb "github.com/leviwiederhold/forman/pkg/db"
	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
	"github.com/leviwiederhold/forman/pkg/metrics"
	pkgpagination "github.com/leviwiederhold/forman/pkg/pagination"
)

const (
	trialEndedMessage   = "Trial ended. Subscribe to continue."
	verifyEmailMessage  = "Verify your email to continue."
	lowMarginMessage    = "Margin is below target. Acknowledge the low margin before sharing."
	acceptedLockMessage = "Accepted quotes can no longer be edited."
	expiredQuoteMessage = "This quote has expired. Contact your contractor for updated pricing."
	unavailableMessage  = "Quote unavailable"
	shareTokenAttempts  = 3
	defaultSampleLimit  = 100
)

type quotesRepository interface {
	CreateWithTx(tx *gorm.DB, quote *models.Quote) error
	List(ctx context.Context, opts listQuery) ([]models.Quote, error)
	FindByID(ctx context.Context, contractorID, id uuid.UUID) (*models.Quote, error)
	FindByShareToken(ctx context.Context, token string) (*models.Quote, error)
	UpdateFields(ctx context.Context, contractorID, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, contractorID, id uuid.UUID) error
	ListSamples(ctx context.Context, contractorID uuid.UUID, limit int) ([]models.Quote, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type rateLoader interface {
	LoadForPricing(ctx context.Context, contractorID uuid.UUID) (pricing.RateCard, error)
}

type savedItemsSource interface {
	ListForPricing(ctx context.Context, contractorID uuid.UUID) ([]pricing.SavedItem, error)
}

type customItemWriter interface {
	CreateWithTx(tx *gorm.DB, item *models.CustomItem) error
}

type entitlementChecker interface {
	CanCreateQuotes(ctx context.Context, contractorID uuid.UUID) (bool, error)
}

type depositSource interface {
	DepositPercent(ctx context.Context, contractorID uuid.UUID) (decimal.Decimal, error)
}

// Service runs the quote lifecycle around the pricing engine.
type Service interface {
	Create(ctx context.Context, contractorID uuid.UUID, input QuoteInput) (*Quote, error)
	Preview(ctx context.Context, contractorID uuid.UUID, input QuoteInput) (*Preview, error)
	Get(ctx context.Context, contractorID, quoteID uuid.UUID) (*Quote, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, contractorID, quoteID uuid.UUID, input QuoteInput) (*Quote, error)
	Delete(ctx context.Context, contractorID, quoteID uuid.UUID) error
	Duplicate(ctx context.Context, contractorID, quoteID uuid.UUID) (*Quote, error)
	UpdateStatus(ctx context.Context, contractorID, quoteID uuid.UUID, status enums.QuoteStatus) (*Quote, error)
	AcknowledgeLowMargin(ctx context.Context, contractorID uuid.UUID, emailVerified bool, quoteID uuid.UUID) (*Quote, error)
	Share(ctx context.Context, contractorID, quoteID uuid.UUID) (*ShareLink, error)
	GetShared(ctx context.Context, token string) (*SharedQuote, error)
	Respond(ctx context.Context, token string, response enums.QuoteResponse) (*SharedQuote, error)
	Guidance(ctx context.Context, contractorID uuid.UUID, roofSizeValue float64, unit enums.RoofSizeUnit) (*Guidance, error)
}

// Options carries the product thresholds the service applies.
type Options struct {
	DefaultExpiration time.Duration
	ExpiringSoon      time.Duration
	LowMarginTarget   float64
	ShareTokenLength  int
	SampleLimit       int
	BillingBypass     bool
}

// OptionsFromConfig maps loaded configuration onto service options.
func OptionsFromConfig(q config.QuotesConfig, flags config.FeatureFlagsConfig) Options {
	return Options{
		DefaultExpiration: q.DefaultExpiration(),
		ExpiringSoon:      q.ExpiringSoonWindow(),
		LowMarginTarget:   q.LowMarginTargetPct,
		ShareTokenLength:  q.ShareTokenLength,
		SampleLimit:       q.HistoricalSampleLimit,
		BillingBypass:     flags.BillingBypass,
	}
}

func (o Options) withDefaults() Options {
	if o.DefaultExpiration <= 0 {
		o.DefaultExpiration = DefaultExpiration
	}
	if o.ExpiringSoon <= 0 {
		o.ExpiringSoon = ExpiringSoonWindow
	}
	if o.ShareTokenLength <= 0 {
		o.ShareTokenLength = DefaultShareTokenLength
	}
	if o.SampleLimit <= 0 {
		o.SampleLimit = defaultSampleLimit
	}
	return o
}

// Deps groups the collaborators of the quote service.
type Deps struct {
	Tx           txRunner
	Repo         quotesRepository
	Rates        rateLoader
	SavedItems   savedItemsSource
	ItemWriter   customItemWriter
	Entitlements entitlementChecker
	Deposits     depositSource
	Metrics      *metrics.PricingMetrics
	Logger       *logger.Logger
}

type service struct {
	tx           txRunner
	repo         quotesRepository
	rates        rateLoader
	savedItems   savedItemsSource
	itemWriter   customItemWriter
	entitlements entitlementChecker
	deposits     depositSource
	metrics      *metrics.PricingMetrics
	logg         *logger.Logger
	opts         Options
	trade        enums.Trade
	now          func() time.Time
	newToken     func(length int) (string, error)
}

func NewService(deps Deps, opts Options) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	if deps.Rates == nil {
		return nil, fmt.Errorf("rate card loader required")
	}
	if deps.SavedItems == nil {
		return nil, fmt.Errorf("saved items source required")
	}
	if deps.ItemWriter == nil {
		return nil, fmt.Errorf("custom item writer required")
	}
	if deps.Entitlements == nil {
		return nil, fmt.Errorf("entitlement checker required")
	}
	if deps.Deposits == nil {
		return nil, fmt.Errorf("deposit source required")
	}
	logg := deps.Logger
	if logg == nil {
		logg = logger.New(logger.Options{ServiceName: "quotes", Output: io.Discard})
	}
	return &service{
		tx:           deps.Tx,
		repo:         deps.Repo,
		rates:        deps.Rates,
		savedItems:   deps.SavedItems,
		itemWriter:   deps.ItemWriter,
		entitlements: deps.Entitlements,
		deposits:     deps.Deposits,
		metrics:      deps.Metrics,
		logg:         logg,
		opts:         opts.withDefaults(),
		trade:        enums.TradeRoofing,
		now:          time.Now,
		newToken:     NewShareToken,
	}, nil
}

func (s *service) Create(ctx context.Context, contractorID uuid.UUID, input QuoteInput) (*Quote, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	if err := s.ensureCanCreate(ctx, contractorID); err != nil {
		return nil, err
	}

	result, err := s.price(ctx, "create", contractorID, input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.opts.DefaultExpiration)
	row, err := s.newRow(contractorID, input, result)
	if err != nil {
		return nil, err
	}
	row.Status = enums.QuoteStatusDraft
	row.ExpiresAt = &expiresAt

	if err := s.insert(ctx, row, func(tx *gorm.DB) error {
		return s.saveOneTimeItems(tx, contractorID, input.Selections.OneTimeCustomItems)
	}); err != nil {
		return nil, err
	}

	ctx = s.logg.WithQuoteID(ctx, row.ID.String())
	s.logg.Info(ctx, "quote.created")

	created, err := s.repo.FindByID(ctx, contractorID, row.ID)
	if err != nil {
		return nil, notFoundOr(err, "reload quote")
	}
	q := s.toQuote(ctx, *created, now)
	return &q, nil
}

func (s *service) Preview(ctx context.Context, contractorID uuid.UUID, input QuoteInput) (*Preview, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	result, err := s.price(ctx, "preview", contractorID, input)
	if err != nil {
		return nil, err
	}
	margin := pricing.CalculateEffectiveMargin(result)
	return &Preview{
		Pricing:     result,
		Margin:      margin,
		IsLowMargin: pricing.IsLowMargin(margin.MarginPct, s.opts.LowMarginTarget),
	}, nil
}

func (s *service) Get(ctx context.Context, contractorID, quoteID uuid.UUID) (*Quote, error) {
	row, err := s.repo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, notFoundOr(err, "lookup quote")
	}
	q := s.toQuote(ctx, *row, s.now())
	return &q, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.ContractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	query := listQuery{
		contractorID: params.ContractorID,
		status:       params.Status,
		limit:        pkgpagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotes")
	}

	rows, nextCursor := pkgpagination.Trim(rows, params.Limit, func(q models.Quote) pkgpagination.Cursor {
		return pkgpagination.Cursor{CreatedAt: q.CreatedAt, ID: q.ID}
	})

	now := s.now()
	items := make([]ListItem, len(rows))
	for i, row := range rows {
		items[i] = s.toListItem(row, now)
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, contractorID, quoteID uuid.UUID, input QuoteInput) (*Quote, error) {
	existing, err := s.repo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, notFoundOr(err, "lookup quote")
	}
	if existing.Status == enums.QuoteStatusAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, acceptedLockMessage)
	}

	result, err := s.price(ctx, "update", contractorID, input)
	if err != nil {
		return nil, err
	}
	row, err := s.newRow(contractorID, input, result)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"customer_name":    row.CustomerName,
		"customer_address": row.CustomerAddress,
		"inputs_json":      row.InputsJSON,
		"selections_json":  row.SelectionsJSON,
		"line_items_json":  row.LineItemsJSON,
		"pricing_json":     row.PricingJSON,
		"subtotal":         row.Subtotal,
		"total":            row.Total,
		"squares":          row.Squares,
	}
	if err := s.repo.UpdateFields(ctx, contractorID, quoteID, fields); err != nil {
		return nil, notFoundOr(err, "update quote")
	}
	return s.Get(ctx, contractorID, quoteID)
}

func (s *service) Delete(ctx context.Context, contractorID, quoteID uuid.UUID) error {
	if err := s.repo.Delete(ctx, contractorID, quoteID); err != nil {
		return notFoundOr(err, "delete quote")
	}
	return nil
}

// Duplicate copies the stored snapshot into a new draft without repricing.
func (s *service) Duplicate(ctx context.Context, contractorID, quoteID uuid.UUID) (*Quote, error) {
	if err := s.ensureCanCreate(ctx, contractorID); err != nil {
		return nil, err
	}
	original, err := s.repo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, notFoundOr(err, "lookup quote")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.opts.DefaultExpiration)
	row := &models.Quote{
		ID:              uuid.New(),
		ContractorID:    contractorID,
		Trade:           original.Trade,
		Status:          enums.QuoteStatusDraft,
		CustomerName:    original.CustomerName,
		CustomerAddress: original.CustomerAddress,
		InputsJSON:      original.InputsJSON,
		SelectionsJSON:  original.SelectionsJSON,
		LineItemsJSON:   original.LineItemsJSON,
		PricingJSON:     original.PricingJSON,
		Subtotal:        original.Subtotal,
		Total:           original.Total,
		Squares:         original.Squares,
		ExpiresAt:       &expiresAt,
	}
	if err := s.insert(ctx, row, nil); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, contractorID, row.ID)
	if err != nil {
		return nil, notFoundOr(err, "reload quote")
	}
	q := s.toQuote(ctx, *created, now)
	return &q, nil
}

func (s *service) UpdateStatus(ctx context.Context, contractorID, quoteID uuid.UUID, status enums.QuoteStatus) (*Quote, error) {
	if !status.IsValid() || status == enums.QuoteStatusExpired {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be draft, sent, accepted or rejected")
	}
	existing, err := s.repo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, notFoundOr(err, "lookup quote")
	}

	now := s.now().UTC()
	fields := map[string]any{"status": status}
	switch status {
	case enums.QuoteStatusSent:
		if existing.SentAt == nil {
			fields["sent_at"] = now
		}
	case enums.QuoteStatusAccepted:
		fields["accepted_at"] = now
		fields["rejected_at"] = nil
	case enums.QuoteStatusRejected:
		fields["rejected_at"] = now
		fields["accepted_at"] = nil
	}
	if err := s.repo.UpdateFields(ctx, contractorID, quoteID, fields); err != nil {
		return nil, notFoundOr(err, "update quote status")
	}
	return s.Get(ctx, contractorID, quoteID)
}

func (s *service) AcknowledgeLowMargin(ctx context.Context, contractorID uuid.UUID, emailVerified bool, quoteID uuid.UUID) (*Quote, error) {
	if !emailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, verifyEmailMessage)
	}
	fields := map[string]any{"low_margin_acknowledged_at": s.now().UTC()}
	if err := s.repo.UpdateFields(ctx, contractorID, quoteID, fields); err != nil {
		return nil, notFoundOr(err, "acknowledge low margin")
	}
	s.logg.Info(s.logg.WithQuoteID(ctx, quoteID.String()), "quote.low_margin_acknowledged")
	return s.Get(ctx, contractorID, quoteID)
}

// Share hands out the public link. Drafts move to sent; low-margin quotes
// need an acknowledgement first.
func (s *service) Share(ctx context.Context, contractorID, quoteID uuid.UUID) (*ShareLink, error) {
	row, err := s.repo.FindByID(ctx, contractorID, quoteID)
	if err != nil {
		return nil, notFoundOr(err, "lookup quote")
	}
	if s.blockedByMargin(*row) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, lowMarginMessage).
			WithDetails(map[string]any{"margin_pct": MarginOf(*row).MarginPct, "target_pct": s.opts.LowMarginTarget})
	}

	if row.Status == enums.QuoteStatusDraft {
		fields := map[string]any{"status": enums.QuoteStatusSent, "sent_at": s.now().UTC()}
		if err := s.repo.UpdateFields(ctx, contractorID, quoteID, fields); err != nil {
			return nil, notFoundOr(err, "mark quote sent")
		}
	}
	return &ShareLink{Token: row.ShareToken, URL: SharePath(row.ShareToken)}, nil
}

func (s *service) GetShared(ctx context.Context, token string) (*SharedQuote, error) {
	row, err := s.findShared(ctx, token)
	if err != nil {
		return nil, err
	}
	percent, err := s.deposits.DepositPercent(ctx, row.ContractorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deposit percent")
	}
	shared := s.toShared(ctx, *row, percent, s.now())
	return &shared, nil
}

// Respond records the customer's answer. Answering an expired quote fails
// with GONE; repeating the current answer changes nothing.
func (s *service) Respond(ctx context.Context, token string, response enums.QuoteResponse) (*SharedQuote, error) {
	row, err := s.findShared(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if row.Status == enums.QuoteStatusExpired || ExpirationStatus(row.ExpiresAt, now, s.opts.ExpiringSoon).IsExpired {
		return nil, pkgerrors.New(pkgerrors.CodeGone, expiredQuoteMessage)
	}

	fields := map[string]any{}
	switch response {
	case enums.QuoteResponseAccept:
		if row.Status != enums.QuoteStatusAccepted {
			fields["status"] = enums.QuoteStatusAccepted
			fields["accepted_at"] = now
			fields["rejected_at"] = nil
		}
	case enums.QuoteResponseReject:
		if row.Status != enums.QuoteStatusRejected {
			fields["status"] = enums.QuoteStatusRejected
			fields["rejected_at"] = now
			fields["accepted_at"] = nil
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response must be accept or reject")
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, row.ContractorID, row.ID, fields); err != nil {
			return nil, notFoundOr(err, "record quote response")
		}
		ctx = s.logg.WithFields(ctx, map[string]any{"quote_id": row.ID.String(), "response": string(response)})
		s.logg.Info(ctx, "quote.customer_responded")
	}
	return s.GetShared(ctx, token)
}

func (s *service) Guidance(ctx context.Context, contractorID uuid.UUID, roofSizeValue float64, unit enums.RoofSizeUnit) (*Guidance, error) {
	if contractorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "contractor identity missing")
	}
	if !unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "roof_size_unit must be squares or sqft")
	}
	rows, err := s.repo.ListSamples(ctx, contractorID, s.opts.SampleLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote samples")
	}
	samples := make([]Sample, len(rows))
	for i, row := range rows {
		samples[i] = Sample{Total: row.Total, InputsJSON: []byte(row.InputsJSON)}
	}
	g := roundedGuidance(BuildGuidance(samples, roofSizeValue, unit))
	return &g, nil
}

// price validates input, loads the contractor's rates and runs the engine.
func (s *service) price(ctx context.Context, operation string, contractorID uuid.UUID, input QuoteInput) (pricing.Result, error) {
	if err := Validate(input.Inputs, input.Selections); err != nil {
		return pricing.Result{}, err
	}
	card, err := s.rates.LoadForPricing(ctx, contractorID)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeRatesMissing) {
			s.metrics.ObserveBlocked("rates_missing")
		}
		return pricing.Result{}, err
	}
	saved, err := s.savedItems.ListForPricing(ctx, contractorID)
	if err != nil {
		return pricing.Result{}, err
	}

	result := pricing.Calculate(input.Inputs, input.Selections, card, saved)
	margin := pricing.CalculateEffectiveMargin(result)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"operation":     operation,
		"contractor_id": contractorID.String(),
		"squares":       result.Squares,
		"total":         result.Total,
	})
	if card.IsZero() {
		s.logg.Warn(ctx, "quote.priced_with_zero_rate_card")
	}
	if result.MinimumApplied() {
		s.logg.Info(ctx, "quote.minimum_job_price_applied")
	}
	s.metrics.Observe(metrics.PricingOutcome{
		Operation:      operation,
		Total:          result.Total,
		MinimumApplied: result.MinimumApplied(),
		ZeroRateCard:   card.IsZero(),
		LowMargin:      pricing.IsLowMargin(margin.MarginPct, s.opts.LowMarginTarget),
	})
	return result, nil
}

func (s *service) ensureCanCreate(ctx context.Context, contractorID uuid.UUID) error {
	if s.opts.BillingBypass {
		return nil
	}
	ok, err := s.entitlements.CanCreateQuotes(ctx, contractorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check entitlements")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodePayment, trialEndedMessage)
	}
	return nil
}

func (s *service) newRow(contractorID uuid.UUID, input QuoteInput, result pricing.Result) (*models.Quote, error) {
	inputsJSON, err := marshalJSON(input.Inputs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode inputs")
	}
	selectionsJSON, err := marshalJSON(input.Selections)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode selections")
	}
	lineItemsJSON, err := marshalJSON(result.LineItems)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode line items")
	}
	pricingJSON, err := marshalJSON(result)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode pricing snapshot")
	}
	return &models.Quote{
		ID:              uuid.New(),
		ContractorID:    contractorID,
		Trade:           s.trade,
		CustomerName:    input.Inputs.CustomerName,
		CustomerAddress: input.Inputs.CustomerAddress,
		InputsJSON:      inputsJSON,
		SelectionsJSON:  selectionsJSON,
		LineItemsJSON:   lineItemsJSON,
		PricingJSON:     pricingJSON,
		Subtotal:        money(result.Subtotal),
		Total:           money(result.Total),
		Squares:         money(result.Squares),
	}, nil
}

// insert stores row with a fresh share token, retrying on token collisions.
func (s *service) insert(ctx context.Context, row *models.Quote, extra func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 0; attempt < shareTokenAttempts; attempt++ {
		token, err := s.newToken(s.opts.ShareTokenLength)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate share token")
		}
		row.ShareToken = token

		lastErr = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.CreateWithTx(tx, row); err != nil {
				return err
			}
			if extra != nil {
				return extra(tx)
			}
			return nil
		})
		if lastErr == nil {
			return nil
		}
		if !pkgdb.IsUniqueViolation(lastErr, ShareTokenConstraint) {
			break
		}
		s.logg.Warn(ctx, "quote.share_token_collision")
	}
	if typed := pkgerrors.As(lastErr); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "save quote")
}

func (s *service) saveOneTimeItems(tx *gorm.DB, contractorID uuid.UUID, items []pricing.OneTimeItem) error {
	for _, it := range items {
		if !it.SaveToAccount {
			continue
		}
		input := customitems.FromOneTime(it)
		if err := customitems.ValidateInput(input); err != nil {
			return err
		}
		if err := s.itemWriter.CreateWithTx(tx, customitems.NewModel(contractorID, s.trade, input)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save custom item")
		}
	}
	return nil
}

func (s *service) findShared(ctx context.Context, token string) (*models.Quote, error) {
	if len(token) < DefaultShareTokenLength/2 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, unavailableMessage)
	}
	row, err := s.repo.FindByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, unavailableMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup shared quote")
	}
	if s.blockedByMargin(*row) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, unavailableMessage)
	}
	return row, nil
}

func (s *service) blockedByMargin(row models.Quote) bool {
	if row.LowMarginAcknowledgedAt != nil {
		return false
	}
	return pricing.IsLowMargin(MarginOf(row).MarginPct, s.opts.LowMarginTarget)
}

func notFoundOr(err error, step string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}
