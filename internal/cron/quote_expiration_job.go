package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/logger"
)

const (
	quoteExpirationBatchSize  = 200
	quoteExpirationMaxBatches = 50
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type expiringQuotesRepo interface {
	ListExpiredSentWithTx(tx *gorm.DB, now time.Time, limit int) ([]models.Quote, error)
	MarkExpiredWithTx(tx *gorm.DB, id uuid.UUID) (bool, error)
}

// QuoteExpirationJobParams configure the sweep that moves sent quotes past
// their expiry date to expired.
type QuoteExpirationJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository expiringQuotesRepo
	BatchSize  int
}

func NewQuoteExpirationJob(params QuoteExpirationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("quotes repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = quoteExpirationBatchSize
	}
	return &quoteExpirationJob{
		logg:  params.Logger,
		db:    params.DB,
		repo:  params.Repository,
		batch: batch,
		now:   time.Now,
	}, nil
}

type quoteExpirationJob struct {
	logg  *logger.Logger
	db    txRunner
	repo  expiringQuotesRepo
	batch int
	now   func() time.Time
}

func (j *quoteExpirationJob) Name() string { return "quote-expiration" }

func (j *quoteExpirationJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var (
		errs    []error
		expired int
		skipped int
	)

	for i := 0; i < quoteExpirationMaxBatches; i++ {
		var rows []models.Quote
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			rows, err = j.repo.ListExpiredSentWithTx(tx, now, j.batch)
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("list expired quotes: %w", err))
			break
		}

		failed := 0
		for _, row := range rows {
			id := row.ID
			var ok bool
			err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
				var err error
				ok, err = j.repo.MarkExpiredWithTx(tx, id)
				return err
			})
			switch {
			case err != nil:
				failed++
				errs = append(errs, fmt.Errorf("expire quote %s: %w", id, err))
			case ok:
				expired++
			default:
				skipped++
			}
		}

		// Failed rows stay sent and would be listed again.
		if failed > 0 || len(rows) < j.batch {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         now,
		"quotes_expired": expired,
		"quotes_skipped": skipped,
		"quotes_failed":  len(errs),
	})
	if err := multierr.Combine(errs...); err != nil {
		j.logg.Error(logCtx, "quote expiration sweep failed", err)
		return fmt.Errorf("quote expiration: %w", err)
	}
	j.logg.Info(logCtx, "quote expiration sweep complete")
	return nil
}
