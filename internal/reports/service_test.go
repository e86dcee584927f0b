package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/leviwiederhold/forman/pkg/db/models"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

type stubQuoteReader struct {
	since  []models.Quote
	recent []models.Quote
	err    error

	gotSince time.Time
	gotLimit int
}

func (s *stubQuoteReader) ListCreatedSince(ctx context.Context, contractorID uuid.UUID, since time.Time) ([]models.Quote, error) {
	s.gotSince = since
	return s.since, s.err
}

func (s *stubQuoteReader) ListRecent(ctx context.Context, contractorID uuid.UUID, limit int) ([]models.Quote, error) {
	s.gotLimit = limit
	return s.recent, s.err
}

type stubRateCards struct {
	exists bool
	err    error
}

func (s stubRateCards) Exists(ctx context.Context, contractorID uuid.UUID, trade enums.Trade) (bool, error) {
	return s.exists, s.err
}

var reportNow = time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)

func reportQuote(status enums.QuoteStatus, subtotal, total string, created time.Time) models.Quote {
	return models.Quote{
		ID:           uuid.New(),
		Status:       status,
		CustomerName: "Jane Homeowner",
		Subtotal:     decimal.RequireFromString(subtotal),
		Total:        decimal.RequireFromString(total),
		PricingJSON:  datatypes.JSON(`{"subtotal":` + subtotal + `,"total":` + total + `}`),
		CreatedAt:    created,
	}
}

func newTestService(t *testing.T, reader *stubQuoteReader, rates stubRateCards) *service {
	t.Helper()
	svc, err := NewService(reader, rates, 25)
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return reportNow }
	return impl
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, stubRateCards{}, 25)
	require.Error(t, err)

	_, err = NewService(&stubQuoteReader{}, nil, 25)
	require.Error(t, err)

	svc, err := NewService(&stubQuoteReader{}, stubRateCards{}, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(defaultMarginFloor), svc.(*service).marginTarget)
}

func TestSummarizeCountsDraftsAsLosses(t *testing.T) {
	rows := []models.Quote{
		reportQuote(enums.QuoteStatusAccepted, "100", "150", reportNow),
		reportQuote(enums.QuoteStatusDraft, "90", "100", reportNow),
		reportQuote(enums.QuoteStatusSent, "50", "50", reportNow),
		reportQuote(enums.QuoteStatusRejected, "100", "200", reportNow),
	}

	got := summarize(rows, 30)

	assert.Equal(t, 30, got.Days)
	assert.Equal(t, 4, got.Count)
	assert.Equal(t, 500.0, got.TotalQuoted)
	assert.Equal(t, 25.0, got.WinRate)
	assert.Equal(t, 125.0, got.AvgJob)
	// (33.333 + 10 + 0 + 50) / 4
	assert.InDelta(t, 23.3333, got.AvgMargin, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	got := summarize(nil, 90)
	assert.Equal(t, Summary{Days: 90}, got)
}

func TestDailySeriesFillsGaps(t *testing.T) {
	rows := []models.Quote{
		reportQuote(enums.QuoteStatusSent, "1", "1", reportNow.Add(-time.Hour)),
		reportQuote(enums.QuoteStatusSent, "1", "1", reportNow.Add(-2*time.Hour)),
		reportQuote(enums.QuoteStatusSent, "1", "1", reportNow.AddDate(0, 0, -3)),
	}

	series := dailySeries(rows, 30, reportNow)

	require.Len(t, series, 30)
	assert.Equal(t, "02/14", series[0].Label)
	assert.Equal(t, "2026-03-15", series[29].Date)
	assert.Equal(t, "03/15", series[29].Label)
	assert.Equal(t, 2, series[29].Count)
	assert.Equal(t, 1, series[26].Count)

	total := 0
	for _, point := range series {
		total += point.Count
	}
	assert.Equal(t, 3, total)
}

func TestDashboard(t *testing.T) {
	healthy := reportQuote(enums.QuoteStatusSent, "100", "150", reportNow.Add(-time.Hour))
	thin := reportQuote(enums.QuoteStatusDraft, "90", "100", reportNow.Add(-2*time.Hour))
	reader := &stubQuoteReader{
		since:  []models.Quote{healthy, thin},
		recent: []models.Quote{healthy, thin},
	}
	svc := newTestService(t, reader, stubRateCards{exists: true})

	got, err := svc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, reportNow.AddDate(0, 0, -30), reader.gotSince)
	assert.Equal(t, recentQuoteLimit, reader.gotLimit)
	assert.Equal(t, 2, got.Summary.Count)
	assert.Equal(t, 0.0, got.Summary.WinRate)
	require.Len(t, got.LowMargin, 1)
	assert.Equal(t, thin.ID, got.LowMargin[0].ID)
	assert.InDelta(t, 10.0, got.LowMargin[0].MarginPct, 0.0001)
	assert.Len(t, got.RecentQuotes, 2)
	assert.Equal(t, Checklist{RateCardSaved: true, HasQuote: true, Complete: true}, got.Checklist)
}

func TestDashboardNewContractor(t *testing.T) {
	svc := newTestService(t, &stubQuoteReader{}, stubRateCards{})

	got, err := svc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, got.Summary.Count)
	assert.Empty(t, got.LowMargin)
	assert.Empty(t, got.RecentQuotes)
	assert.False(t, got.Checklist.Complete)
}

func TestDashboardRequiresContractor(t *testing.T) {
	svc := newTestService(t, &stubQuoteReader{}, stubRateCards{})

	_, err := svc.Dashboard(context.Background(), uuid.Nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestDashboardWrapsRateCardFailure(t *testing.T) {
	svc := newTestService(t, &stubQuoteReader{}, stubRateCards{err: errors.New("db down")})

	_, err := svc.Dashboard(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestSummaryWindow(t *testing.T) {
	reader := &stubQuoteReader{since: []models.Quote{
		reportQuote(enums.QuoteStatusAccepted, "100", "150", reportNow.AddDate(0, 0, -45)),
	}}
	svc := newTestService(t, reader, stubRateCards{})

	got, err := svc.Summary(context.Background(), uuid.New(), 90)
	require.NoError(t, err)

	assert.Equal(t, reportNow.AddDate(0, 0, -90), reader.gotSince)
	assert.Equal(t, 100.0, got.Summary.WinRate)
	assert.Len(t, got.Daily, 90)
}

func TestSummaryRejectsOtherWindows(t *testing.T) {
	svc := newTestService(t, &stubQuoteReader{}, stubRateCards{})

	_, err := svc.Summary(context.Background(), uuid.New(), 7)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
