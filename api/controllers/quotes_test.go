package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/leviwiederhold/forman/api/middleware"
	"github.com/leviwiederhold/forman/internal/quotes"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

type testQuotesService struct {
	createFn      func(ctx context.Context, contractorID uuid.UUID, input quotes.QuoteInput) (*quotes.Quote, error)
	getFn         func(ctx context.Context, contractorID, quoteID uuid.UUID) (*quotes.Quote, error)
	listFn        func(ctx context.Context, params quotes.ListParams) (*quotes.ListResult, error)
	acknowledgeFn func(ctx context.Context, contractorID uuid.UUID, emailVerified bool, quoteID uuid.UUID) (*quotes.Quote, error)
	shareFn       func(ctx context.Context, contractorID, quoteID uuid.UUID) (*quotes.ShareLink, error)
	statusFn      func(ctx context.Context, contractorID, quoteID uuid.UUID, status enums.QuoteStatus) (*quotes.Quote, error)
	guidanceFn    func(ctx context.Context, contractorID uuid.UUID, size float64, unit enums.RoofSizeUnit) (*quotes.Guidance, error)
	getSharedFn   func(ctx context.Context, token string) (*quotes.SharedQuote, error)
	respondFn     func(ctx context.Context, token string, response enums.QuoteResponse) (*quotes.SharedQuote, error)
}

func (s *testQuotesService) Create(ctx context.Context, contractorID uuid.UUID, input quotes.QuoteInput) (*quotes.Quote, error) {
	if s.createFn != nil {
		return s.createFn(ctx, contractorID, input)
	}
	return &quotes.Quote{}, nil
}

func (s *testQuotesService) Preview(ctx context.Context, contractorID uuid.UUID, input quotes.QuoteInput) (*quotes.Preview, error) {
	return &quotes.Preview{}, nil
}

func (s *testQuotesService) Get(ctx context.Context, contractorID, quoteID uuid.UUID) (*quotes.Quote, error) {
	if s.getFn != nil {
		return s.getFn(ctx, contractorID, quoteID)
	}
	return &quotes.Quote{ID: quoteID}, nil
}

func (s *testQuotesService) List(ctx context.Context, params quotes.ListParams) (*quotes.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &quotes.ListResult{}, nil
}

func (s *testQuotesService) Update(ctx context.Context, contractorID, quoteID uuid.UUID, input quotes.QuoteInput) (*quotes.Quote, error) {
	return &quotes.Quote{ID: quoteID}, nil
}

func (s *testQuotesService) Delete(ctx context.Context, contractorID, quoteID uuid.UUID) error {
	return nil
}

func (s *testQuotesService) Duplicate(ctx context.Context, contractorID, quoteID uuid.UUID) (*quotes.Quote, error) {
	return &quotes.Quote{ID: uuid.New()}, nil
}

func (s *testQuotesService) UpdateStatus(ctx context.Context, contractorID, quoteID uuid.UUID, status enums.QuoteStatus) (*quotes.Quote, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, contractorID, quoteID, status)
	}
	return &quotes.Quote{ID: quoteID, Status: status}, nil
}

func (s *testQuotesService) AcknowledgeLowMargin(ctx context.Context, contractorID uuid.UUID, emailVerified bool, quoteID uuid.UUID) (*quotes.Quote, error) {
	if s.acknowledgeFn != nil {
		return s.acknowledgeFn(ctx, contractorID, emailVerified, quoteID)
	}
	return &quotes.Quote{ID: quoteID}, nil
}

func (s *testQuotesService) Share(ctx context.Context, contractorID, quoteID uuid.UUID) (*quotes.ShareLink, error) {
	if s.shareFn != nil {
		return s.shareFn(ctx, contractorID, quoteID)
	}
	return &quotes.ShareLink{}, nil
}

func (s *testQuotesService) GetShared(ctx context.Context, token string) (*quotes.SharedQuote, error) {
	if s.getSharedFn != nil {
		return s.getSharedFn(ctx, token)
	}
	return &quotes.SharedQuote{}, nil
}

func (s *testQuotesService) Respond(ctx context.Context, token string, response enums.QuoteResponse) (*quotes.SharedQuote, error) {
	if s.respondFn != nil {
		return s.respondFn(ctx, token, response)
	}
	return &quotes.SharedQuote{}, nil
}

func (s *testQuotesService) Guidance(ctx context.Context, contractorID uuid.UUID, size float64, unit enums.RoofSizeUnit) (*quotes.Guidance, error) {
	if s.guidanceFn != nil {
		return s.guidanceFn(ctx, contractorID, size, unit)
	}
	return &quotes.Guidance{}, nil
}

const validQuoteBody = `{
	"inputs": {"customer_name": "Jane", "roof_size_value": 20, "roof_size_unit": "squares", "pitch": "6/12", "stories": 1, "tearoff": false},
	"selections": {"tearoff_selected": false}
}`

func TestQuoteCreateSuccess(t *testing.T) {
	contractorID := uuid.New()
	quoteID := uuid.New()
	svc := &testQuotesService{
		createFn: func(ctx context.Context, cid uuid.UUID, input quotes.QuoteInput) (*quotes.Quote, error) {
			if cid != contractorID {
				t.Fatalf("unexpected contractor %s", cid)
			}
			if input.Inputs.CustomerName != "Jane" || input.Inputs.RoofSizeValue != 20 {
				t.Fatalf("unexpected inputs %+v", input.Inputs)
			}
			return &quotes.Quote{ID: quoteID, Status: enums.QuoteStatusDraft}, nil
		},
	}

	resp := httptest.NewRecorder()
	QuoteCreate(svc, testLogger())(resp, newRequest(http.MethodPost, "/api/v1/quotes", validQuoteBody, contractorID))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			ID     uuid.UUID `json:"id"`
			Status string    `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.ID != quoteID || envelope.Data.Status != "draft" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestQuoteCreateRequiresContractor(t *testing.T) {
	resp := httptest.NewRecorder()
	QuoteCreate(&testQuotesService{}, testLogger())(resp, newRequest(http.MethodPost, "/api/v1/quotes", validQuoteBody, uuid.Nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestQuoteCreateRejectsUnknownFields(t *testing.T) {
	resp := httptest.NewRecorder()
	QuoteCreate(&testQuotesService{}, testLogger())(resp, newRequest(http.MethodPost, "/api/v1/quotes", `{"inputs":{},"bogus":1}`, uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteCreateSurfacesRatesMissing(t *testing.T) {
	svc := &testQuotesService{
		createFn: func(ctx context.Context, cid uuid.UUID, input quotes.QuoteInput) (*quotes.Quote, error) {
			return nil, pkgerrors.New(pkgerrors.CodeRatesMissing, "No roofing rate card found.")
		},
	}

	resp := httptest.NewRecorder()
	QuoteCreate(svc, testLogger())(resp, newRequest(http.MethodPost, "/api/v1/quotes", validQuoteBody, uuid.New()))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code, _ := decodeError(t, resp); code != string(pkgerrors.CodeRatesMissing) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestQuoteGetInvalidID(t *testing.T) {
	req := addRouteParam(newRequest(http.MethodGet, "/api/v1/quotes/nope", "", uuid.New()), "quoteId", "nope")
	resp := httptest.NewRecorder()
	QuoteGet(&testQuotesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteGetNotFound(t *testing.T) {
	svc := &testQuotesService{
		getFn: func(ctx context.Context, contractorID, quoteID uuid.UUID) (*quotes.Quote, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		},
	}
	id := uuid.New()
	req := addRouteParam(newRequest(http.MethodGet, "/api/v1/quotes/"+id.String(), "", uuid.New()), "quoteId", id.String())
	resp := httptest.NewRecorder()
	QuoteGet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestQuoteListParsesQuery(t *testing.T) {
	contractorID := uuid.New()
	var got quotes.ListParams
	svc := &testQuotesService{
		listFn: func(ctx context.Context, params quotes.ListParams) (*quotes.ListResult, error) {
			got = params
			return &quotes.ListResult{Items: []quotes.ListItem{}}, nil
		},
	}

	resp := httptest.NewRecorder()
	QuoteList(svc, testLogger())(resp, newRequest(http.MethodGet, "/api/v1/quotes?limit=10&cursor=abc&status=sent", "", contractorID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got.ContractorID != contractorID || got.Limit != 10 || got.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", got)
	}
	if got.Status == nil || *got.Status != enums.QuoteStatusSent {
		t.Fatalf("expected sent status filter, got %v", got.Status)
	}
}

func TestQuoteListRejectsUnknownStatus(t *testing.T) {
	resp := httptest.NewRecorder()
	QuoteList(&testQuotesService{}, testLogger())(resp, newRequest(http.MethodGet, "/api/v1/quotes?status=lost", "", uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteUpdateStatusRejectsExpired(t *testing.T) {
	id := uuid.New()
	req := addRouteParam(newRequest(http.MethodPatch, "/api/v1/quotes/"+id.String()+"/status", `{"status":"expired"}`, uuid.New()), "quoteId", id.String())
	resp := httptest.NewRecorder()
	QuoteUpdateStatus(&testQuotesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteAcknowledgePassesEmailVerification(t *testing.T) {
	id := uuid.New()
	var verified bool
	svc := &testQuotesService{
		acknowledgeFn: func(ctx context.Context, contractorID uuid.UUID, emailVerified bool, quoteID uuid.UUID) (*quotes.Quote, error) {
			verified = emailVerified
			return &quotes.Quote{ID: quoteID}, nil
		},
	}

	req := newRequest(http.MethodPost, "/api/v1/quotes/"+id.String()+"/acknowledge-low-margin", "", uuid.New())
	req = req.WithContext(middleware.WithEmailVerified(req.Context(), true))
	req = addRouteParam(req, "quoteId", id.String())
	resp := httptest.NewRecorder()
	QuoteAcknowledgeLowMargin(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !verified {
		t.Fatal("expected verified flag forwarded to service")
	}
}

func TestQuoteShareBlockedByLowMargin(t *testing.T) {
	id := uuid.New()
	svc := &testQuotesService{
		shareFn: func(ctx context.Context, contractorID, quoteID uuid.UUID) (*quotes.ShareLink, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "Low margin quote. Acknowledge before sending.")
		},
	}
	req := addRouteParam(newRequest(http.MethodPost, "/api/v1/quotes/"+id.String()+"/share", "", uuid.New()), "quoteId", id.String())
	resp := httptest.NewRecorder()
	QuoteShare(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestQuoteGuidanceParsesQuery(t *testing.T) {
	var gotSize float64
	var gotUnit enums.RoofSizeUnit
	svc := &testQuotesService{
		guidanceFn: func(ctx context.Context, contractorID uuid.UUID, size float64, unit enums.RoofSizeUnit) (*quotes.Guidance, error) {
			gotSize, gotUnit = size, unit
			return &quotes.Guidance{}, nil
		},
	}

	resp := httptest.NewRecorder()
	QuoteGuidance(svc, testLogger())(resp, newRequest(http.MethodGet, "/api/v1/quotes/guidance?roof_size_value=2500&roof_size_unit=sqft", "", uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotSize != 2500 || gotUnit != enums.RoofSizeUnitSqft {
		t.Fatalf("unexpected guidance args %v %s", gotSize, gotUnit)
	}
}

func TestQuoteGuidanceRequiresSize(t *testing.T) {
	resp := httptest.NewRecorder()
	QuoteGuidance(&testQuotesService{}, testLogger())(resp, newRequest(http.MethodGet, "/api/v1/quotes/guidance", "", uuid.New()))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
