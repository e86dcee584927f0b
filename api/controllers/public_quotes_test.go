package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/leviwiederhold/forman/internal/quotes"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
)

func TestSharedQuoteGetPassesToken(t *testing.T) {
	var gotToken string
	svc := &testQuotesService{
		getSharedFn: func(ctx context.Context, token string) (*quotes.SharedQuote, error) {
			gotToken = token
			return &quotes.SharedQuote{ID: uuid.New(), Status: enums.QuoteStatusSent}, nil
		},
	}

	req := addRouteParam(newRequest(http.MethodGet, "/api/public/quotes/share/tok123", "", uuid.Nil), "token", "tok123")
	resp := httptest.NewRecorder()
	SharedQuoteGet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotToken != "tok123" {
		t.Fatalf("unexpected token %q", gotToken)
	}
}

func TestSharedQuoteGetHidesUnavailable(t *testing.T) {
	svc := &testQuotesService{
		getSharedFn: func(ctx context.Context, token string) (*quotes.SharedQuote, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Quote unavailable")
		},
	}

	req := addRouteParam(newRequest(http.MethodGet, "/api/public/quotes/share/missing", "", uuid.Nil), "token", "missing")
	resp := httptest.NewRecorder()
	SharedQuoteGet(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestSharedQuoteRespondAccept(t *testing.T) {
	var got enums.QuoteResponse
	svc := &testQuotesService{
		respondFn: func(ctx context.Context, token string, response enums.QuoteResponse) (*quotes.SharedQuote, error) {
			got = response
			return &quotes.SharedQuote{Status: enums.QuoteStatusAccepted}, nil
		},
	}

	req := addRouteParam(newRequest(http.MethodPost, "/api/public/quotes/share/tok/respond", `{"response":"accept"}`, uuid.Nil), "token", "tok")
	resp := httptest.NewRecorder()
	SharedQuoteRespond(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got != enums.QuoteResponseAccept {
		t.Fatalf("unexpected response %q", got)
	}
}

func TestSharedQuoteRespondRejectsUnknownAnswer(t *testing.T) {
	called := false
	svc := &testQuotesService{
		respondFn: func(ctx context.Context, token string, response enums.QuoteResponse) (*quotes.SharedQuote, error) {
			called = true
			return &quotes.SharedQuote{}, nil
		},
	}

	req := addRouteParam(newRequest(http.MethodPost, "/api/public/quotes/share/tok/respond", `{"response":"maybe"}`, uuid.Nil), "token", "tok")
	resp := httptest.NewRecorder()
	SharedQuoteRespond(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if called {
		t.Fatal("service should not be called for an invalid answer")
	}
}

func TestSharedQuoteRespondExpired(t *testing.T) {
	svc := &testQuotesService{
		respondFn: func(ctx context.Context, token string, response enums.QuoteResponse) (*quotes.SharedQuote, error) {
			return nil, pkgerrors.New(pkgerrors.CodeGone, "This quote has expired.")
		},
	}

	req := addRouteParam(newRequest(http.MethodPost, "/api/public/quotes/share/tok/respond", `{"response":"reject"}`, uuid.Nil), "token", "tok")
	resp := httptest.NewRecorder()
	SharedQuoteRespond(svc, testLogger())(resp, req)

	if resp.Code != http.StatusGone {
		t.Fatalf("expected 410 got %d", resp.Code)
	}
}
