package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "q1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"q1"}}`, rec.Body.String())
}

func TestWriteErrorStatusAndBody(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		status      int
		code        pkgerrors.Code
		message     string
		withDetails bool
	}{
		{
			name: "validation keeps message and details",
			err: pkgerrors.New(pkgerrors.CodeValidation, "Layers is required when tear-off is selected").
				WithDetails(map[string]string{"inputs.layers": "required"}),
			status:      http.StatusBadRequest,
			code:        pkgerrors.CodeValidation,
			message:     "Layers is required when tear-off is selected",
			withDetails: true,
		},
		{
			name:    "rates missing is a conflict",
			err:     pkgerrors.New(pkgerrors.CodeRatesMissing, "No roofing rate card found. Set rates in Pricing → Roofing."),
			status:  http.StatusConflict,
			code:    pkgerrors.CodeRatesMissing,
			message: "No roofing rate card found. Set rates in Pricing → Roofing.",
		},
		{
			name:    "wrapped typed error is found",
			err:     fmt.Errorf("respond: %w", pkgerrors.New(pkgerrors.CodeGone, "This quote has expired")),
			status:  http.StatusGone,
			code:    pkgerrors.CodeGone,
			message: "This quote has expired",
		},
		{
			name:    "dependency hides the cause",
			err:     pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp 10.0.0.4:5432"), "load quote").WithDetails("pg down"),
			status:  http.StatusServiceUnavailable,
			code:    pkgerrors.CodeDependency,
			message: "dependency unavailable",
		},
		{
			name:    "untyped errors become internal",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    pkgerrors.CodeInternal,
			message: "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			require.Equal(t, tc.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, string(tc.code), body.Code)
			assert.Equal(t, tc.message, body.Message)
			if tc.withDetails {
				assert.NotNil(t, body.Details)
			}
			assert.NotContains(t, rec.Body.String(), "10.0.0.4")
		})
	}
}

func TestWriteErrorSetsRetryAfterOnRateLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestWriteErrorLogsBySeverity(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	WriteError(context.Background(), logg, httptest.NewRecorder(), pkgerrors.New(pkgerrors.CodeNotFound, "quote not found"))
	assert.Contains(t, buf.String(), "request.rejected")
	assert.Contains(t, buf.String(), `"status":404`)

	buf.Reset()
	WriteError(context.Background(), logg, httptest.NewRecorder(), errors.New("boom"))
	assert.Contains(t, buf.String(), "request.error")
	assert.Contains(t, buf.String(), `"level":"error"`)
}
