package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/leviwiederhold/forman/api/responses"
	"github.com/leviwiederhold/forman/api/validators"
	"github.com/leviwiederhold/forman/internal/quotes"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
)

type quoteRespondRequest struct {
	Response string `json:"response" validate:"required,oneof=accept reject"`
}

// SharedQuoteGet renders the customer-facing quote behind a share token.
func SharedQuoteGet(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		shared, err := svc.GetShared(r.Context(), strings.TrimSpace(chi.URLParam(r, "token")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shared)
	}
}

func SharedQuoteRespond(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quoteRespondRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		response, err := enums.ParseQuoteResponse(payload.Response)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid response"))
			return
		}

		shared, err := svc.Respond(r.Context(), strings.TrimSpace(chi.URLParam(r, "token")), response)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shared)
	}
}
