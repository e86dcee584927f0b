package controllers

import (
	"net/http"

	"github.com/leviwiederhold/forman/api/responses"
	"github.com/leviwiederhold/forman/api/validators"
	"github.com/leviwiederhold/forman/internal/profiles"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
)

type depositPercentRequest struct {
	DepositPercent *float64 `json:"deposit_percent" validate:"required,gte=0,lte=100"`
}

type depositPercentResponse struct {
	DepositPercent float64 `json:"deposit_percent"`
}

type quoteDefaultsRequest struct {
	Inputs     map[string]any `json:"inputs"`
	Selections map[string]any `json:"selections"`
}

type quoteDefaultsResponse struct {
	Defaults *profiles.QuoteDefaults `json:"defaults"`
}

func DepositPercentGet(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		percent, err := svc.DepositPercent(r.Context(), contractorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, depositPercentResponse{DepositPercent: percent.InexactFloat64()})
	}
}

func DepositPercentUpdate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload depositPercentRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		percent, err := svc.SetDepositPercent(r.Context(), contractorID, *payload.DepositPercent)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, depositPercentResponse{DepositPercent: percent.InexactFloat64()})
	}
}

// QuoteDefaultsGet returns null defaults until the contractor saves some.
func QuoteDefaultsGet(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		defaults, err := svc.QuoteDefaults(r.Context(), contractorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteDefaultsResponse{Defaults: defaults})
	}
}

func QuoteDefaultsUpdate(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteDefaultsRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := map[string]any{"inputs": payload.Inputs, "selections": payload.Selections}
		defaults, err := svc.SetQuoteDefaults(r.Context(), contractorID, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteDefaultsResponse{Defaults: defaults})
	}
}

func EntitlementsGet(svc profiles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ent, err := svc.Entitlements(r.Context(), contractorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ent)
	}
}
