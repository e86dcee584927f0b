package controllers

import (
	"net/http"

	"github.com/leviwiederhold/forman/api/responses"
	"github.com/leviwiederhold/forman/api/validators"
	"github.com/leviwiederhold/forman/internal/pricing"
	"github.com/leviwiederhold/forman/internal/ratecards"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
)

type rateCardRequest struct {
	LaborPerSquare           *float64 `json:"labor_per_square" validate:"required,gte=0"`
	ShinglesPerSquare        *float64 `json:"shingles_per_square" validate:"required,gte=0"`
	UnderlaymentPerSquare    *float64 `json:"underlayment_per_square" validate:"required,gte=0"`
	TearoffDisposalPerSquare *float64 `json:"tearoff_disposal_per_square" validate:"required,gte=0"`
	MinimumJobPrice          *float64 `json:"minimum_job_price" validate:"required,gte=0"`
	MarkupPercent            *float64 `json:"markup_percent" validate:"required,gte=0,lte=500"`
	RidgeVentPerLF           *float64 `json:"ridge_vent_per_lf" validate:"required,gte=0"`
	DripEdgePerLF            *float64 `json:"drip_edge_per_lf" validate:"required,gte=0"`
	IceWaterPerSquare        *float64 `json:"ice_water_per_square" validate:"required,gte=0"`
	SteepChargeFlat          *float64 `json:"steep_charge_flat" validate:"required,gte=0"`
	PermitFeeFlat            *float64 `json:"permit_fee_flat" validate:"required,gte=0"`
}

func (r rateCardRequest) toRateCard() pricing.RateCard {
	return pricing.RateCard{
		LaborPerSquare:           *r.LaborPerSquare,
		ShinglesPerSquare:        *r.ShinglesPerSquare,
		UnderlaymentPerSquare:    *r.UnderlaymentPerSquare,
		TearoffDisposalPerSquare: *r.TearoffDisposalPerSquare,
		MinimumJobPrice:          *r.MinimumJobPrice,
		MarkupPercent:            *r.MarkupPercent,
		RidgeVentPerLF:           *r.RidgeVentPerLF,
		DripEdgePerLF:            *r.DripEdgePerLF,
		IceWaterPerSquare:        *r.IceWaterPerSquare,
		SteepChargeFlat:          *r.SteepChargeFlat,
		PermitFeeFlat:            *r.PermitFeeFlat,
	}
}

// RateCardGet returns the stored roofing rate card or the settings defaults.
func RateCardGet(svc ratecards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate card service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), contractorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func RateCardUpsert(svc ratecards.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rate card service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rateCardRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Upsert(r.Context(), contractorID, payload.toRateCard())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
