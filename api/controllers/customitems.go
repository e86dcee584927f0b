package controllers

import (
	"net/http"
	"strings"

	"github.com/leviwiederhold/forman/api/responses"
	"github.com/leviwiederhold/forman/api/validators"
	"github.com/leviwiederhold/forman/internal/customitems"
	"github.com/leviwiederhold/forman/pkg/enums"
	pkgerrors "github.com/leviwiederhold/forman/pkg/errors"
	"github.com/leviwiederhold/forman/pkg/logger"
)

const customItemNameMaxLen = 120

type customItemCreateRequest struct {
	Name        string   `json:"name" validate:"required,notblank"`
	PricingType string   `json:"pricing_type" validate:"required,oneof=flat per_unit"`
	UnitLabel   *string  `json:"unit_label"`
	UnitPrice   *float64 `json:"unit_price" validate:"required,gte=0"`
	Taxable     bool     `json:"taxable"`
}

func (r customItemCreateRequest) toInput() (customitems.CreateInput, error) {
	pricingType, err := enums.ParsePricingType(strings.TrimSpace(r.PricingType))
	if err != nil {
		return customitems.CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid pricing_type")
	}
	var label *string
	if r.UnitLabel != nil {
		trimmed := validators.SanitizeString(*r.UnitLabel, 40)
		label = &trimmed
	}
	return customitems.CreateInput{
		Name:        validators.SanitizeString(r.Name, customItemNameMaxLen),
		PricingType: pricingType,
		UnitLabel:   label,
		UnitPrice:   *r.UnitPrice,
		Taxable:     r.Taxable,
	}, nil
}

type customItemUpdateRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func CustomItemList(svc customitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custom item service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), contractorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func CustomItemCreate(svc customitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custom item service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customItemCreateRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), contractorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// CustomItemUpdate toggles whether a saved item is offered on new quotes.
func CustomItemUpdate(svc customitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custom item service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customItemUpdateRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.SetActive(r.Context(), contractorID, itemID, *payload.IsActive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func CustomItemDelete(svc customitems.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "custom item service unavailable"))
			return
		}
		contractorID, err := contractorIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), contractorID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
