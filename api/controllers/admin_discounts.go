package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/api/responses"
	"github.com/lucasferri/distribuidora-backend/api/validators"
	discountsvc "github.com/lucasferri/distribuidora-backend/internal/discounts"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

type discountRequest struct {
	ProductID     int64           `json:"product_id" validate:"required,min=1"`
	DiscountType  string          `json:"discount_type" validate:"required"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	TriggerValue  int             `json:"trigger_value" validate:"required,min=1"`
	IsActive      bool            `json:"is_active"`
}

func (p discountRequest) toInput() (discountsvc.DiscountInput, error) {
	discountType, err := enums.ParseDiscountType(p.DiscountType)
	if err != nil {
		return discountsvc.DiscountInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Tipo de desconto inválido")
	}
	return discountsvc.DiscountInput{
		ProductID:     p.ProductID,
		DiscountType:  discountType,
		DiscountValue: p.DiscountValue,
		TriggerValue:  p.TriggerValue,
		IsActive:      p.IsActive,
	}, nil
}

func AdminListDiscounts(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discounts, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discounts)
	}
}

func AdminCreateDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload discountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discount, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, discount)
	}
}

func AdminUpdateDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload discountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discount, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discount)
	}
}

func AdminDeleteDiscount(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
