package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/api/responses"
	"github.com/lucasferri/distribuidora-backend/api/validators"
	couponsvc "github.com/lucasferri/distribuidora-backend/internal/coupons"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

type couponRequest struct {
	Code               string          `json:"code" validate:"required"`
	DiscountType       string          `json:"discount_type" validate:"required"`
	DiscountValue      decimal.Decimal `json:"discount_value"`
	MinimumOrderAmount decimal.Decimal `json:"minimum_order_amount"`
	UsageLimit         *int            `json:"usage_limit" validate:"omitempty,min=1"`
	ValidFrom          *time.Time      `json:"valid_from"`
	ValidUntil         *time.Time      `json:"valid_until"`
	IsActive           bool            `json:"is_active"`
}

func (p couponRequest) toInput() (couponsvc.CouponInput, error) {
	discountType, err := enums.ParseDiscountType(p.DiscountType)
	if err != nil {
		return couponsvc.CouponInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Tipo de desconto inválido")
	}
	return couponsvc.CouponInput{
		Code:               validators.SanitizeString(p.Code, 64),
		DiscountType:       discountType,
		DiscountValue:      p.DiscountValue,
		MinimumOrderAmount: p.MinimumOrderAmount,
		UsageLimit:         p.UsageLimit,
		ValidFrom:          p.ValidFrom,
		ValidUntil:         p.ValidUntil,
		IsActive:           p.IsActive,
	}, nil
}

func AdminListCoupons(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coupons, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupons)
	}
}

func AdminCreateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload couponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		coupon, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

func AdminUpdateCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "couponId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload couponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		coupon, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

func AdminDeleteCoupon(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "couponId")
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
