package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/api/middleware"
	"github.com/lucasferri/distribuidora-backend/api/responses"
	"github.com/lucasferri/distribuidora-backend/api/validators"
	ordersvc "github.com/lucasferri/distribuidora-backend/internal/orders"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

// CreateOrder handles storefront checkout.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payload.toCreateInput()
		input.CustomerIP = middleware.ClientIPFromContext(r.Context())

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GetOrder returns a single order with its item snapshots.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func orderIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "orderId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Identificador de pedido inválido")
	}
	return id, nil
}

type orderItemRequest struct {
	ProductID   int64           `json:"product_id" validate:"required,min=1"`
	ProductName string          `json:"product_name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerEmail   string             `json:"customer_email" validate:"omitempty,email"`
	CustomerAddress string             `json:"customer_address"`
	CustomerCEP     string             `json:"customer_cep"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	CouponCode      string             `json:"coupon_code"`
	DiscountAmount  *decimal.Decimal   `json:"discount_amount"`
	FinalAmount     *decimal.Decimal   `json:"final_amount"`
	Notes           string             `json:"notes"`
	PaymentMethod   string             `json:"payment_method"`
}

func (p createOrderRequest) toCreateInput() ordersvc.CreateInput {
	items := make([]ordersvc.ItemInput, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, ordersvc.ItemInput{
			ProductID:   item.ProductID,
			ProductName: validators.SanitizeString(item.ProductName, 255),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	return ordersvc.CreateInput{
		CustomerName:    validators.SanitizeString(p.CustomerName, 255),
		CustomerPhone:   validators.SanitizeString(p.CustomerPhone, 32),
		CustomerEmail:   validators.SanitizeString(p.CustomerEmail, 255),
		CustomerAddress: validators.SanitizeString(p.CustomerAddress, 500),
		CustomerCEP:     validators.SanitizeString(p.CustomerCEP, 16),
		Items:           items,
		TotalAmount:     p.TotalAmount,
		CouponCode:      validators.SanitizeString(p.CouponCode, 64),
		DiscountAmount:  p.DiscountAmount,
		FinalAmount:     p.FinalAmount,
		Notes:           validators.SanitizeString(p.Notes, 1000),
		PaymentMethod:   validators.SanitizeString(p.PaymentMethod, 32),
	}
}
