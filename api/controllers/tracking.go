package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/api/middleware"
	"github.com/lucasferri/distribuidora-backend/api/responses"
	"github.com/lucasferri/distribuidora-backend/api/validators"
	trackingsvc "github.com/lucasferri/distribuidora-backend/internal/tracking"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

type trackCartRequest struct {
	SessionID    string          `json:"session_id" validate:"required"`
	ProductID    int64           `json:"product_id" validate:"required,min=1"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity" validate:"omitempty,min=1"`
}

// TrackCart records one cart-addition event and returns any dynamic
// discounts the addition just triggered.
func TrackCart(svc trackingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		var payload trackCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Track(r.Context(), trackingsvc.TrackInput{
			SessionID:    validators.SanitizeString(payload.SessionID, 128),
			ProductID:    payload.ProductID,
			ProductPrice: payload.ProductPrice,
			Quantity:     payload.Quantity,
			CustomerIP:   middleware.ClientIPFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
