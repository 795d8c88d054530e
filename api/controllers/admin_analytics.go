package controllers

import (
	"net/http"

	"github.com/lucasferri/distribuidora-backend/api/responses"
	analyticsvc "github.com/lucasferri/distribuidora-backend/internal/analytics"
	trackingsvc "github.com/lucasferri/distribuidora-backend/internal/tracking"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

// AdminCartAnalytics aggregates cart-addition events per product.
func AdminCartAnalytics(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		stats, err := svc.CartStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// AdminPurgeCartEvents wipes the cart-tracking table. Dynamic discount
// counters restart from zero afterwards.
func AdminPurgeCartEvents(svc trackingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		purged, err := svc.Purge(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"purged": purged})
	}
}
