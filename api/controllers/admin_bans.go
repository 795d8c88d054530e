package controllers

import (
	"net/http"

	"github.com/lucasferri/distribuidora-backend/api/responses"
	"github.com/lucasferri/distribuidora-backend/api/validators"
	bansvc "github.com/lucasferri/distribuidora-backend/internal/bans"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

type createBanRequest struct {
	IP     string `json:"ip" validate:"required"`
	Reason string `json:"reason"`
}

func AdminListBans(svc bansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ban service unavailable"))
			return
		}

		bansList, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bansList)
	}
}

func AdminCreateBan(svc bansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ban service unavailable"))
			return
		}

		var payload createBanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ban, err := svc.Create(r.Context(), payload.IP, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ban)
	}
}

func AdminDeactivateBan(svc bansvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ban service unavailable"))
			return
		}

		id, err := idParam(r, "banId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deactivated": true})
	}
}
