package controllers

import (
	"net/http"

	"github.com/lucasferri/distribuidora-backend/api/responses"
	"github.com/lucasferri/distribuidora-backend/api/validators"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
	"github.com/lucasferri/distribuidora-backend/pkg/pagleve"
)

type testPagLeveRequest struct {
	APIKey   string   `json:"api_key"`
	Secret   string   `json:"secret"`
	BaseURLs []string `json:"base_urls"`
}

// TestPagLeve probes candidate gateway configurations so an operator can
// discover a working base URL, auth scheme, and path without touching real
// orders.
func TestPagLeve(client *pagleve.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gateway client unavailable"))
			return
		}

		var payload testPagLeveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := client.Probe(r.Context(), pagleve.ProbeInput{
			APIKey:   payload.APIKey,
			Secret:   payload.Secret,
			BaseURLs: payload.BaseURLs,
		})

		responses.WriteSuccess(w, result)
	}
}
