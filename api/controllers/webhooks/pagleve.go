package webhooks

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/lucasferri/distribuidora-backend/api/responses"
	paglevewebhook "github.com/lucasferri/distribuidora-backend/internal/webhooks/pagleve"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

const maxWebhookBody = 64 << 10

// pagLevePayload tolerates the gateway sending external_id as either a JSON
// string or a number.
type pagLevePayload struct {
	Status     string          `json:"status"`
	ExternalID json.RawMessage `json:"external_id"`
	PaymentID  string          `json:"payment_id"`
	EventID    string          `json:"event_id"`
}

func (p pagLevePayload) externalID() string {
	raw := strings.TrimSpace(string(p.ExternalID))
	return strings.Trim(raw, `"`)
}

// PagLeveWebhook ingests payment status callbacks from the gateway.
func PagLeveWebhook(svc paglevewebhook.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		var payload pagLevePayload
		if err := json.Unmarshal(body, &payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload"))
			return
		}

		result, err := svc.Process(ctx, paglevewebhook.Event{
			Status:     payload.Status,
			ExternalID: payload.externalID(),
			PaymentID:  payload.PaymentID,
			EventID:    payload.EventID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
