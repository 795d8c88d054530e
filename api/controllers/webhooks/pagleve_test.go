package webhooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	paglevewebhook "github.com/lucasferri/distribuidora-backend/internal/webhooks/pagleve"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

type stubWebhookService struct {
	event  *paglevewebhook.Event
	result *paglevewebhook.Result
	err    error
}

func (s *stubWebhookService) Process(ctx context.Context, event paglevewebhook.Event) (*paglevewebhook.Result, error) {
	s.event = &event
	return s.result, s.err
}

func TestPagLeveWebhookStringExternalID(t *testing.T) {
	svc := &stubWebhookService{
		result: &paglevewebhook.Result{Handled: true, OrderID: 42, OrderStatus: enums.OrderStatusConfirmed},
	}
	handler := PagLeveWebhook(svc, nil)

	body := `{"status":"paid","external_id":"42","payment_id":"ch_123","event_id":"evt_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/pagleve", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.event == nil || svc.event.ExternalID != "42" {
		t.Fatalf("unexpected event: %+v", svc.event)
	}
	if svc.event.Status != "paid" {
		t.Fatalf("unexpected status: %s", svc.event.Status)
	}

	var envelope struct {
		Data paglevewebhook.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Handled || envelope.Data.OrderID != 42 {
		t.Fatalf("unexpected result payload: %+v", envelope.Data)
	}
}

func TestPagLeveWebhookNumericExternalID(t *testing.T) {
	svc := &stubWebhookService{result: &paglevewebhook.Result{Handled: true}}
	handler := PagLeveWebhook(svc, nil)

	body := `{"status":"cancelled","external_id":42}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/pagleve", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.event == nil || svc.event.ExternalID != "42" {
		t.Fatalf("expected numeric id coerced to string, got %+v", svc.event)
	}
}

func TestPagLeveWebhookRejectsMalformedBody(t *testing.T) {
	svc := &stubWebhookService{}
	handler := PagLeveWebhook(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/pagleve", strings.NewReader("not json"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.event != nil {
		t.Fatal("service should not be called for malformed body")
	}
}

func TestPagLeveWebhookSurfacesValidation(t *testing.T) {
	svc := &stubWebhookService{err: pkgerrors.New(pkgerrors.CodeValidation, "invalid webhook payload")}
	handler := PagLeveWebhook(svc, nil)

	body := `{"status":"","external_id":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/pagleve", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
