package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	ordersvc "github.com/lucasferri/distribuidora-backend/internal/orders"
	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

type stubOrderService struct {
	created *ordersvc.CreateInput
	result  *ordersvc.CreateResult
	order   *models.Order
	err     error
}

func (s *stubOrderService) Create(ctx context.Context, input ordersvc.CreateInput) (*ordersvc.CreateResult, error) {
	s.created = &input
	return s.result, s.err
}

func (s *stubOrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	if s.order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pedido não encontrado")
	}
	return s.order, s.err
}

func (s *stubOrderService) List(ctx context.Context, params ordersvc.ListParams) (*ordersvc.ListResult, error) {
	return &ordersvc.ListResult{}, s.err
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) AttachPix(ctx context.Context, id int64, fields ordersvc.PixFields) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) Delete(ctx context.Context, id int64) error { return s.err }

func TestCreateOrderSuccess(t *testing.T) {
	svc := &stubOrderService{
		result: &ordersvc.CreateResult{
			Order: &models.Order{ID: 42, Status: enums.OrderStatusPending},
			PaymentInfo: ordersvc.PaymentInfo{
				AutomaticModeEnabled:  true,
				AutomaticPixGenerated: true,
				PixAvailable:          true,
				PixSource:             enums.PixSourceAutomatic,
			},
		},
	}
	handler := CreateOrder(svc, nil)

	body := `{
		"customer_name": "João",
		"items": [{"product_id": 7, "product_name": "Cerveja IPA", "unit_price": "12.50", "quantity": 2}],
		"total_amount": "25.00"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.created == nil {
		t.Fatal("expected service call")
	}
	if len(svc.created.Items) != 1 || svc.created.Items[0].ProductID != 7 {
		t.Fatalf("unexpected items: %+v", svc.created.Items)
	}
	if !svc.created.TotalAmount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected total: %s", svc.created.TotalAmount)
	}
	if svc.created.CustomerIP == "" {
		t.Fatal("expected client ip forwarded to service")
	}

	var envelope struct {
		Data ordersvc.CreateResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Order == nil || envelope.Data.Order.ID != 42 {
		t.Fatalf("unexpected order payload: %+v", envelope.Data.Order)
	}
	if !envelope.Data.PaymentInfo.PixAvailable {
		t.Fatal("expected pix_available flag")
	}
}

func TestCreateOrderRejectsMissingItems(t *testing.T) {
	svc := &stubOrderService{}
	handler := CreateOrder(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"total_amount":"10"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.created != nil {
		t.Fatal("service should not be called on validation failure")
	}
}

func TestCreateOrderSurfacesServiceValidation(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeValidation, "Valor total do pedido inválido")}
	handler := CreateOrder(svc, nil)

	body := `{"items":[{"product_id":1,"product_name":"Água","unit_price":"0","quantity":1}],"total_amount":"0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Valor total do pedido inválido") {
		t.Fatalf("expected service message in body, got %s", resp.Body.String())
	}
}

func TestGetOrderRejectsBadID(t *testing.T) {
	handler := GetOrder(&stubOrderService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
