package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	couponsvc "github.com/lucasferri/distribuidora-backend/internal/coupons"
	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

type stubCouponService struct {
	result *couponsvc.ValidationResult
	err    error
}

func (s *stubCouponService) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*couponsvc.ValidationResult, error) {
	return s.result, s.err
}

func (s *stubCouponService) Redeem(ctx context.Context, couponID, orderID int64, discountAmount decimal.Decimal) (bool, error) {
	return false, nil
}

func (s *stubCouponService) WithTx(repo couponsvc.Repository) couponsvc.Service { return s }

func (s *stubCouponService) List(ctx context.Context) ([]models.Coupon, error) { return nil, nil }

func (s *stubCouponService) Create(ctx context.Context, input couponsvc.CouponInput) (*models.Coupon, error) {
	return nil, nil
}

func (s *stubCouponService) Update(ctx context.Context, id int64, input couponsvc.CouponInput) (*models.Coupon, error) {
	return nil, nil
}

func (s *stubCouponService) Delete(ctx context.Context, id int64) error { return nil }

func TestValidateCouponSuccess(t *testing.T) {
	svc := &stubCouponService{
		result: &couponsvc.ValidationResult{
			Valid: true,
			Coupon: couponsvc.CouponSummary{
				ID:            3,
				Code:          "bebida10",
				DiscountType:  enums.DiscountTypePercentage,
				DiscountValue: decimal.NewFromInt(10),
			},
			DiscountAmount: decimal.RequireFromString("10.00"),
			FinalAmount:    decimal.RequireFromString("90.00"),
			Message:        "Cupom aplicado com sucesso",
		},
	}
	handler := ValidateCoupon(svc, nil)

	body := `{"code":"bebida10","order_amount":"100.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data couponsvc.ValidationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Valid {
		t.Fatal("expected valid result")
	}
	if envelope.Data.Coupon.Code != "bebida10" {
		t.Fatalf("unexpected coupon: %+v", envelope.Data.Coupon)
	}
}

func TestValidateCouponRejectionKeepsMessage(t *testing.T) {
	svc := &stubCouponService{
		err: pkgerrors.New(pkgerrors.CodeValidation, "O valor mínimo do pedido para este cupom é de R$ 50,00"),
	}
	handler := ValidateCoupon(svc, nil)

	body := `{"code":"bebida10","order_amount":"30.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "R$ 50,00") {
		t.Fatalf("expected localized minimum in body, got %s", resp.Body.String())
	}
}

func TestValidateCouponRequiresCode(t *testing.T) {
	handler := ValidateCoupon(&stubCouponService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/coupons/validate", strings.NewReader(`{"order_amount":"10"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
