package coupons

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

type fakeRepository struct {
	findActiveFn     func(ctx context.Context, code string) (*models.Coupon, error)
	incrementUsageFn func(ctx context.Context, couponID int64) (int64, error)
	recordUsageFn    func(ctx context.Context, usage *models.CouponUsage) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, code)
	}
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.Coupon, error) {
	return nil, nil
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Coupon, error) { return nil, nil }

func (f *fakeRepository) Create(ctx context.Context, coupon *models.Coupon) error { return nil }

func (f *fakeRepository) Update(ctx context.Context, coupon *models.Coupon) error { return nil }

func (f *fakeRepository) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeRepository) IncrementUsage(ctx context.Context, couponID int64) (int64, error) {
	if f.incrementUsageFn != nil {
		return f.incrementUsageFn(ctx, couponID)
	}
	return 1, nil
}

func (f *fakeRepository) RecordUsage(ctx context.Context, usage *models.CouponUsage) error {
	if f.recordUsageFn != nil {
		return f.recordUsageFn(ctx, usage)
	}
	return nil
}

func save10() *models.Coupon {
	return &models.Coupon{
		ID:                 1,
		Code:               "save10",
		DiscountType:       enums.DiscountTypePercentage,
		DiscountValue:      decimal.NewFromInt(10),
		MinimumOrderAmount: decimal.NewFromInt(50),
		IsActive:           true,
	}
}

func serviceWith(repo Repository) *service {
	svc, _ := NewService(repo)
	return svc.(*service)
}

func TestService_ValidatePercentage(t *testing.T) {
	repo := &fakeRepository{
		findActiveFn: func(ctx context.Context, code string) (*models.Coupon, error) {
			if code != "SAVE10" {
				t.Fatalf("unexpected code %q", code)
			}
			return save10(), nil
		},
	}
	svc := serviceWith(repo)

	result, err := svc.Validate(context.Background(), "SAVE10", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("unexpected validate error: %v", err)
	}
	if !result.Valid {
		t.Fatal("expected valid result")
	}
	if !result.DiscountAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected discount 10, got %s", result.DiscountAmount)
	}
	if !result.FinalAmount.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected final 90, got %s", result.FinalAmount)
	}
	if result.Coupon.Code != "save10" {
		t.Fatalf("expected lowercase stored code, got %q", result.Coupon.Code)
	}
}

func TestService_ValidateBelowMinimum(t *testing.T) {
	repo := &fakeRepository{
		findActiveFn: func(ctx context.Context, code string) (*models.Coupon, error) {
			return save10(), nil
		},
	}
	svc := serviceWith(repo)

	_, err := svc.Validate(context.Background(), "SAVE10", decimal.NewFromInt(30))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(appErr.Message(), "50,00") {
		t.Fatalf("expected BRL-formatted minimum in message, got %q", appErr.Message())
	}
}

func TestService_ValidateRejections(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)
	limit := 3

	cases := []struct {
		name    string
		coupon  *models.Coupon
		message string
	}{
		{name: "not found", coupon: nil, message: "Cupom inválido ou inativo"},
		{
			name: "not yet valid",
			coupon: func() *models.Coupon {
				c := save10()
				c.ValidFrom = &future
				return c
			}(),
			message: "Cupom ainda não está em vigor",
		},
		{
			name: "expired",
			coupon: func() *models.Coupon {
				c := save10()
				c.ValidUntil = &past
				return c
			}(),
			message: "Cupom expirado",
		},
		{
			name: "usage limit reached",
			coupon: func() *models.Coupon {
				c := save10()
				c.UsageLimit = &limit
				c.UsedCount = 3
				return c
			}(),
			message: "Cupom esgotado",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepository{
				findActiveFn: func(ctx context.Context, code string) (*models.Coupon, error) {
					return tc.coupon, nil
				},
			}
			svc := serviceWith(repo)

			_, err := svc.Validate(context.Background(), "SAVE10", decimal.NewFromInt(100))
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if appErr.Message() != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, appErr.Message())
			}
		})
	}
}

func TestComputeDiscountClamps(t *testing.T) {
	order := decimal.NewFromInt(40)

	fixed := ComputeDiscount(enums.DiscountTypeFixed, decimal.NewFromInt(100), order)
	if !fixed.Equal(order) {
		t.Fatalf("expected fixed discount clamped to %s, got %s", order, fixed)
	}

	percent := ComputeDiscount(enums.DiscountTypePercentage, decimal.NewFromInt(10), order)
	if !percent.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("expected 4, got %s", percent)
	}

	unknown := ComputeDiscount(enums.DiscountType("bogus"), decimal.NewFromInt(10), order)
	if !unknown.IsZero() {
		t.Fatalf("expected zero for unknown type, got %s", unknown)
	}
}

func TestService_RedeemAtLimitBoundary(t *testing.T) {
	recorded := false
	repo := &fakeRepository{
		incrementUsageFn: func(ctx context.Context, couponID int64) (int64, error) {
			return 0, nil
		},
		recordUsageFn: func(ctx context.Context, usage *models.CouponUsage) error {
			recorded = true
			return nil
		},
	}
	svc := serviceWith(repo)

	consumed, err := svc.Redeem(context.Background(), 1, 42, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("unexpected redeem error: %v", err)
	}
	if consumed {
		t.Fatal("expected redemption to be skipped at the limit")
	}
	if recorded {
		t.Fatal("expected no usage row when the limit was reached")
	}
}

func TestService_RedeemRecordsUsage(t *testing.T) {
	var captured *models.CouponUsage
	repo := &fakeRepository{
		recordUsageFn: func(ctx context.Context, usage *models.CouponUsage) error {
			captured = usage
			return nil
		},
	}
	svc := serviceWith(repo)

	consumed, err := svc.Redeem(context.Background(), 7, 42, decimal.NewFromFloat(12.5))
	if err != nil {
		t.Fatalf("unexpected redeem error: %v", err)
	}
	if !consumed {
		t.Fatal("expected redemption to succeed")
	}
	if captured == nil || captured.CouponID != 7 || captured.OrderID != 42 {
		t.Fatalf("unexpected usage row %+v", captured)
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		amount decimal.Decimal
		want   string
	}{
		{amount: decimal.NewFromInt(50), want: "R$ 50,00"},
		{amount: decimal.NewFromFloat(1234.5), want: "R$ 1.234,50"},
		{amount: decimal.NewFromFloat(0.99), want: "R$ 0,99"},
		{amount: decimal.NewFromInt(1000000), want: "R$ 1.000.000,00"},
	}

	for _, tc := range cases {
		if got := FormatBRL(tc.amount); got != tc.want {
			t.Fatalf("FormatBRL(%s) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
