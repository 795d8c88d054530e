package orders

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/internal/coupons"
	"github.com/lucasferri/distribuidora-backend/internal/settings"
	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/pagination"
	"github.com/lucasferri/distribuidora-backend/pkg/pagleve"
)

type stubOrdersRepo struct {
	created      *models.Order
	pixUpdates   []PixFields
	statusWrites []enums.OrderStatus
	findFn       func(ctx context.Context, id int64) (*models.Order, error)
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = 42
	s.created = order
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	if s.findFn != nil {
		return s.findFn(ctx, id)
	}
	if s.created != nil && s.created.ID == id {
		return s.created, nil
	}
	return nil, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, params listOrdersParams) ([]models.Order, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) (int64, error) {
	s.statusWrites = append(s.statusWrites, status)
	if s.created != nil && s.created.ID == id {
		s.created.Status = status
		return 1, nil
	}
	return 0, nil
}

func (s *stubOrdersRepo) UpdatePixFields(ctx context.Context, id int64, fields PixFields) error {
	s.pixUpdates = append(s.pixUpdates, fields)
	return nil
}

func (s *stubOrdersRepo) Delete(ctx context.Context, id int64) error { return nil }

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCouponRepo struct {
	coupon *models.Coupon
}

func (s *stubCouponRepo) WithTx(tx *gorm.DB) coupons.Repository { return s }

func (s *stubCouponRepo) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return s.coupon, nil
}

func (s *stubCouponRepo) FindByID(ctx context.Context, id int64) (*models.Coupon, error) {
	return nil, nil
}

func (s *stubCouponRepo) List(ctx context.Context) ([]models.Coupon, error) { return nil, nil }

func (s *stubCouponRepo) Create(ctx context.Context, coupon *models.Coupon) error { return nil }

func (s *stubCouponRepo) Update(ctx context.Context, coupon *models.Coupon) error { return nil }

func (s *stubCouponRepo) Delete(ctx context.Context, id int64) error { return nil }

func (s *stubCouponRepo) IncrementUsage(ctx context.Context, couponID int64) (int64, error) {
	return 1, nil
}

func (s *stubCouponRepo) RecordUsage(ctx context.Context, usage *models.CouponUsage) error {
	return nil
}

type stubCouponService struct {
	redeemFn func(ctx context.Context, couponID, orderID int64, discount decimal.Decimal) (bool, error)
	redeems  int
}

func (s *stubCouponService) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*coupons.ValidationResult, error) {
	return nil, nil
}

func (s *stubCouponService) Redeem(ctx context.Context, couponID, orderID int64, discount decimal.Decimal) (bool, error) {
	s.redeems++
	if s.redeemFn != nil {
		return s.redeemFn(ctx, couponID, orderID, discount)
	}
	return true, nil
}

func (s *stubCouponService) WithTx(repo coupons.Repository) coupons.Service { return s }

func (s *stubCouponService) List(ctx context.Context) ([]models.Coupon, error) { return nil, nil }

func (s *stubCouponService) Create(ctx context.Context, input coupons.CouponInput) (*models.Coupon, error) {
	return nil, nil
}

func (s *stubCouponService) Update(ctx context.Context, id int64, input coupons.CouponInput) (*models.Coupon, error) {
	return nil, nil
}

func (s *stubCouponService) Delete(ctx context.Context, id int64) error { return nil }

type stubSettings struct {
	payment settings.PaymentSettings
}

func (s *stubSettings) GetAll(ctx context.Context) (map[string]string, error) { return nil, nil }

func (s *stubSettings) Put(ctx context.Context, values map[string]string) error { return nil }

func (s *stubSettings) Payment(ctx context.Context) (settings.PaymentSettings, error) {
	return s.payment, nil
}

type stubPix struct {
	refs    []string
	results []pagleve.PixResult
}

func (s *stubPix) GeneratePix(ctx context.Context, order pagleve.PixOrder, creds pagleve.Credentials) pagleve.PixResult {
	s.refs = append(s.refs, order.OrderRef)
	code := "pix-" + order.OrderRef
	result := pagleve.PixResult{
		Source:       enums.PixSourceAutomatic,
		PixCopyPaste: &code,
		PaymentID:    "pay-" + order.OrderRef,
		ExpiresAt:    time.Now().Add(pagleve.PixExpiry),
		AuthMethod:   "basic (data shape)",
	}
	s.results = append(s.results, result)
	return result
}

func newTestService(repo *stubOrdersRepo, couponRepo *stubCouponRepo, couponSvc *stubCouponService, setting *stubSettings, pix *stubPix) Service {
	svc, err := NewService(repo, stubTxRunner{}, couponRepo, couponSvc, setting, pix, nil)
	if err != nil {
		panic(err)
	}
	return svc
}

func beerOrder() CreateInput {
	return CreateInput{
		Items: []ItemInput{{
			ProductID:   1,
			ProductName: "Cerveja",
			UnitPrice:   decimal.NewFromFloat(5),
			Quantity:    2,
		}},
		TotalAmount:   decimal.NewFromFloat(10),
		PaymentMethod: "pix",
	}
}

func TestService_CreateManualMode(t *testing.T) {
	repo := &stubOrdersRepo{}
	pix := &stubPix{}
	svc := newTestService(repo, &stubCouponRepo{}, &stubCouponService{}, &stubSettings{}, pix)

	result, err := svc.Create(context.Background(), beerOrder())
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	order := result.Order
	if order.Status != enums.OrderStatusAwaitingQR {
		t.Fatalf("expected awaiting_qr, got %s", order.Status)
	}
	if order.QRCodeURL != nil || order.PixCopyPaste != nil {
		t.Fatal("expected no pix payload in manual mode")
	}
	if !order.TotalAmount.Equal(decimal.NewFromFloat(10)) || !order.FinalAmount.Equal(decimal.NewFromFloat(10)) {
		t.Fatalf("unexpected amounts %s / %s", order.TotalAmount, order.FinalAmount)
	}
	if len(pix.refs) != 0 {
		t.Fatalf("expected no gateway calls in manual mode, got %d", len(pix.refs))
	}
	if result.PaymentInfo.AutomaticModeEnabled || result.PaymentInfo.PixAvailable {
		t.Fatalf("unexpected payment info %+v", result.PaymentInfo)
	}
}

func TestService_CreateAutomaticTwoPassPix(t *testing.T) {
	repo := &stubOrdersRepo{}
	pix := &stubPix{}
	setting := &stubSettings{payment: settings.PaymentSettings{
		AutomaticPaymentsEnabled: true,
		PagLeveAPIKey:            "key",
		PagLeveSecret:            "secret",
	}}
	svc := newTestService(repo, &stubCouponRepo{}, &stubCouponService{}, setting, pix)

	result, err := svc.Create(context.Background(), beerOrder())
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if len(pix.refs) != 2 {
		t.Fatalf("expected two generation passes, got %d", len(pix.refs))
	}
	if _, err := strconv.ParseInt(pix.refs[0], 10, 64); err != nil {
		t.Fatalf("expected numeric synthetic ref, got %q", pix.refs[0])
	}
	if pix.refs[1] != "42" {
		t.Fatalf("expected second pass with real order id, got %q", pix.refs[1])
	}
	order := result.Order
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if order.PixCopyPaste == nil || *order.PixCopyPaste != "pix-42" {
		t.Fatalf("expected regenerated payload, got %v", order.PixCopyPaste)
	}
	if len(repo.pixUpdates) != 1 {
		t.Fatalf("expected one pix overwrite after commit, got %d", len(repo.pixUpdates))
	}
	if !result.PaymentInfo.AutomaticPixGenerated || !result.PaymentInfo.PixAvailable {
		t.Fatalf("unexpected payment info %+v", result.PaymentInfo)
	}
	if result.PaymentInfo.PixSource != enums.PixSourceAutomatic {
		t.Fatalf("unexpected pix source %s", result.PaymentInfo.PixSource)
	}
}

func TestService_CreateManualModeWinsOverAutomatic(t *testing.T) {
	repo := &stubOrdersRepo{}
	pix := &stubPix{}
	setting := &stubSettings{payment: settings.PaymentSettings{
		AutomaticPaymentsEnabled: true,
		ManualOperatorMode:       true,
	}}
	svc := newTestService(repo, &stubCouponRepo{}, &stubCouponService{}, setting, pix)

	result, err := svc.Create(context.Background(), beerOrder())
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if result.Order.Status != enums.OrderStatusAwaitingQR {
		t.Fatalf("expected awaiting_qr, got %s", result.Order.Status)
	}
	if len(pix.refs) != 0 {
		t.Fatal("expected no gateway calls in manual operator mode")
	}
}

func TestService_CreateRedeemsCoupon(t *testing.T) {
	repo := &stubOrdersRepo{}
	couponRepo := &stubCouponRepo{coupon: &models.Coupon{ID: 7, Code: "save10"}}
	var redeemedOrder int64
	couponSvc := &stubCouponService{
		redeemFn: func(ctx context.Context, couponID, orderID int64, discount decimal.Decimal) (bool, error) {
			if couponID != 7 {
				t.Fatalf("unexpected coupon id %d", couponID)
			}
			redeemedOrder = orderID
			if !discount.Equal(decimal.NewFromInt(2)) {
				t.Fatalf("unexpected discount %s", discount)
			}
			return true, nil
		},
	}
	svc := newTestService(repo, couponRepo, couponSvc, &stubSettings{}, &stubPix{})

	input := beerOrder()
	input.CouponCode = "SAVE10"
	d := decimal.NewFromInt(2)
	input.DiscountAmount = &d

	result, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	if redeemedOrder != 42 {
		t.Fatalf("expected redemption against order 42, got %d", redeemedOrder)
	}
	if result.Order.CouponCode == nil || *result.Order.CouponCode != "save10" {
		t.Fatalf("expected lowercase coupon code on order, got %v", result.Order.CouponCode)
	}
	if !result.Order.FinalAmount.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected final 8, got %s", result.Order.FinalAmount)
	}
}

func TestService_CreateSurvivesCouponLimitAtCommit(t *testing.T) {
	repo := &stubOrdersRepo{}
	couponRepo := &stubCouponRepo{coupon: &models.Coupon{ID: 7, Code: "save10"}}
	couponSvc := &stubCouponService{
		redeemFn: func(ctx context.Context, couponID, orderID int64, discount decimal.Decimal) (bool, error) {
			return false, nil
		},
	}
	svc := newTestService(repo, couponRepo, couponSvc, &stubSettings{}, &stubPix{})

	input := beerOrder()
	input.CouponCode = "save10"
	d := decimal.NewFromInt(2)
	input.DiscountAmount = &d

	result, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("expected order to commit despite exhausted coupon, got %v", err)
	}
	if result.Order.ID != 42 {
		t.Fatalf("expected committed order, got %+v", result.Order)
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService(&stubOrdersRepo{}, &stubCouponRepo{}, &stubCouponService{}, &stubSettings{}, &stubPix{})

	cases := []struct {
		name  string
		input CreateInput
	}{
		{name: "no items", input: CreateInput{TotalAmount: decimal.NewFromInt(10)}},
		{name: "zero total", input: CreateInput{Items: beerOrder().Items}},
		{
			name: "zero quantity",
			input: CreateInput{
				Items:       []ItemInput{{ProductID: 1, ProductName: "Cerveja", UnitPrice: decimal.NewFromInt(5)}},
				TotalAmount: decimal.NewFromInt(10),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	repo := &stubOrdersRepo{created: &models.Order{ID: 42, Status: enums.OrderStatusPending}}
	svc := newTestService(repo, &stubCouponRepo{}, &stubCouponService{}, &stubSettings{}, &stubPix{})

	order, err := svc.UpdateStatus(context.Background(), 42, "confirmed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", order.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), 42, "shipped")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), 999, "confirmed")
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_AttachPixAdvancesStatus(t *testing.T) {
	repo := &stubOrdersRepo{created: &models.Order{ID: 42, Status: enums.OrderStatusAwaitingQR}}
	svc := newTestService(repo, &stubCouponRepo{}, &stubCouponService{}, &stubSettings{}, &stubPix{})

	code := "00020126manual-code"
	order, err := svc.AttachPix(context.Background(), 42, PixFields{PixCopyPaste: &code})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending after manual attach, got %s", order.Status)
	}
	if len(repo.pixUpdates) != 1 {
		t.Fatalf("expected one pix write, got %d", len(repo.pixUpdates))
	}

	_, err = svc.AttachPix(context.Background(), 42, PixFields{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty attach, got %v", err)
	}
}
