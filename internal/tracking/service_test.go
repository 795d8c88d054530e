package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/internal/discounts"
	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

type fakeRepository struct {
	createFn func(ctx context.Context, event *models.CartEvent) error
	purgeFn  func(ctx context.Context) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, event *models.CartEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeRepository) PurgeAll(ctx context.Context) (int64, error) {
	if f.purgeFn != nil {
		return f.purgeFn(ctx)
	}
	return 0, nil
}

type fakeDiscounts struct {
	checkFn func(ctx context.Context, productID int64) ([]discounts.TriggeredDiscount, error)
}

func (f *fakeDiscounts) CheckTriggers(ctx context.Context, productID int64) ([]discounts.TriggeredDiscount, error) {
	if f.checkFn != nil {
		return f.checkFn(ctx, productID)
	}
	return nil, nil
}

func (f *fakeDiscounts) Progress(ctx context.Context, productID int64) ([]discounts.TriggerProgress, error) {
	return nil, nil
}

func (f *fakeDiscounts) List(ctx context.Context) ([]models.DynamicDiscount, error) {
	return nil, nil
}

func (f *fakeDiscounts) Create(ctx context.Context, input discounts.DiscountInput) (*models.DynamicDiscount, error) {
	return nil, nil
}

func (f *fakeDiscounts) Update(ctx context.Context, id int64, input discounts.DiscountInput) (*models.DynamicDiscount, error) {
	return nil, nil
}

func (f *fakeDiscounts) Delete(ctx context.Context, id int64) error { return nil }

func TestService_TrackReturnsTriggeredDiscounts(t *testing.T) {
	var stored *models.CartEvent
	repo := &fakeRepository{
		createFn: func(ctx context.Context, event *models.CartEvent) error {
			event.ID = 101
			stored = event
			return nil
		},
	}
	discountSvc := &fakeDiscounts{
		checkFn: func(ctx context.Context, productID int64) ([]discounts.TriggeredDiscount, error) {
			return []discounts.TriggeredDiscount{{
				ID:            3,
				ProductID:     productID,
				DiscountType:  enums.DiscountTypePercentage,
				DiscountValue: decimal.NewFromInt(15),
				TriggerValue:  5,
				CurrentCount:  5,
			}}, nil
		},
	}
	svc, err := NewService(repo, discountSvc, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	result, err := svc.Track(context.Background(), TrackInput{
		SessionID:    "sess-1",
		ProductID:    7,
		ProductPrice: decimal.NewFromFloat(8.9),
		CustomerIP:   "203.0.113.9",
	})
	if err != nil {
		t.Fatalf("unexpected track error: %v", err)
	}
	if result.EventID != 101 {
		t.Fatalf("expected event id 101, got %d", result.EventID)
	}
	if len(result.TriggeredDiscounts) != 1 {
		t.Fatalf("expected triggered discount, got %d", len(result.TriggeredDiscounts))
	}
	if stored.QuantityAdded != 1 {
		t.Fatalf("expected default quantity 1, got %d", stored.QuantityAdded)
	}
	if stored.CustomerIP == nil || *stored.CustomerIP != "203.0.113.9" {
		t.Fatalf("expected customer ip recorded, got %v", stored.CustomerIP)
	}
}

func TestService_TrackSurvivesTriggerFailure(t *testing.T) {
	repo := &fakeRepository{}
	discountSvc := &fakeDiscounts{
		checkFn: func(ctx context.Context, productID int64) ([]discounts.TriggeredDiscount, error) {
			return nil, errors.New("count failed")
		},
	}
	svc, _ := NewService(repo, discountSvc, nil)

	result, err := svc.Track(context.Background(), TrackInput{SessionID: "sess-1", ProductID: 7})
	if err != nil {
		t.Fatalf("expected stored event to win over trigger failure, got %v", err)
	}
	if len(result.TriggeredDiscounts) != 0 {
		t.Fatalf("expected no discounts on trigger failure, got %d", len(result.TriggeredDiscounts))
	}
}

func TestService_TrackValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{}, &fakeDiscounts{}, nil)

	_, err := svc.Track(context.Background(), TrackInput{ProductID: 7})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing session, got %v", err)
	}

	_, err = svc.Track(context.Background(), TrackInput{SessionID: "sess-1"})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing product, got %v", err)
	}
}
