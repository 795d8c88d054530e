package discounts

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
)

type fakeRepository struct {
	listActiveFn func(ctx context.Context, productID int64) ([]models.DynamicDiscount, error)
	countFn      func(ctx context.Context, productID int64) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) ListActiveByProduct(ctx context.Context, productID int64) ([]models.DynamicDiscount, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx, productID)
	}
	return nil, nil
}

func (f *fakeRepository) List(ctx context.Context) ([]models.DynamicDiscount, error) {
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.DynamicDiscount, error) {
	return nil, nil
}

func (f *fakeRepository) Create(ctx context.Context, discount *models.DynamicDiscount) error {
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, discount *models.DynamicDiscount) error {
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeRepository) CountCartAdditions(ctx context.Context, productID int64) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx, productID)
	}
	return 0, nil
}

func discountWithTrigger(id int64, trigger int) models.DynamicDiscount {
	return models.DynamicDiscount{
		ID:               id,
		ProductID:        1,
		DiscountType:     enums.DiscountTypePercentage,
		DiscountValue:    decimal.NewFromInt(15),
		TriggerCondition: enums.TriggerConditionCartAdditions,
		TriggerValue:     trigger,
		IsActive:         true,
	}
}

func TestService_CheckTriggersAtThreshold(t *testing.T) {
	cases := []struct {
		name      string
		count     int64
		triggered bool
	}{
		{name: "below threshold", count: 4, triggered: false},
		{name: "at threshold", count: 5, triggered: true},
		{name: "past threshold stays triggered", count: 50, triggered: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepository{
				listActiveFn: func(ctx context.Context, productID int64) ([]models.DynamicDiscount, error) {
					return []models.DynamicDiscount{discountWithTrigger(1, 5)}, nil
				},
				countFn: func(ctx context.Context, productID int64) (int64, error) {
					return tc.count, nil
				},
			}
			svc, _ := NewService(repo)

			triggered, err := svc.CheckTriggers(context.Background(), 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.triggered && len(triggered) != 1 {
				t.Fatalf("expected 1 triggered discount, got %d", len(triggered))
			}
			if !tc.triggered && len(triggered) != 0 {
				t.Fatalf("expected no triggered discounts, got %d", len(triggered))
			}
		})
	}
}

func TestService_CheckTriggersIndependentDiscounts(t *testing.T) {
	repo := &fakeRepository{
		listActiveFn: func(ctx context.Context, productID int64) ([]models.DynamicDiscount, error) {
			return []models.DynamicDiscount{
				discountWithTrigger(1, 5),
				discountWithTrigger(2, 10),
				discountWithTrigger(3, 100),
			}, nil
		},
		countFn: func(ctx context.Context, productID int64) (int64, error) {
			return 12, nil
		},
	}
	svc, _ := NewService(repo)

	triggered, err := svc.CheckTriggers(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triggered) != 2 {
		t.Fatalf("expected both crossed discounts, got %d", len(triggered))
	}
	if triggered[0].ID != 1 || triggered[1].ID != 2 {
		t.Fatalf("unexpected triggered ids %d, %d", triggered[0].ID, triggered[1].ID)
	}
}

func TestService_Progress(t *testing.T) {
	repo := &fakeRepository{
		listActiveFn: func(ctx context.Context, productID int64) ([]models.DynamicDiscount, error) {
			return []models.DynamicDiscount{discountWithTrigger(1, 10)}, nil
		},
		countFn: func(ctx context.Context, productID int64) (int64, error) {
			return 7, nil
		},
	}
	svc, _ := NewService(repo)

	progress, err := svc.Progress(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(progress) != 1 {
		t.Fatalf("expected 1 progress row, got %d", len(progress))
	}
	row := progress[0]
	if row.CurrentAdditions != 7 || row.RemainingAdditions != 3 || row.IsTriggered {
		t.Fatalf("unexpected progress %+v", row)
	}
}

func TestService_ProgressNoConfiguredDiscounts(t *testing.T) {
	counted := false
	repo := &fakeRepository{
		countFn: func(ctx context.Context, productID int64) (int64, error) {
			counted = true
			return 0, nil
		},
	}
	svc, _ := NewService(repo)

	progress, err := svc.Progress(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress != nil {
		t.Fatalf("expected nil progress, got %+v", progress)
	}
	if counted {
		t.Fatal("expected no count query without configured discounts")
	}
}
