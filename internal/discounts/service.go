package discounts

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

// Service evaluates dynamic discount triggers and handles admin CRUD.
type Service interface {
	// CheckTriggers returns every active discount for the product whose
	// cumulative cart-addition count has reached its threshold. Triggers are
	// monotonic: once crossed, a discount stays triggered.
	CheckTriggers(ctx context.Context, productID int64) ([]TriggeredDiscount, error)
	// Progress reports how close a product is to each configured trigger.
	Progress(ctx context.Context, productID int64) ([]TriggerProgress, error)

	List(ctx context.Context) ([]models.DynamicDiscount, error)
	Create(ctx context.Context, input DiscountInput) (*models.DynamicDiscount, error)
	Update(ctx context.Context, id int64, input DiscountInput) (*models.DynamicDiscount, error)
	Delete(ctx context.Context, id int64) error
}

// TriggeredDiscount is one discount whose threshold has been crossed.
type TriggeredDiscount struct {
	ID            int64              `json:"id"`
	ProductID     int64              `json:"product_id"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
	TriggerValue  int                `json:"trigger_value"`
	CurrentCount  int64              `json:"current_count"`
}

// TriggerProgress is the storefront view of one trigger's counter.
type TriggerProgress struct {
	DiscountID         int64 `json:"discount_id"`
	CurrentAdditions   int64 `json:"current_additions"`
	RemainingAdditions int64 `json:"remaining_additions"`
	IsTriggered        bool  `json:"is_triggered"`
}

// DiscountInput carries admin create/update fields.
type DiscountInput struct {
	ProductID     int64
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	TriggerValue  int
	IsActive      bool
}

type service struct {
	repo Repository
}

// NewService wires dynamic discount dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "discounts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CheckTriggers(ctx context.Context, productID int64) ([]TriggeredDiscount, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	configured, err := s.repo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product discounts")
	}
	if len(configured) == 0 {
		return nil, nil
	}

	count, err := s.repo.CountCartAdditions(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart additions")
	}

	var triggered []TriggeredDiscount
	for _, discount := range configured {
		if discount.TriggerCondition != enums.TriggerConditionCartAdditions {
			continue
		}
		if count >= int64(discount.TriggerValue) {
			triggered = append(triggered, TriggeredDiscount{
				ID:            discount.ID,
				ProductID:     discount.ProductID,
				DiscountType:  discount.DiscountType,
				DiscountValue: discount.DiscountValue,
				TriggerValue:  discount.TriggerValue,
				CurrentCount:  count,
			})
		}
	}
	return triggered, nil
}

func (s *service) Progress(ctx context.Context, productID int64) ([]TriggerProgress, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	configured, err := s.repo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product discounts")
	}
	if len(configured) == 0 {
		return nil, nil
	}

	count, err := s.repo.CountCartAdditions(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart additions")
	}

	progress := make([]TriggerProgress, 0, len(configured))
	for _, discount := range configured {
		remaining := int64(discount.TriggerValue) - count
		if remaining < 0 {
			remaining = 0
		}
		progress = append(progress, TriggerProgress{
			DiscountID:         discount.ID,
			CurrentAdditions:   count,
			RemainingAdditions: remaining,
			IsTriggered:        count >= int64(discount.TriggerValue),
		})
	}
	return progress, nil
}

func (s *service) List(ctx context.Context) ([]models.DynamicDiscount, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discounts")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input DiscountInput) (*models.DynamicDiscount, error) {
	if err := validateDiscountInput(input); err != nil {
		return nil, err
	}
	discount := &models.DynamicDiscount{
		ProductID:        input.ProductID,
		DiscountType:     input.DiscountType,
		DiscountValue:    input.DiscountValue,
		TriggerCondition: enums.TriggerConditionCartAdditions,
		TriggerValue:     input.TriggerValue,
		IsActive:         input.IsActive,
	}
	if err := s.repo.Create(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount")
	}
	return discount, nil
}

func (s *service) Update(ctx context.Context, id int64, input DiscountInput) (*models.DynamicDiscount, error) {
	if err := validateDiscountInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup discount")
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Desconto não encontrado")
	}

	existing.ProductID = input.ProductID
	existing.DiscountType = input.DiscountType
	existing.DiscountValue = input.DiscountValue
	existing.TriggerValue = input.TriggerValue
	existing.IsActive = input.IsActive
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount")
	}
	return existing, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete discount")
	}
	return nil
}

func validateDiscountInput(input DiscountInput) error {
	if input.ProductID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if !input.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Tipo de desconto inválido")
	}
	if input.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Valor do desconto deve ser maior que zero")
	}
	if input.TriggerValue <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Gatilho deve ser maior que zero")
	}
	return nil
}
