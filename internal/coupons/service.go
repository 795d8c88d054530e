package coupons

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

// Service defines coupon evaluation and redemption operations.
type Service interface {
	// Validate checks a code against activity, validity window, usage limit,
	// and minimum order amount, and computes the resulting discount. It does
	// not consume a use; redemption happens at order commit.
	Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*ValidationResult, error)
	// Redeem atomically consumes one use and records the usage row. It
	// reports consumed=false when a concurrent order exhausted the limit
	// between validation and commit.
	Redeem(ctx context.Context, couponID, orderID int64, discountAmount decimal.Decimal) (bool, error)
	WithTx(repo Repository) Service

	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, input CouponInput) (*models.Coupon, error)
	Update(ctx context.Context, id int64, input CouponInput) (*models.Coupon, error)
	Delete(ctx context.Context, id int64) error
}

// CouponSummary is the subset of coupon fields echoed to the storefront.
type CouponSummary struct {
	ID            int64              `json:"id"`
	Code          string             `json:"code"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue decimal.Decimal    `json:"discount_value"`
}

// ValidationResult is the evaluator's positive outcome.
type ValidationResult struct {
	Valid          bool            `json:"valid"`
	Coupon         CouponSummary   `json:"coupon"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	Message        string          `json:"message"`
}

// CouponInput carries admin create/update fields.
type CouponInput struct {
	Code               string
	DiscountType       enums.DiscountType
	DiscountValue      decimal.Decimal
	MinimumOrderAmount decimal.Decimal
	UsageLimit         *int
	ValidFrom          *time.Time
	ValidUntil         *time.Time
	IsActive           bool
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires coupon dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "coupons repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) WithTx(repo Repository) Service {
	if repo == nil {
		return s
	}
	return &service{repo: repo, now: s.now}
}

func (s *service) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*ValidationResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Informe o código do cupom")
	}
	if orderAmount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Valor do pedido inválido")
	}

	coupon, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup coupon")
	}
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cupom inválido ou inativo")
	}

	now := s.now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cupom ainda não está em vigor")
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cupom expirado")
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cupom esgotado")
	}
	if orderAmount.LessThan(coupon.MinimumOrderAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("O valor mínimo do pedido para este cupom é de %s", FormatBRL(coupon.MinimumOrderAmount)))
	}

	discount := ComputeDiscount(coupon.DiscountType, coupon.DiscountValue, orderAmount)
	return &ValidationResult{
		Valid: true,
		Coupon: CouponSummary{
			ID:            coupon.ID,
			Code:          coupon.Code,
			DiscountType:  coupon.DiscountType,
			DiscountValue: coupon.DiscountValue,
		},
		DiscountAmount: discount,
		FinalAmount:    orderAmount.Sub(discount),
		Message:        "Cupom aplicado com sucesso",
	}, nil
}

// ComputeDiscount applies the coupon's rule and clamps the result so the
// final amount never goes negative.
func ComputeDiscount(discountType enums.DiscountType, value, orderAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch discountType {
	case enums.DiscountTypePercentage:
		discount = orderAmount.Mul(value).Div(decimal.NewFromInt(100))
	case enums.DiscountTypeFixed:
		discount = value
	default:
		return decimal.Zero
	}

	discount = discount.Round(2)
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(orderAmount) {
		return orderAmount
	}
	return discount
}

func (s *service) Redeem(ctx context.Context, couponID, orderID int64, discountAmount decimal.Decimal) (bool, error) {
	if couponID <= 0 || orderID <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "coupon and order ids required")
	}

	affected, err := s.repo.IncrementUsage(ctx, couponID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment coupon usage")
	}
	if affected == 0 {
		return false, nil
	}

	usage := &models.CouponUsage{
		ID:             uuid.New(),
		CouponID:       couponID,
		OrderID:        orderID,
		DiscountAmount: discountAmount,
	}
	if err := s.repo.RecordUsage(ctx, usage); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon usage")
	}
	return true, nil
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CouponInput) (*models.Coupon, error) {
	if err := validateCouponInput(input); err != nil {
		return nil, err
	}
	coupon := couponFromInput(input)
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return coupon, nil
}

func (s *service) Update(ctx context.Context, id int64, input CouponInput) (*models.Coupon, error) {
	if err := validateCouponInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup coupon")
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cupom não encontrado")
	}

	existing.Code = input.Code
	existing.DiscountType = input.DiscountType
	existing.DiscountValue = input.DiscountValue
	existing.MinimumOrderAmount = input.MinimumOrderAmount
	existing.UsageLimit = input.UsageLimit
	existing.ValidFrom = input.ValidFrom
	existing.ValidUntil = input.ValidUntil
	existing.IsActive = input.IsActive
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return existing, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	return nil
}

func validateCouponInput(input CouponInput) error {
	if strings.TrimSpace(input.Code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Informe o código do cupom")
	}
	if !input.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Tipo de desconto inválido")
	}
	if input.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Valor do desconto deve ser maior que zero")
	}
	if input.MinimumOrderAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Valor mínimo do pedido não pode ser negativo")
	}
	if input.UsageLimit != nil && *input.UsageLimit <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Limite de uso deve ser maior que zero")
	}
	return nil
}

func couponFromInput(input CouponInput) *models.Coupon {
	return &models.Coupon{
		Code:               strings.ToLower(strings.TrimSpace(input.Code)),
		DiscountType:       input.DiscountType,
		DiscountValue:      input.DiscountValue,
		MinimumOrderAmount: input.MinimumOrderAmount,
		UsageLimit:         input.UsageLimit,
		ValidFrom:          input.ValidFrom,
		ValidUntil:         input.ValidUntil,
		IsActive:           input.IsActive,
	}
}
