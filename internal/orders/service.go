package orders

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/internal/coupons"
	"github.com/lucasferri/distribuidora-backend/internal/settings"
	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
	"github.com/lucasferri/distribuidora-backend/pkg/pagination"
	"github.com/lucasferri/distribuidora-backend/pkg/pagleve"
	"github.com/lucasferri/distribuidora-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type pixGenerator interface {
	GeneratePix(ctx context.Context, order pagleve.PixOrder, creds pagleve.Credentials) pagleve.PixResult
}

// Service defines checkout and admin order operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error)
	AttachPix(ctx context.Context, id int64, fields PixFields) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo       Repository
	tx         txRunner
	couponRepo coupons.Repository
	couponSvc  coupons.Service
	settings   settings.Service
	pix        pixGenerator
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds the order workflow with the required dependencies.
func NewService(repo Repository, tx txRunner, couponRepo coupons.Repository, couponSvc coupons.Service, settingsSvc settings.Service, pix pixGenerator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if couponRepo == nil || couponSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "coupon dependencies required")
	}
	if settingsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings service required")
	}
	if pix == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pix generator required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		couponRepo: couponRepo,
		couponSvc:  couponSvc,
		settings:   settingsSvc,
		pix:        pix,
		logg:       logg,
		now:        time.Now,
	}, nil
}

// Create runs the checkout workflow: snapshot items, resolve the coupon,
// read the payment settings fresh, pre-generate PIX under a synthetic id,
// commit the order and coupon usage in one transaction, then regenerate PIX
// with the real order id so the gateway's external_id matches the row.
func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	items, total, err := normalizeItems(input)
	if err != nil {
		return nil, err
	}

	discount := resolveDiscount(input, total)
	final := total.Sub(discount)
	if input.FinalAmount != nil && input.FinalAmount.GreaterThan(decimal.Zero) {
		final = *input.FinalAmount
	}

	var couponID int64
	couponCode := strings.ToLower(strings.TrimSpace(input.CouponCode))
	if couponCode != "" {
		coupon, err := s.couponRepo.FindActiveByCode(ctx, couponCode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup coupon")
		}
		if coupon != nil {
			couponID = coupon.ID
		} else if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "coupon_code", couponCode), "order.coupon_not_found")
		}
	}

	payment, err := s.settings.Payment(ctx)
	if err != nil {
		return nil, err
	}
	automatic := payment.AutomaticPix()

	status := enums.OrderStatusAwaitingQR
	if automatic {
		status = enums.OrderStatusPending
	}

	order := &models.Order{
		Items:         items,
		TotalAmount:   total,
		FinalAmount:   final,
		Status:        status,
		PaymentMethod: paymentMethodOrDefault(input.PaymentMethod),
	}
	setOptional(&order.CustomerName, input.CustomerName)
	setOptional(&order.CustomerPhone, input.CustomerPhone)
	setOptional(&order.CustomerEmail, input.CustomerEmail)
	setOptional(&order.CustomerAddress, input.CustomerAddress)
	setOptional(&order.CustomerCEP, input.CustomerCEP)
	setOptional(&order.CustomerIP, input.CustomerIP)
	setOptional(&order.Notes, input.Notes)
	if couponCode != "" {
		order.CouponCode = &couponCode
	}
	if discount.GreaterThan(decimal.Zero) {
		d := discount
		order.DiscountAmount = &d
	}

	creds := pagleve.Credentials{
		APIKey:  payment.PagLeveAPIKey,
		Secret:  payment.PagLeveSecret,
		BaseURL: payment.PagLeveBaseURL,
	}

	// The real autoincrement id does not exist before the insert, so the
	// first generation pass runs under a synthetic timestamp id purely to
	// give the gateway something to embed.
	var pixResult pagleve.PixResult
	if automatic {
		tempRef := strconv.FormatInt(s.now().UnixMilli(), 10)
		pixResult = s.pix.GeneratePix(ctx, s.pixOrder(tempRef, order), creds)
		applyPixResult(order, pixResult)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}

		if couponID != 0 && discount.GreaterThan(decimal.Zero) {
			txCoupons := s.couponSvc.WithTx(s.couponRepo.WithTx(tx))
			consumed, err := txCoupons.Redeem(ctx, couponID, order.ID, discount)
			if err != nil {
				return err
			}
			if !consumed && s.logg != nil {
				lctx := s.logg.WithOrderID(ctx, order.ID)
				s.logg.Warn(s.logg.WithField(lctx, "coupon_code", couponCode), "order.coupon_limit_reached_at_commit")
			}
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit order")
	}

	// Second pass with the committed id keeps the gateway's external_id and
	// webhook correlation pointing at the real order.
	if automatic {
		realRef := strconv.FormatInt(order.ID, 10)
		pixResult = s.pix.GeneratePix(ctx, s.pixOrder(realRef, order), creds)
		applyPixResult(order, pixResult)
		fields := PixFields{
			QRCodeURL:    order.QRCodeURL,
			PixCopyPaste: order.PixCopyPaste,
			PaymentID:    order.PaymentID,
		}
		if err := s.repo.UpdatePixFields(ctx, order.ID, fields); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, order.ID), "order.pix_regeneration_update_failed", err)
		}
	}

	committed, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	if committed == nil {
		committed = order
	}

	info := PaymentInfo{
		AutomaticModeEnabled:  automatic,
		PixAvailable:          committed.QRCodeURL != nil || committed.PixCopyPaste != nil,
		PixSource:             pixResult.Source,
		AutomaticPixGenerated: automatic && (committed.QRCodeURL != nil || committed.PixCopyPaste != nil),
	}

	if s.logg != nil {
		lctx := s.logg.WithOrderID(ctx, committed.ID)
		s.logg.Info(s.logg.WithField(lctx, "status", committed.Status.String()), "order.created")
	}
	return &CreateResult{Order: committed, PaymentInfo: info}, nil
}

func (s *service) pixOrder(ref string, order *models.Order) pagleve.PixOrder {
	pix := pagleve.PixOrder{
		OrderRef:    ref,
		TotalAmount: order.TotalAmount,
		FinalAmount: order.FinalAmount,
	}
	if order.CustomerName != nil {
		pix.CustomerName = *order.CustomerName
	}
	if order.CustomerPhone != nil {
		pix.CustomerPhone = *order.CustomerPhone
	}
	if order.CustomerEmail != nil {
		pix.CustomerEmail = *order.CustomerEmail
	}
	return pix
}

func (s *service) Get(ctx context.Context, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pedido não encontrado")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listOrdersParams{Limit: params.Limit}
	if params.Status != "" {
		status, err := enums.ParseOrderStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter")
		}
		query.Status = &status
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	affected, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Pedido não encontrado")
	}
	return s.Get(ctx, id)
}

// AttachPix is the manual-operator path: an admin pastes a QR or copy-code
// onto an awaiting_qr order and it moves to pending.
func (s *service) AttachPix(ctx context.Context, id int64, fields PixFields) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if fields.QRCodeURL == nil && fields.PixCopyPaste == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Informe o QR code ou o código PIX")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePixFields(ctx, order.ID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach pix")
	}
	if order.Status == enums.OrderStatusAwaitingQR {
		if _, err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPending); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance order status")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func normalizeItems(input CreateInput) (types.OrderItems, decimal.Decimal, error) {
	if len(input.Items) == 0 {
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "O pedido precisa ter ao menos um item")
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "Valor total do pedido inválido")
	}

	items := make(types.OrderItems, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID <= 0 || strings.TrimSpace(item.ProductName) == "" {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "Item do pedido inválido")
		}
		if item.Quantity <= 0 {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "Quantidade do item inválida")
		}
		if item.UnitPrice.IsNegative() {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "Preço do item inválido")
		}
		items = append(items, types.OrderItem{
			ProductID:   item.ProductID,
			ProductName: strings.TrimSpace(item.ProductName),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return items, input.TotalAmount, nil
}

func resolveDiscount(input CreateInput, total decimal.Decimal) decimal.Decimal {
	if input.DiscountAmount == nil {
		return decimal.Zero
	}
	discount := *input.DiscountAmount
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(total) {
		return total
	}
	return discount
}

func paymentMethodOrDefault(method string) string {
	method = strings.TrimSpace(strings.ToLower(method))
	if method == "" {
		return "pix"
	}
	return method
}

func applyPixResult(order *models.Order, result pagleve.PixResult) {
	order.QRCodeURL = result.QRCodeURL
	order.PixCopyPaste = result.PixCopyPaste
	if result.PaymentID != "" {
		id := result.PaymentID
		order.PaymentID = &id
	}
}

func setOptional(dst **string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*dst = &value
}
