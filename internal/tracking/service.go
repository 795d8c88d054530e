package tracking

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/internal/discounts"
	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

// Service records cart additions and surfaces any discounts the event tripped.
type Service interface {
	// Track appends one cart-addition event and re-evaluates the product's
	// dynamic discount triggers so the storefront can react immediately.
	Track(ctx context.Context, input TrackInput) (*TrackResult, error)
	Purge(ctx context.Context) (int64, error)
}

// TrackInput is one storefront "added to cart" event.
type TrackInput struct {
	SessionID    string
	ProductID    int64
	ProductPrice decimal.Decimal
	Quantity     int
	CustomerIP   string
}

// TrackResult echoes the stored event plus the current trigger state.
type TrackResult struct {
	EventID            int64                         `json:"event_id"`
	TriggeredDiscounts []discounts.TriggeredDiscount `json:"triggered_discounts"`
}

type service struct {
	repo      Repository
	discounts discounts.Service
	logg      *logger.Logger
}

// NewService wires cart tracking dependencies.
func NewService(repo Repository, discountSvc discounts.Service, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tracking repository required")
	}
	if discountSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "discounts service required")
	}
	return &service{repo: repo, discounts: discountSvc, logg: logg}, nil
}

func (s *service) Track(ctx context.Context, input TrackInput) (*TrackResult, error) {
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if input.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	event := &models.CartEvent{
		SessionID:     input.SessionID,
		ProductID:     input.ProductID,
		ProductPrice:  input.ProductPrice,
		QuantityAdded: quantity,
	}
	if ip := strings.TrimSpace(input.CustomerIP); ip != "" {
		event.CustomerIP = &ip
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record cart event")
	}

	// Trigger evaluation is best effort: a failed count must not reject an
	// event that is already stored.
	triggered, err := s.discounts.CheckTriggers(ctx, input.ProductID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", input.ProductID), "tracking.trigger_check_failed")
		}
		triggered = nil
	}

	return &TrackResult{
		EventID:            event.ID,
		TriggeredDiscounts: triggered,
	}, nil
}

func (s *service) Purge(ctx context.Context) (int64, error) {
	count, err := s.repo.PurgeAll(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge cart events")
	}
	return count, nil
}
