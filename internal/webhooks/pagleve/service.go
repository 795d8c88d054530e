package pagleve

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/lucasferri/distribuidora-backend/internal/orders"
	"github.com/lucasferri/distribuidora-backend/pkg/enums"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
	"github.com/lucasferri/distribuidora-backend/pkg/metrics"
	"github.com/lucasferri/distribuidora-backend/pkg/redis"
)

const idempotencyScope = "pagleve-webhook"

// statusMap is the fixed gateway-to-order status lookup. Unknown statuses
// leave the order untouched and are only logged.
var statusMap = map[string]enums.OrderStatus{
	"paid":      enums.OrderStatusConfirmed,
	"confirmed": enums.OrderStatusConfirmed,
	"approved":  enums.OrderStatusConfirmed,
	"cancelled": enums.OrderStatusCancelled,
	"expired":   enums.OrderStatusCancelled,
	"failed":    enums.OrderStatusCancelled,
}

// Event is one webhook delivery from the gateway.
type Event struct {
	Status     string
	ExternalID string
	PaymentID  string
	EventID    string
}

// Result reports how the delivery was handled.
type Result struct {
	Handled     bool              `json:"handled"`
	Duplicate   bool              `json:"duplicate"`
	OrderID     int64             `json:"order_id,omitempty"`
	OrderStatus enums.OrderStatus `json:"order_status,omitempty"`
}

// Service consumes PagLeve payment webhooks.
type Service interface {
	Process(ctx context.Context, event Event) (*Result, error)
}

type service struct {
	orders  orders.Service
	idem    redis.IdempotencyStore
	idemTTL time.Duration
	logg    *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewService wires webhook dependencies. The idempotency store is optional;
// without it duplicate deliveries are re-applied (status writes are
// idempotent, so this only costs an extra update).
func NewService(orderSvc orders.Service, idem redis.IdempotencyStore, idemTTL time.Duration, logg *logger.Logger, m *metrics.PaymentMetrics) (Service, error) {
	if orderSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service required")
	}
	return &service{
		orders:  orderSvc,
		idem:    idem,
		idemTTL: idemTTL,
		logg:    logg,
		metrics: m,
	}, nil
}

func (s *service) Process(ctx context.Context, event Event) (*Result, error) {
	status := strings.ToLower(strings.TrimSpace(event.Status))
	externalID := strings.TrimSpace(event.ExternalID)
	if status == "" || externalID == "" {
		s.metrics.IncWebhookEvent("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status and external_id required")
	}

	orderID, err := strconv.ParseInt(externalID, 10, 64)
	if err != nil || orderID <= 0 {
		s.metrics.IncWebhookEvent("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external_id must be an order id")
	}

	duplicate, idemKey, err := s.markSeen(ctx, event, orderID, status)
	if err == nil && duplicate {
		s.metrics.IncWebhookEvent("duplicate")
		return &Result{Handled: false, Duplicate: true, OrderID: orderID}, nil
	}

	mapped, ok := statusMap[status]
	if !ok {
		if s.logg != nil {
			lctx := s.logg.WithOrderID(ctx, orderID)
			s.logg.Warn(s.logg.WithField(lctx, "gateway_status", status), "webhook.unmapped_status")
		}
		s.metrics.IncWebhookEvent("unmapped")
		return &Result{Handled: false, OrderID: orderID}, nil
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, mapped.String())
	if err != nil {
		// The delivery was not applied, so the gateway's retry must not be
		// answered as a duplicate. Release the key and let it through.
		s.releaseSeen(ctx, idemKey)
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			s.metrics.IncWebhookEvent("order_not_found")
			return nil, appErr
		}
		s.metrics.IncWebhookEvent("error")
		return nil, err
	}

	if s.logg != nil {
		lctx := s.logg.WithOrderID(ctx, orderID)
		s.logg.Info(s.logg.WithField(lctx, "status", mapped.String()), "webhook.order_updated")
	}
	s.metrics.IncWebhookEvent(mapped.String())
	return &Result{Handled: true, OrderID: orderID, OrderStatus: order.Status}, nil
}

// markSeen registers the delivery in the idempotency store. The key prefers
// the gateway's own event id and falls back to order+status, which also
// absorbs plain retries of the same transition.
func (s *service) markSeen(ctx context.Context, event Event, orderID int64, status string) (bool, string, error) {
	if s.idem == nil {
		return false, "", nil
	}
	id := strings.TrimSpace(event.EventID)
	if id == "" {
		id = strconv.FormatInt(orderID, 10) + ":" + status
	}
	ttl := s.idemTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	key := s.idem.IdempotencyKey(idempotencyScope, id)
	stored, err := s.idem.SetNX(ctx, key, "1", ttl)
	if err != nil {
		return false, key, err
	}
	return !stored, key, nil
}

// releaseSeen drops the idempotency mark after a failed apply so the
// gateway's retry of the same delivery is processed instead of skipped.
func (s *service) releaseSeen(ctx context.Context, key string) {
	if s.idem == nil || key == "" {
		return
	}
	if err := s.idem.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "idempotency_key", key), "webhook.idempotency_release_failed")
	}
}
