package settings

import (
	"context"
	"strings"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

// Keys for the settings that drive payment behavior. Everything else in
// site_settings is free-form operator content (store name, contact, hours).
const (
	KeyAutomaticPayments = "automatic_payments_enabled"
	KeyManualOperator    = "manual_operator_mode"
	KeyPagLeveAPIKey     = "pagleve_api_key"
	KeyPagLeveSecret     = "pagleve_secret"
	KeyPagLeveBaseURL    = "pagleve_base_url"
)

// PaymentSettings is the typed view over the payment-related keys. Values may
// be blank when the operator has not configured the gateway yet.
type PaymentSettings struct {
	AutomaticPaymentsEnabled bool
	ManualOperatorMode       bool
	PagLeveAPIKey            string
	PagLeveSecret            string
	PagLeveBaseURL           string
}

// AutomaticPix reports whether order creation should attempt gateway PIX
// generation. Manual operator mode wins over the automatic flag.
func (p PaymentSettings) AutomaticPix() bool {
	return p.AutomaticPaymentsEnabled && !p.ManualOperatorMode
}

// Service defines settings read/write operations.
type Service interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Put(ctx context.Context, values map[string]string) error
	// Payment reads the gateway settings fresh from storage. Order creation
	// calls this per request so credential rotation takes effect immediately.
	Payment(ctx context.Context) (PaymentSettings, error)
}

type service struct {
	repo Repository
}

// NewService wires settings dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (s *service) Put(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one setting required")
	}
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "setting key must not be blank")
		}
		if err := s.repo.Upsert(ctx, &models.SiteSetting{Key: key, Value: value}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
		}
	}
	return nil
}

func (s *service) Payment(ctx context.Context) (PaymentSettings, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return PaymentSettings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment settings")
	}
	out := PaymentSettings{}
	for _, row := range rows {
		value := strings.TrimSpace(row.Value)
		switch row.Key {
		case KeyAutomaticPayments:
			out.AutomaticPaymentsEnabled = parseBoolSetting(value)
		case KeyManualOperator:
			out.ManualOperatorMode = parseBoolSetting(value)
		case KeyPagLeveAPIKey:
			out.PagLeveAPIKey = value
		case KeyPagLeveSecret:
			out.PagLeveSecret = value
		case KeyPagLeveBaseURL:
			out.PagLeveBaseURL = value
		}
	}
	return out, nil
}

// parseBoolSetting accepts the loose truthy spellings operators actually type.
func parseBoolSetting(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on", "sim":
		return true
	}
	return false
}
