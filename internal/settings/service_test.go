package settings

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

type fakeRepository struct {
	getAllFn func(ctx context.Context) ([]models.SiteSetting, error)
	upsertFn func(ctx context.Context, setting *models.SiteSetting) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) GetAll(ctx context.Context) ([]models.SiteSetting, error) {
	if f.getAllFn != nil {
		return f.getAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeRepository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	return nil, nil
}

func (f *fakeRepository) Upsert(ctx context.Context, setting *models.SiteSetting) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, setting)
	}
	return nil
}

func TestService_PaymentReadsFreshValues(t *testing.T) {
	calls := 0
	repo := &fakeRepository{
		getAllFn: func(ctx context.Context) ([]models.SiteSetting, error) {
			calls++
			if calls == 1 {
				return []models.SiteSetting{
					{Key: KeyPagLeveAPIKey, Value: " key-1 "},
					{Key: "store_name", Value: "Distribuidora do Zé"},
				}, nil
			}
			return []models.SiteSetting{
				{Key: KeyPagLeveAPIKey, Value: "key-2"},
				{Key: KeyPagLeveSecret, Value: "s3cret"},
			}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	first, err := svc.Payment(context.Background())
	if err != nil {
		t.Fatalf("unexpected payment error: %v", err)
	}
	if first.PagLeveAPIKey != "key-1" {
		t.Fatalf("expected trimmed key-1, got %q", first.PagLeveAPIKey)
	}
	if first.PagLeveSecret != "" {
		t.Fatalf("expected blank secret, got %q", first.PagLeveSecret)
	}

	second, err := svc.Payment(context.Background())
	if err != nil {
		t.Fatalf("unexpected payment error: %v", err)
	}
	if second.PagLeveAPIKey != "key-2" || second.PagLeveSecret != "s3cret" {
		t.Fatalf("expected rotated credentials, got %+v", second)
	}
}

func TestService_PaymentFlags(t *testing.T) {
	cases := []struct {
		name      string
		automatic string
		manual    string
		want      bool
	}{
		{name: "automatic on", automatic: "true", manual: "false", want: true},
		{name: "manual mode wins", automatic: "true", manual: "sim", want: false},
		{name: "automatic off", automatic: "0", manual: "", want: false},
		{name: "unset defaults off", automatic: "", manual: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepository{
				getAllFn: func(ctx context.Context) ([]models.SiteSetting, error) {
					return []models.SiteSetting{
						{Key: KeyAutomaticPayments, Value: tc.automatic},
						{Key: KeyManualOperator, Value: tc.manual},
					}, nil
				},
			}
			svc, _ := NewService(repo)
			payment, err := svc.Payment(context.Background())
			if err != nil {
				t.Fatalf("unexpected payment error: %v", err)
			}
			if payment.AutomaticPix() != tc.want {
				t.Fatalf("expected AutomaticPix=%v, got %v", tc.want, payment.AutomaticPix())
			}
		})
	}
}

func TestService_PutRejectsBlankKey(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	err := svc.Put(context.Background(), map[string]string{"  ": "value"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_PutWrapsRepoError(t *testing.T) {
	repo := &fakeRepository{
		upsertFn: func(ctx context.Context, setting *models.SiteSetting) error {
			return errors.New("db down")
		},
	}
	svc, _ := NewService(repo)

	err := svc.Put(context.Background(), map[string]string{"store_name": "Loja"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
