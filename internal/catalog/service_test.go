package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

type fakeRepository struct {
	listProductsFn func(ctx context.Context, activeOnly bool, categoryID *int64) ([]models.Product, error)
	createdProduct *models.Product
	createdCat     *models.Category
	createCatErr   error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) ListProducts(ctx context.Context, activeOnly bool, categoryID *int64) ([]models.Product, error) {
	if f.listProductsFn != nil {
		return f.listProductsFn(ctx, activeOnly, categoryID)
	}
	return nil, nil
}

func (f *fakeRepository) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	return nil, nil
}

func (f *fakeRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	f.createdProduct = product
	return nil
}

func (f *fakeRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return nil
}

func (f *fakeRepository) DeleteProduct(ctx context.Context, id int64) error { return nil }

func (f *fakeRepository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return nil, nil
}

func (f *fakeRepository) FindCategory(ctx context.Context, id int64) (*models.Category, error) {
	return nil, nil
}

func (f *fakeRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if f.createCatErr != nil {
		return f.createCatErr
	}
	f.createdCat = category
	return nil
}

func (f *fakeRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return nil
}

func (f *fakeRepository) DeleteCategory(ctx context.Context, id int64) error { return nil }

func TestService_PublicProductsFiltersActive(t *testing.T) {
	var sawActiveOnly bool
	repo := &fakeRepository{
		listProductsFn: func(ctx context.Context, activeOnly bool, categoryID *int64) ([]models.Product, error) {
			sawActiveOnly = activeOnly
			return []models.Product{{ID: 1, Name: "Cerveja"}}, nil
		},
	}
	svc, _ := NewService(repo)

	rows, err := svc.PublicProducts(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawActiveOnly {
		t.Fatal("public listing must request active products only")
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 product, got %d", len(rows))
	}
}

func TestService_CreateProductValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	_, err := svc.CreateProduct(context.Background(), ProductInput{Name: " ", Price: decimal.NewFromInt(5)})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = svc.CreateProduct(context.Background(), ProductInput{Name: "Cerveja"})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for zero price, got %v", err)
	}
}

func TestService_CreateCategorySlug(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	cat, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Cervejas Artesanais", IsActive: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Slug != "cervejas-artesanais" {
		t.Fatalf("expected slug from name, got %q", cat.Slug)
	}
}

func TestService_CreateCategoryDuplicateSlug(t *testing.T) {
	repo := &fakeRepository{
		createCatErr: errors.New(`ERROR: duplicate key value violates unique constraint "categories_slug_key" (SQLSTATE 23505)`),
	}
	svc, _ := NewService(repo)

	_, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Cervejas", IsActive: true})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate slug, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		slug, fallback, want string
	}{
		{slug: "Refrigerantes", want: "refrigerantes"},
		{slug: "", fallback: "Águas & Sucos", want: "guas-sucos"},
		{slug: "ja-pronto", want: "ja-pronto"},
		{slug: "Com  Espaços ", want: "com-espa-os"},
	}

	for _, tc := range cases {
		if got := slugify(tc.slug, tc.fallback); got != tc.want {
			t.Fatalf("slugify(%q, %q) = %q, want %q", tc.slug, tc.fallback, got, tc.want)
		}
	}
}
