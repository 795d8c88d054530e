package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lucasferri/distribuidora-backend/pkg/db"
	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

// Service defines catalog reads for the storefront and CRUD for the admin.
type Service interface {
	PublicProducts(ctx context.Context, categoryID *int64) ([]models.Product, error)
	PublicCategories(ctx context.Context) ([]models.Category, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ProductInput carries admin create/update fields.
type ProductInput struct {
	CategoryID  *int64
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Stock       int
	IsActive    bool
}

// CategoryInput carries admin create/update fields.
type CategoryInput struct {
	Name      string
	Slug      string
	SortOrder int
	IsActive  bool
}

type service struct {
	repo Repository
}

// NewService wires catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) PublicProducts(ctx context.Context, categoryID *int64) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx, true, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) PublicCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx, false, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Produto não encontrado")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := productFromInput(input)
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.CategoryID = input.CategoryID
	existing.Name = strings.TrimSpace(input.Name)
	existing.Price = input.Price
	existing.Stock = input.Stock
	existing.IsActive = input.IsActive
	existing.Description = nil
	if desc := strings.TrimSpace(input.Description); desc != "" {
		existing.Description = &desc
	}
	existing.ImageURL = nil
	if url := strings.TrimSpace(input.ImageURL); url != "" {
		existing.ImageURL = &url
	}
	if err := s.repo.UpdateProduct(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return existing, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:      strings.TrimSpace(input.Name),
		Slug:      slugify(input.Slug, input.Name),
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "categories_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Já existe uma categoria com este slug")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup category")
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Categoria não encontrada")
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Slug = slugify(input.Slug, input.Name)
	existing.SortOrder = input.SortOrder
	existing.IsActive = input.IsActive
	if err := s.repo.UpdateCategory(ctx, existing); err != nil {
		if db.IsUniqueViolation(err, "categories_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Já existe uma categoria com este slug")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return existing, nil
}

func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Informe o nome do produto")
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Preço do produto deve ser maior que zero")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Estoque não pode ser negativo")
	}
	return nil
}

func validateCategoryInput(input CategoryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Informe o nome da categoria")
	}
	return nil
}

func productFromInput(input ProductInput) *models.Product {
	product := &models.Product{
		CategoryID: input.CategoryID,
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		Stock:      input.Stock,
		IsActive:   input.IsActive,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		product.Description = &desc
	}
	if url := strings.TrimSpace(input.ImageURL); url != "" {
		product.ImageURL = &url
	}
	return product
}

func slugify(slug, fallback string) string {
	source := strings.TrimSpace(slug)
	if source == "" {
		source = strings.TrimSpace(fallback)
	}
	source = strings.ToLower(source)

	var out strings.Builder
	lastDash := false
	for _, r := range source {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && out.Len() > 0 {
				out.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(out.String(), "-")
}
