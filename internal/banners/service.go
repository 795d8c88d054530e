package banners

import (
	"context"
	"strings"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

// BannerInput carries admin create/update fields.
type BannerInput struct {
	Title     string
	ImageURL  string
	LinkURL   string
	SortOrder int
	IsActive  bool
}

// Service defines banner reads for the storefront and CRUD for the admin.
type Service interface {
	Public(ctx context.Context) ([]models.Banner, error)
	List(ctx context.Context) ([]models.Banner, error)
	Create(ctx context.Context, input BannerInput) (*models.Banner, error)
	Update(ctx context.Context, id int64, input BannerInput) (*models.Banner, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

// NewService wires banner dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "banners repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Public(ctx context.Context) ([]models.Banner, error) {
	rows, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return rows, nil
}

func (s *service) List(ctx context.Context) ([]models.Banner, error) {
	rows, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input BannerInput) (*models.Banner, error) {
	if err := validateBannerInput(input); err != nil {
		return nil, err
	}
	banner := &models.Banner{
		Title:     strings.TrimSpace(input.Title),
		ImageURL:  strings.TrimSpace(input.ImageURL),
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
	}
	if link := strings.TrimSpace(input.LinkURL); link != "" {
		banner.LinkURL = &link
	}
	if err := s.repo.Create(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}
	return banner, nil
}

func (s *service) Update(ctx context.Context, id int64, input BannerInput) (*models.Banner, error) {
	if err := validateBannerInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup banner")
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Banner não encontrado")
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.ImageURL = strings.TrimSpace(input.ImageURL)
	existing.SortOrder = input.SortOrder
	existing.IsActive = input.IsActive
	existing.LinkURL = nil
	if link := strings.TrimSpace(input.LinkURL); link != "" {
		existing.LinkURL = &link
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
	}
	return existing, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	return nil
}

func validateBannerInput(input BannerInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Informe o título do banner")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Informe a imagem do banner")
	}
	return nil
}
