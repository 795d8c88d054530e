package analytics

import (
	"context"

	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

// Service reports cart aggregates to the admin dashboard.
type Service interface {
	CartStats(ctx context.Context) ([]ProductCartStats, error)
}

type service struct {
	repo Repository
}

// NewService wires analytics dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "analytics repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CartStats(ctx context.Context) ([]ProductCartStats, error) {
	rows, err := s.repo.CartStatsByProduct(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate cart stats")
	}
	return rows, nil
}
