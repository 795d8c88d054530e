package bans

import (
	"context"
	"net"
	"strings"

	"github.com/lucasferri/distribuidora-backend/pkg/db/models"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
)

// UnknownIP is the sentinel used when the client address cannot be resolved.
// It is never matched against the ban list, so an unresolvable address can
// never be locked out by a stale ban row.
const UnknownIP = "unknown"

// Service defines the ban gate and its admin management surface.
type Service interface {
	// IsBanned reports whether the address has an active ban. The sentinel
	// UnknownIP always resolves to false.
	IsBanned(ctx context.Context, ip string) (bool, error)
	List(ctx context.Context) ([]models.IPBan, error)
	Create(ctx context.Context, ip, reason string) (*models.IPBan, error)
	Deactivate(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

// NewService wires IP ban dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bans repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) IsBanned(ctx context.Context, ip string) (bool, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == UnknownIP {
		return false, nil
	}
	banned, err := s.repo.IsBanned(ctx, ip)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check ip ban")
	}
	return banned, nil
}

func (s *service) List(ctx context.Context) ([]models.IPBan, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ip bans")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, ip, reason string) (*models.IPBan, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == UnknownIP {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Informe um endereço IP válido")
	}
	if net.ParseIP(ip) == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Endereço IP inválido")
	}

	ban := &models.IPBan{IP: ip, IsActive: true}
	if reason = strings.TrimSpace(reason); reason != "" {
		ban.Reason = &reason
	}
	if err := s.repo.Create(ctx, ban); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ip ban")
	}
	return ban, nil
}

func (s *service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ban id required")
	}
	affected, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate ip ban")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Banimento não encontrado")
	}
	return nil
}
