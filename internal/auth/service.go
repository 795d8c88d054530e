package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/lucasferri/distribuidora-backend/pkg/auth"
	"github.com/lucasferri/distribuidora-backend/pkg/config"
	pkgerrors "github.com/lucasferri/distribuidora-backend/pkg/errors"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
	"github.com/lucasferri/distribuidora-backend/pkg/security"
)

// RateLimiter counts login attempts within a sliding window.
type RateLimiter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// LoginInput carries the credentials plus the caller address for limiting.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult is the issued session.
type LoginResult struct {
	Token     string    `json:"token"`
	AdminID   uuid.UUID `json:"admin_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service authenticates back-office operators.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type service struct {
	repo    Repository
	limiter RateLimiter
	jwtCfg  config.JWTConfig
	limits  config.AuthRateLimitConfig
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires admin auth dependencies. The rate limiter is optional;
// without one, login attempts are unthrottled.
func NewService(repo Repository, limiter RateLimiter, jwtCfg config.JWTConfig, limits config.AuthRateLimitConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth repository required")
	}
	return &service{
		repo:    repo,
		limiter: limiter,
		jwtCfg:  jwtCfg,
		limits:  limits,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Informe e-mail e senha")
	}

	if err := s.checkRateLimits(ctx, email, input.ClientIP); err != nil {
		return nil, err
	}

	admin, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}
	if admin == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Credenciais inválidas")
	}

	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil || !ok {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithAdminID(ctx, admin.ID.String()), "auth.login_failed")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Credenciais inválidas")
	}

	now := s.now()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAdminID(ctx, admin.ID.String()), "auth.login_ok")
	}
	return &LoginResult{
		Token:     token,
		AdminID:   admin.ID,
		Email:     admin.Email,
		Name:      admin.Name,
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
	}, nil
}

// checkRateLimits throttles by email and by IP. Redis failures fail open:
// an unavailable limiter must not lock every operator out.
func (s *service) checkRateLimits(ctx context.Context, email, ip string) error {
	if s.limiter == nil {
		return nil
	}
	window := s.limits.LoginWindow
	if window <= 0 {
		window = time.Minute
	}

	if s.limits.LoginEmailLimit > 0 {
		key := s.limiter.RateLimitKey("login:email:" + email)
		count, err := s.limiter.IncrWithTTL(ctx, key, window)
		if err == nil && count > int64(s.limits.LoginEmailLimit) {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "Muitas tentativas de login, aguarde um instante")
		}
	}
	if s.limits.LoginIPLimit > 0 && strings.TrimSpace(ip) != "" {
		key := s.limiter.RateLimitKey("login:ip:" + ip)
		count, err := s.limiter.IncrWithTTL(ctx, key, window)
		if err == nil && count > int64(s.limits.LoginIPLimit) {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "Muitas tentativas de login, aguarde um instante")
		}
	}
	return nil
}
