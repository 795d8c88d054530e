package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/lucasferri/distribuidora-backend/internal/bans"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

type contextKey string

const (
	ctxAdminID    contextKey = "admin_id"
	ctxAdminEmail contextKey = "admin_email"
	ctxClientIP   contextKey = "client_ip"
)

func AdminIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminID).(string); ok {
		return v
	}
	return ""
}

func AdminEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminEmail).(string); ok {
		return v
	}
	return ""
}

// ClientIPFromContext returns the resolved caller IP, or "unknown" when the
// ClientIP middleware has not run or could not resolve one.
func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return bans.UnknownIP
	}
	if v, ok := ctx.Value(ctxClientIP).(string); ok && v != "" {
		return v
	}
	return bans.UnknownIP
}

// ClientIP resolves the caller's address from proxy headers and seeds the
// request context with it. Resolution order is CF-Connecting-IP, then the
// first hop of X-Forwarded-For, then the socket address.
func ClientIP(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r)

			ctx := context.WithValue(r.Context(), ctxClientIP, ip)
			if logg != nil {
				ctx = logg.WithClientIP(ctx, ip)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClientIP(r *http.Request) string {
	if r == nil {
		return bans.UnknownIP
	}
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if ip := strings.TrimSpace(r.RemoteAddr); ip != "" {
		return ip
	}
	return bans.UnknownIP
}
