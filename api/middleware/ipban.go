package middleware

import (
	"net/http"

	"github.com/lucasferri/distribuidora-backend/internal/bans"
	"github.com/lucasferri/distribuidora-backend/pkg/logger"
)

// Banned IPs get this exact body on every gated route. It is written
// directly instead of through the error envelope so the shape stays stable
// for the storefront's blocked-state handling.
const bannedResponseBody = `{"error":"Acesso bloqueado. Entre em contato com o suporte.","blocked":true}`

// IPBan rejects requests from actively banned addresses. Lookup failures
// let the request through; blocking traffic on a database hiccup is worse
// than letting a banned caller slip by once.
func IPBan(svc bans.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if svc == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := ClientIPFromContext(ctx)

			banned, err := svc.IsBanned(ctx, ip)
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "ipban.lookup_failed", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			if banned {
				if logg != nil {
					logg.Warn(ctx, "ipban.blocked")
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(bannedResponseBody))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
