package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mh-fins/wallet-ledger/src/internal/logger"
)

type contextKey string

const identityKey contextKey = "identityEmail"

type SessionStore interface {
	Get(ctx context.Context, token string) (string, error)
}

// RoleLookup resolves the role for an authenticated email. Used by
// RequireAdmin; kept as a function so the middleware does not depend on
// the user repository directly.
type RoleLookup func(ctx context.Context, email string) (string, error)

func SessionAuth(sessions SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				logger.Info("session auth middleware missing token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			email, err := sessions.Get(r.Context(), token)
			if err != nil {
				logger.Info("session auth middleware invalid token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(sessions SessionStore, roleOf RoleLookup) func(http.Handler) http.Handler {
	auth := SessionAuth(sessions)
	return func(next http.Handler) http.Handler {
		return auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			role, err := roleOf(r.Context(), email)
			if err != nil || role != "admin" {
				logger.Info("session auth middleware forbidden", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"email":  email,
				})
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}

func IdentityFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityKey).(string)
	return email, ok && email != ""
}

func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
