package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/mvalle/auth-api/internal/core/domain"
	"github.com/mvalle/auth-api/internal/core/ports"
)

type ctxKey int

const (
	userCtxKey ctxKey = iota
	tokenCtxKey
)

const bearerPrefix = "Bearer "

// Authenticator guards a route group with the token validation pipeline:
// bearer extraction, blacklist veto, decode and user lookup. Every failure
// produces the same response so a caller cannot tell which step rejected.
func Authenticator(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				unauthorized(w)
				return
			}
			token := strings.TrimPrefix(header, bearerPrefix)

			user, err := auth.Authorize(r.Context(), token)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey, user)
			ctx = context.WithValue(ctx, tokenCtxKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActive rejects identities whose account has been deactivated. It
// must run after Authenticator.
func RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if !user.IsActive {
			writeError(w, http.StatusBadRequest, domain.ErrInactiveUser.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*domain.User)
	return user, ok
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenCtxKey).(string)
	return token, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
}
