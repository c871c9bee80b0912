package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

type principalKey struct{}

// principalFrom returns the authenticated principal resolved by RequireRole.
func principalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// bearerToken extracts the opaque token from an Authorization header, or "".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireRole resolves the request principal (bearer token first, then
// session) and rejects anything that is not the wanted role. The 401 body is
// uniform regardless of cause.
func RequireRole(auth *service.AuthService, role domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := auth.Resolve(r.Context(), bearerToken(r))
			if err != nil || p.Role != role {
				writeAuthRequired(w)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, p)
			ctx = httpx.ContextWithUser(ctx, p.ID, string(p.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth accepts either role; used for /auth/me.
func RequireAuth(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := auth.Resolve(r.Context(), bearerToken(r))
			if err != nil {
				writeAuthRequired(w)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, p)
			ctx = httpx.ContextWithUser(ctx, p.ID, string(p.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
