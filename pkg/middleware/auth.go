package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/glowmart/glowmart/pkg/auth"
	"github.com/glowmart/glowmart/pkg/response"
)

type principalKey struct{}

// Principal is the authenticated actor resolved from the bearer token.
type Principal struct {
	ID   string
	Role string
}

// Auth validates the Authorization bearer token and stores the resolved
// principal in the request context. Requests without a valid token are
// rejected with 401 before reaching the handler.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w, "missing bearer token")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		p := Principal{ID: claims.PrincipalID, Role: claims.Role}
		ctx := context.WithValue(r.Context(), principalKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// WebSocket clients cannot set headers from the browser, so a "token"
// query parameter is accepted as a fallback.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// PrincipalFromCtx returns the authenticated principal, if any.
func PrincipalFromCtx(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// PrincipalIDFromCtx returns the authenticated principal's ID.
func PrincipalIDFromCtx(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromCtx(ctx)
	return p.ID, ok
}

// RoleFromCtx returns the authenticated principal's role.
func RoleFromCtx(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromCtx(ctx)
	return p.Role, ok
}
