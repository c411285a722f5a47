// Package rbac gates routes on the role carried by the authenticated
// principal's token.
package rbac

import (
	"net/http"

	"github.com/glowmart/glowmart/pkg/middleware"
	"github.com/glowmart/glowmart/pkg/response"
)

// HasRole allows the request through when the principal's role matches any
// of the given roles. It must run after middleware.Auth.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "authentication required")
				return
			}

			for _, want := range roles {
				if role == want {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w)
		})
	}
}
