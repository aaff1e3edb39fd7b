package middleware

import (
	"net/http"

	"npsportal/internal/domain/auth"
	"npsportal/internal/transport/http/api"
)

// RequireRole is the access guard: it runs before any role-restricted
// handler and never trusts client-held role claims, only the verified token
// on the context.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !auth.Allowed(user.Role, roles...) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
