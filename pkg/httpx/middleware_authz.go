package httpx

import (
	"net/http"
	"slices"
)

// RequireRole passes only when the principal's role is in allowed. Runs after
// AuthnMiddleware; a request without a principal is treated as unauthorized.
func RequireRole(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, TypeAuthentication, "Unauthorized")
				return
			}
			if !slices.Contains(allowed, p.Role) {
				WriteError(w, http.StatusForbidden, TypeAuthorization,
					"Forbidden: insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrSuperAdmin guards direct user-resource operations (profile
// edits). superAdmin always passes; everyone else may only touch the user id
// named by the paramKey path value. Ids are compared as strings to avoid
// coercion surprises between numeric and UUID-shaped identifiers.
func RequireSelfOrSuperAdmin(paramKey string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, TypeAuthentication, "Unauthorized")
				return
			}
			if p.IsSuperAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			if r.PathValue(paramKey) != p.ID {
				WriteError(w, http.StatusForbidden, TypeAuthorization,
					"Forbidden: you can only modify your own profile")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
