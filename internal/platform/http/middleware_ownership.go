package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sou2aq/platform/pkg/httpx"
)

// ownerResolver maps a resource id to the owning user id. Implementations
// return the service not-found sentinel when the resource does not exist.
type ownerResolver func(ctx context.Context, resourceID string) (string, error)

// requireOwner guards a route whose path holds the resource id under
// paramKey. superAdmin short-circuits before any lookup. A missing resource
// is reported as 404 for everyone; 403 is reserved for resources that exist
// but belong to someone else.
func requireOwner(resolve ownerResolver, paramKey string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := httpx.PrincipalFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
				return
			}

			if principal.IsSuperAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			ownerID, err := resolve(r.Context(), r.PathValue(paramKey))
			if err != nil {
				mapServiceError(err).WriteError(w)
				return
			}
			if ownerID != principal.ID {
				httpx.WriteError(w, http.StatusForbidden, httpx.TypeAuthorization, "You do not have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requireOwnerFromBody guards create routes where the parent resource id
// arrives in the JSON body rather than the path. The body is restored so the
// handler can decode it again.
func requireOwnerFromBody(resolve ownerResolver, bodyKey string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := httpx.PrincipalFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.TypeAuthentication, "Unauthorized: token missing")
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Invalid request body")
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			var fields map[string]json.RawMessage
			if err := json.Unmarshal(body, &fields); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Invalid request body")
				return
			}
			var resourceID string
			if raw, found := fields[bodyKey]; found {
				_ = json.Unmarshal(raw, &resourceID)
			}
			if resourceID == "" {
				httpx.WriteError(w, http.StatusBadRequest, httpx.TypeValidation, "Missing "+bodyKey)
				return
			}

			if principal.IsSuperAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			ownerID, err := resolve(r.Context(), resourceID)
			if err != nil {
				mapServiceError(err).WriteError(w)
				return
			}
			if ownerID != principal.ID {
				httpx.WriteError(w, http.StatusForbidden, httpx.TypeAuthorization, "You do not have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
