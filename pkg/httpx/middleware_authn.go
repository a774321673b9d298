package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sou2aq/platform/pkg/jwtx"
	"github.com/sou2aq/platform/pkg/slogx"
)

// AuthnMiddleware verifies the bearer access token and attaches the principal
// to the request context. A missing header is 401; a token that fails
// verification is 403, with the expired case called out separately.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, TypeAuthentication,
					"Unauthorized: token missing")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				msg := "Unauthorized: invalid token"
				if errors.Is(err, jwtx.ErrExpired) {
					msg = "Unauthorized: token expired"
				}
				log.Warn("access token verify failed", "err", err)
				WriteError(w, http.StatusForbidden, TypeToken, msg)
				return
			}

			ctx = ContextWithPrincipal(ctx, Principal{
				ID:       claims.UserID(),
				Email:    claims.Email,
				UserName: claims.UserName,
				Role:     claims.Role,
				DeviceID: claims.DeviceID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
