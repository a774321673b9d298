package httpx

import (
	"net"
	"net/http"
	"strings"

	"github.com/sou2aq/platform/pkg/cryptox"
)

// DeviceFingerprint derives a stable device id from request metadata. It is a
// pure function of the user-agent and client IP: the same browser/IP pair
// always maps to the same id. Both inputs empty degenerates to the hash of
// empty strings, which collapses anonymous devices into one session slot;
// login still succeeds in that case.
func DeviceFingerprint(userAgent, ip string) string {
	return cryptox.Fingerprint(userAgent, ip)
}

// DeviceIdentity computes the request's device fingerprint and attaches it to
// the context. Runs only on the login route, before token issuance, so the
// rest of the pipeline treats the device id as an opaque input.
func DeviceIdentity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua := r.UserAgent()
			ip := ClientIP(r)

			ctx := ContextWithDevice(r.Context(), Device{
				ID:        DeviceFingerprint(ua, ip),
				UserAgent: ua,
				IP:        ip,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIP extracts the client IP, preferring proxy headers over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
