package httpx

import "context"

type ctxKey string

const (
	ctxKeyPrincipal ctxKey = "principal"
	ctxKeyDevice    ctxKey = "device"
)

// Role names used across the authorization predicates.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

// Principal is the authenticated identity attached to the request context by
// AuthnMiddleware. Handlers trust it; all verification happened upstream.
type Principal struct {
	ID       string
	Email    string
	UserName string
	Role     string
	DeviceID string
}

// IsSuperAdmin reports whether the principal holds the superAdmin role.
func (p Principal) IsSuperAdmin() bool { return p.Role == RoleSuperAdmin }

// Device is the request's derived device identity. Only populated on routes
// wrapped with DeviceIdentity (the login path).
type Device struct {
	ID        string
	UserAgent string
	IP        string
}

// ContextWithPrincipal attaches p to ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFromContext returns the request principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}

// ContextWithDevice attaches d to ctx.
func ContextWithDevice(ctx context.Context, d Device) context.Context {
	return context.WithValue(ctx, ctxKeyDevice, d)
}

// DeviceFromContext returns the derived device identity, if any.
func DeviceFromContext(ctx context.Context) (Device, bool) {
	d, ok := ctx.Value(ctxKeyDevice).(Device)
	return d, ok
}
