package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are stateless and never checked against
// storage, so they stay short-lived; refresh tokens are store-checked and can
// be revoked early, so they may live longer.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the token claims shared by access and refresh tokens. Both token
// kinds embed the same identity so a refresh presentation can rebuild the
// access claims without a user lookup.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`

	// UserName is the unique login handle.
	UserName string `json:"user_name,omitempty"`

	// Role is one of "user", "admin", "superAdmin".
	Role string `json:"role,omitempty"`

	// DeviceID is the fingerprint of the device the tokens were issued to.
	// Sessions are scoped by it.
	DeviceID string `json:"device_id,omitempty"`
}

// NewClaims builds minimally-correct claims for a user on a device.
func NewClaims(
	userID, email, userName, role, deviceID string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    email,
		UserName: userName,
		Role:     role,
		DeviceID: deviceID,
	}
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// ValidateIssuer checks the iss claim against the expected value.
// Empty expected means "don't care".
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token is inside its [nbf, exp] window.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
