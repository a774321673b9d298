package domain

import "time"

// Session binds one user, one device fingerprint, and one refresh token. At
// most one non-revoked, non-expired session exists per (user, device); a new
// login on another device evicts every other session the user holds.
type Session struct {
	ID           string
	UserID       string
	DeviceID     string // derived fingerprint, not user-chosen
	RefreshToken string // stored verbatim for exact-match validation
	UserAgent    string
	IPAddress    string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	IsRevoked    bool
}

// SessionInfo is the self-service view of a session. The refresh token value
// is deliberately absent.
type SessionInfo struct {
	DeviceID  string    `json:"deviceId"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
