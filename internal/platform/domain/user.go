package domain

import "time"

// Roles a user can hold. Registration never produces a superAdmin; that role
// is seeded out of band.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

// Account activation states. Stored as text to match the original schema.
const (
	ActiveYes = "yes"
	ActiveNo  = "no"
)

type User struct {
	ID           string
	FullName     string
	UserName     string // unique login handle
	Email        string // unique
	PasswordHash string // argon2id encoded
	Role         string
	DoB          string // YYYY-MM-DD
	Phone        string
	IsActive     string // "yes" | "no"; flipped to yes only by OTP verification
	ProfileImage string

	EmailVerifiedAt   *time.Time
	EmailOTP          *string    // pending verification code, single-use
	EmailOTPExpiresAt *time.Time // 90 seconds past issuance

	CreatedAt  time.Time
	ModifiedAt time.Time
}

// CanLogin reports whether the account may receive a session. An inactive or
// unverified user must never be issued tokens.
func (u User) CanLogin() bool {
	return u.IsActive == ActiveYes && u.EmailVerifiedAt != nil
}
