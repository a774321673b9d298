package store

import (
	"context"
	"errors"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy; all session writers go
// through Sessions so the single-device invariant stays in one place.
type Store interface {
	Users() Users
	Sessions() Sessions
	Sites() Sites
	Articles() Articles
	Maps() Maps

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store. The
	// caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns nil
	// and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos and adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used for email-identifier login and OTP flows.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUserName is used for username-identifier login.
	GetUserByUserName(ctx context.Context, userName string) (domain.User, error)

	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists on an email or username collision.
	CreateUser(ctx context.Context, u domain.User) error

	// ExistsByEmailOrUserName reports whether either identifier is taken.
	ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error)

	// UpdateProfile mutates the mutable profile fields and bumps modified_at.
	UpdateProfile(ctx context.Context, u domain.User) error

	// TouchModified bumps modified_at only (successful login).
	TouchModified(ctx context.Context, userID string) error

	// SetOTP stores a fresh verification code and its expiry.
	SetOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error

	// MarkEmailVerified sets email_verified_at, flips is_active to yes, and
	// clears the consumed OTP.
	MarkEmailVerified(ctx context.Context, email string) error

	// ClearExpiredOTPs nulls out verification codes past their expiry.
	ClearExpiredOTPs(ctx context.Context) error

	// ListUsers returns all users, newest first (superAdmin operation).
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Sessions interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession returns the session matching the exact
	// (userID, deviceID, refreshToken) triple, expired or not.
	GetSession(ctx context.Context, userID, deviceID, refreshToken string) (domain.Session, error)

	// DeleteOtherUserSessions removes every session the user holds on devices
	// other than keepDeviceID (login eviction).
	DeleteOtherUserSessions(ctx context.Context, userID, keepDeviceID string) error

	// RevokeOtherUserSessions flips is_revoked on other devices' sessions
	// (explicit "log out other devices" flow, distinct from login eviction).
	RevokeOtherUserSessions(ctx context.Context, userID, keepDeviceID string) error

	// DeleteSession removes exactly the (user, device) row. Deleting zero
	// rows is not an error.
	DeleteSession(ctx context.Context, userID, deviceID string) error

	// DeleteAllUserSessions removes every session row for the user.
	DeleteAllUserSessions(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping, also run inline at login.
	DeleteExpiredSessions(ctx context.Context) error

	// ListActiveUserSessions returns non-revoked, non-expired sessions,
	// newest first.
	ListActiveUserSessions(ctx context.Context, userID string) ([]domain.Session, error)
}

type Sites interface {
	// CreateSite inserts a site. Returns ErrAlreadyExists when the subdomain
	// is taken.
	CreateSite(ctx context.Context, s domain.Site) error

	GetSiteByID(ctx context.Context, id string) (domain.Site, error)
	GetSiteBySubdomain(ctx context.Context, subdomain string) (domain.Site, error)

	// ListSites returns all sites, newest first.
	ListSites(ctx context.Context) ([]domain.Site, error)

	// ListSitesByOwner returns the user's sites, newest first.
	ListSitesByOwner(ctx context.Context, ownerID string) ([]domain.Site, error)

	// UpdateSite mutates name/description/logo and bumps modified_at.
	UpdateSite(ctx context.Context, s domain.Site) error

	// SetSiteActive toggles the activation flag (superAdmin operation).
	SetSiteActive(ctx context.Context, id, isActive string) error

	// DeleteSite cascades to articles and maps (per schema).
	DeleteSite(ctx context.Context, id string) error
}

type Articles interface {
	CreateArticle(ctx context.Context, a domain.Article) error
	GetArticleByID(ctx context.Context, id string) (domain.Article, error)
	ListArticles(ctx context.Context) ([]domain.Article, error)
	ListArticlesBySite(ctx context.Context, siteID string) ([]domain.Article, error)
	UpdateArticle(ctx context.Context, a domain.Article) error
	DeleteArticle(ctx context.Context, id string) error
}

type Maps interface {
	CreateMap(ctx context.Context, m domain.Map) error
	GetMapByID(ctx context.Context, id string) (domain.Map, error)
	ListMapsBySite(ctx context.Context, siteID string) ([]domain.Map, error)
	UpdateMap(ctx context.Context, m domain.Map) error
	DeleteMap(ctx context.Context, id string) error
}
