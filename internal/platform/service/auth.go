package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/pkg/cryptox"
	"github.com/sou2aq/platform/pkg/jwtx"
)

var (
	// ErrUserNotFound and ErrIncorrectPassword are deliberately distinct.
	// The public API has always reported them with different messages, and
	// clients depend on the wording, so the enumeration trade-off stands.
	ErrUserNotFound      = errors.New("user_not_found")
	ErrIncorrectPassword = errors.New("incorrect_password")

	// ErrAccountInactive means the account exists but email verification
	// never completed. Checked before the password.
	ErrAccountInactive = errors.New("account_inactive")
)

// AuthService authenticates credentials and issues token pairs. Access and
// refresh tokens are signed with separate secrets; a refresh token can never
// pass access verification or vice versa.
type AuthService struct {
	Store    store.Store
	Sessions *SessionService
	Logger   *slog.Logger

	AccessSigner    jwtx.Signer
	RefreshSigner   jwtx.Signer
	RefreshVerifier jwtx.Verifier

	Issuer   string
	Audience []string

	AccessTTL  time.Duration // defaults to jwtx.DefaultAccessTokenTTL
	RefreshTTL time.Duration // defaults to jwtx.DefaultRefreshTokenTTL
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

// Login authenticates an email-or-username identifier and starts a session
// on the presenting device. Account state is checked before the password so
// an unverified user is told to verify, not to retry credentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string, device DeviceInfo) (domain.User, domain.TokenPair, error) {
	user, err := s.lookupUser(ctx, identifier)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if !user.CanLogin() {
		return domain.User{}, domain.TokenPair{}, ErrAccountInactive
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, domain.TokenPair{}, ErrIncorrectPassword
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	pair, err := s.IssueTokens(ctx, user, device)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	if err := s.Store.Users().TouchModified(ctx, user.ID); err != nil {
		// The login already succeeded; a failed timestamp bump is not
		// worth failing it over.
		s.Logger.Warn("touch modified failed", "user_id", user.ID, "err", err)
	}

	return user, pair, nil
}

func (s *AuthService) lookupUser(ctx context.Context, identifier string) (domain.User, error) {
	var (
		user domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.Store.Users().GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.Store.Users().GetUserByUserName(ctx, identifier)
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// IssueTokens signs an access/refresh pair for the user on the device and
// registers the refresh token as the device's single session.
func (s *AuthService) IssueTokens(ctx context.Context, user domain.User, device DeviceInfo) (domain.TokenPair, error) {
	now := time.Now().UTC()

	accessClaims := jwtx.NewClaims(
		user.ID, user.Email, user.UserName, user.Role, device.ID,
		s.accessTTL(), s.Issuer, s.Audience, now,
	)
	accessToken, err := s.AccessSigner.Sign(accessClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshClaims := jwtx.NewClaims(
		user.ID, user.Email, user.UserName, user.Role, device.ID,
		s.refreshTTL(), s.Issuer, s.Audience, now,
	)
	refreshToken, err := s.RefreshSigner.Sign(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if _, err := s.Sessions.StartSession(ctx, user.ID, device, refreshToken); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL().Seconds()),
		TokenType:    "Bearer",
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must verify cryptographically AND match a live session on the presenting
// device; either failure alone rejects the exchange. The refresh token is
// not rotated, it stays valid until its own expiry or revocation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, device DeviceInfo) (domain.TokenPair, error) {
	claims, err := s.RefreshVerifier.Verify(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	// The device fingerprint is recomputed from the live request, so a
	// token replayed from another device fails the session match.
	if _, err := s.Sessions.ValidateSession(ctx, claims.UserID(), device.ID, refreshToken); err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrSessionInvalid
		}
		return domain.TokenPair{}, err
	}

	now := time.Now().UTC()
	accessClaims := jwtx.NewClaims(
		user.ID, user.Email, user.UserName, user.Role, device.ID,
		s.accessTTL(), s.Issuer, s.Audience, now,
	)
	accessToken, err := s.AccessSigner.Sign(accessClaims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL().Seconds()),
		TokenType:    "Bearer",
	}, nil
}
