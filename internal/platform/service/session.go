package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
)

var (
	// ErrSessionInvalid covers every refresh rejection: no matching row,
	// expired, or revoked. Callers surface it as a session error without
	// telling the client which check failed.
	ErrSessionInvalid = errors.New("session_invalid")
)

// DeviceInfo carries the request-derived device identity into the service
// layer. ID is a server-computed fingerprint, never client-chosen.
type DeviceInfo struct {
	ID        string
	UserAgent string
	IP        string
}

// SessionService owns every write to user_sessions so the single-active-
// session invariant lives in one place. A successful login evicts all of the
// user's sessions on other devices inside the same transaction that creates
// the new one.
type SessionService struct {
	Store store.Store

	// TTL is the session (and refresh token) lifetime. Defaults to 7 days
	// when zero.
	TTL time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

// StartSession records a fresh login. In one transaction it drops the user's
// sessions on every other device, sweeps expired rows, replaces any previous
// session on this device, and inserts the new row. Two concurrent logins
// from different devices serialize here; whichever commits last holds the
// only live session.
func (s *SessionService) StartSession(ctx context.Context, userID string, device DeviceInfo, refreshToken string) (domain.Session, error) {
	now := time.Now().UTC()
	session := domain.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		DeviceID:     device.ID,
		RefreshToken: refreshToken,
		UserAgent:    device.UserAgent,
		IPAddress:    device.IP,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl()),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteOtherUserSessions(ctx, userID, device.ID); err != nil {
			return err
		}
		if err := tx.Sessions().DeleteExpiredSessions(ctx); err != nil {
			return err
		}
		// Replace a previous session on the same device rather than
		// tripping the (user_id, device_id) uniqueness.
		if err := tx.Sessions().DeleteSession(ctx, userID, device.ID); err != nil {
			return err
		}
		return tx.Sessions().CreateSession(ctx, session)
	})
	if err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// ValidateSession checks the exact (user, device, refresh token) triple and
// rejects expired or revoked rows. A refresh token presented from a device
// other than the one it was issued to never matches.
func (s *SessionService) ValidateSession(ctx context.Context, userID, deviceID, refreshToken string) (domain.Session, error) {
	session, err := s.Store.Sessions().GetSession(ctx, userID, deviceID, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrSessionInvalid
		}
		return domain.Session{}, err
	}
	if session.IsRevoked || time.Now().After(session.ExpiresAt) {
		return domain.Session{}, ErrSessionInvalid
	}
	return session, nil
}

// Logout drops the session for this device. Logging out a device with no
// session is not an error.
func (s *SessionService) Logout(ctx context.Context, userID, deviceID string) error {
	return s.Store.Sessions().DeleteSession(ctx, userID, deviceID)
}

// LogoutAll drops every session the user holds, current device included.
func (s *SessionService) LogoutAll(ctx context.Context, userID string) error {
	return s.Store.Sessions().DeleteAllUserSessions(ctx, userID)
}

// RevokeOtherSessions marks sessions on other devices revoked without
// deleting them, keeping their rows visible for auditing.
func (s *SessionService) RevokeOtherSessions(ctx context.Context, userID, keepDeviceID string) error {
	return s.Store.Sessions().RevokeOtherUserSessions(ctx, userID, keepDeviceID)
}

// ListSessions returns the user's live sessions without refresh token
// values, newest first.
func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]domain.SessionInfo, error) {
	sessions, err := s.Store.Sessions().ListActiveUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, domain.SessionInfo{
			DeviceID:  sess.DeviceID,
			UserAgent: sess.UserAgent,
			IPAddress: sess.IPAddress,
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.ExpiresAt,
		})
	}
	return infos, nil
}
