package sqlite

import (
	"context"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
)

type sessionsRepo struct {
	db dbtx
}

const sessionColumns = `id, user_id, device_id, refresh_token, user_agent,
	ip_address, is_revoked, created_at, expires_at`

func scanSession(row interface{ Scan(dest ...any) error }) (domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.DeviceID, &s.RefreshToken, &s.UserAgent,
		&s.IPAddress, &s.IsRevoked, &s.CreatedAt, &s.ExpiresAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	return s, nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_sessions (
			id, user_id, device_id, refresh_token, user_agent, ip_address,
			is_revoked, created_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.DeviceID, s.RefreshToken, s.UserAgent, s.IPAddress,
		s.IsRevoked, s.CreatedAt, s.ExpiresAt,
	)
	return err
}

// GetSession matches the exact triple. Expiry and revocation are checked by
// the caller so it can distinguish "no session" from "session invalid".
func (r *sessionsRepo) GetSession(ctx context.Context, userID, deviceID, refreshToken string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM user_sessions
		WHERE user_id = ? AND device_id = ? AND refresh_token = ?`,
		userID, deviceID, refreshToken,
	)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) DeleteOtherUserSessions(ctx context.Context, userID, keepDeviceID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE user_id = ? AND device_id != ?`,
		userID, keepDeviceID,
	)
	return err
}

func (r *sessionsRepo) RevokeOtherUserSessions(ctx context.Context, userID, keepDeviceID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_sessions SET is_revoked = 1 WHERE user_id = ? AND device_id != ?`,
		userID, keepDeviceID,
	)
	return err
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, userID, deviceID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE user_id = ? AND device_id = ?`,
		userID, deviceID,
	)
	return err
}

func (r *sessionsRepo) DeleteAllUserSessions(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE user_id = ?`, userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}

func (r *sessionsRepo) ListActiveUserSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM user_sessions
		WHERE user_id = ? AND is_revoked = 0 AND expires_at > ?
		ORDER BY created_at DESC`,
		userID, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
