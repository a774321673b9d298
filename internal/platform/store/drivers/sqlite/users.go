package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, full_name, user_name, email, password_hash, role, dob, phone,
	profile_image, is_active, email_verified_at, email_otp, email_otp_expires_at,
	created_at, modified_at`

func scanUser(row interface{ Scan(dest ...any) error }) (domain.User, error) {
	var (
		u          domain.User
		verifiedAt sql.NullTime
		otp        sql.NullString
		otpExpires sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.FullName, &u.UserName, &u.Email, &u.PasswordHash, &u.Role,
		&u.DoB, &u.Phone, &u.ProfileImage, &u.IsActive,
		&verifiedAt, &otp, &otpExpires,
		&u.CreatedAt, &u.ModifiedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.EmailVerifiedAt = mapNullTimePtr(verifiedAt)
	u.EmailOTP = mapNullStringPtr(otp)
	u.EmailOTPExpiresAt = mapNullTimePtr(otpExpires)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUserName(ctx context.Context, userName string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_name = ?`, userName)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, full_name, user_name, email, password_hash, role, dob, phone,
			profile_image, is_active, email_verified_at, email_otp,
			email_otp_expires_at, created_at, modified_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FullName, u.UserName, u.Email, u.PasswordHash, u.Role,
		u.DoB, u.Phone, u.ProfileImage, u.IsActive,
		mapOptionalTime(u.EmailVerifiedAt), mapOptionalString(u.EmailOTP),
		mapOptionalTime(u.EmailOTPExpiresAt), u.CreatedAt, u.ModifiedAt,
	)
	if isConstraintErr(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) ExistsByEmailOrUserName(ctx context.Context, email, userName string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE email = ? OR user_name = ?`,
		email, userName,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) UpdateProfile(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET full_name = ?, phone = ?, profile_image = ?, modified_at = ?
		WHERE id = ?`,
		u.FullName, u.Phone, u.ProfileImage, time.Now().UTC(), u.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) TouchModified(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET modified_at = ? WHERE id = ?`,
		time.Now().UTC(), userID,
	)
	return err
}

func (r *usersRepo) SetOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_otp = ?, email_otp_expires_at = ?, modified_at = ?
		WHERE id = ?`,
		otp, expiresAt, time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_verified_at = ?, is_active = ?, email_otp = NULL,
		    email_otp_expires_at = NULL, modified_at = ?
		WHERE email = ?`,
		time.Now().UTC(), domain.ActiveYes, time.Now().UTC(), email,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ClearExpiredOTPs(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_otp = NULL, email_otp_expires_at = NULL
		WHERE email_otp IS NOT NULL AND email_otp_expires_at < ?`,
		time.Now().UTC(),
	)
	return err
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// requireRow turns a zero-row UPDATE into store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
