package sqlite

import (
	"context"
	"time"

	"github.com/angularauth/authapi/internal/authapi/domain"
	"github.com/angularauth/authapi/internal/authapi/store"
)

const userColumns = `id, username, email, password_hash, role,
	refresh_token, refresh_token_expires_at,
	reset_token, reset_token_expires_at,
	created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
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

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role)
	return mapConstraint(err)
}

func (r *usersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE username = ?`, username)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE email = ?`, email)
}

func (r *usersRepo) RefreshTokenExists(ctx context.Context, token string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(1) FROM users WHERE refresh_token = ?`, token)
}

func (r *usersRepo) exists(ctx context.Context, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *usersRepo) UpdateRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	return r.updateOne(ctx, `
		UPDATE users
		SET refresh_token = ?, refresh_token_expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		token, expiresAt, userID)
}

func (r *usersRepo) UpdateResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	return r.updateOne(ctx, `
		UPDATE users
		SET reset_token = ?, reset_token_expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		token, expiresAt, userID)
}

func (r *usersRepo) ClearResetToken(ctx context.Context, userID string) error {
	return r.updateOne(ctx, `
		UPDATE users
		SET reset_token = NULL, reset_token_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.updateOne(ctx, `
		UPDATE users
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		newHash, userID)
}

func (r *usersRepo) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
