package store

import (
	"context"
	"errors"
	"time"

	"github.com/angularauth/authapi/internal/authapi/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. Read-then-conditionally-write sequences on a user
// record (login's refresh persist, refresh rotation, reset consumption) must
// run through WithTx so concurrent requests for the same user cannot lose
// updates.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByUsername is used during login and refresh.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail is used by the password reset flows.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists if the username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UsernameExists reports whether any user holds the given username.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// EmailExists reports whether any user holds the given email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// RefreshTokenExists is the uniqueness oracle for refresh token generation.
	RefreshTokenExists(ctx context.Context, token string) (bool, error)

	// UpdateRefreshToken overwrites the stored refresh token and its expiry,
	// invalidating whatever value was there before.
	UpdateRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// UpdateResetToken sets the reset-password token and its expiry.
	UpdateResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// ClearResetToken removes the reset token and expiry so it cannot be replayed.
	ClearResetToken(ctx context.Context, userID string) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}
