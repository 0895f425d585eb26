package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/angularauth/authapi/internal/authapi/domain"
	"github.com/angularauth/authapi/internal/authapi/mail"
	"github.com/angularauth/authapi/internal/authapi/store"
	"github.com/angularauth/authapi/pkg/cryptox"
	"github.com/angularauth/authapi/pkg/idx"
	"github.com/angularauth/authapi/pkg/jwtx"
	"github.com/angularauth/authapi/pkg/slogx"
)

const (
	// maxRefreshTokenAttempts bounds the uniqueness-collision retry loop.
	// With 64 random bytes a collision is effectively impossible, so hitting
	// the bound means the entropy source or the store is broken.
	maxRefreshTokenAttempts = 10

	// DefaultRefreshTokenTTL is how long a refresh token stays exchangeable.
	DefaultRefreshTokenTTL = 24 * time.Hour

	// DefaultResetTokenTTL is how long an emailed reset token stays usable.
	DefaultResetTokenTTL = 10 * time.Minute
)

// User-facing failure messages. Login deliberately reports the same message
// for unknown-username and wrong-password so usernames cannot be enumerated.
const (
	MsgBadCredentials   = "Username or password incorrect"
	MsgInvalidRequest   = "Invalid Request"
	MsgEmailNotFound    = "Email doesn't exist"
	MsgUserNotFound     = "User doesn't exist"
	MsgInvalidResetLink = "Invalid reset link"
)

var (
	// ErrInvalidToken marks a structurally invalid access token on refresh
	// (bad signature, wrong algorithm, malformed). Handlers map it to a
	// client error instead of a business failure envelope.
	ErrInvalidToken = errors.New("service: invalid access token")

	// ErrTokenGenExhausted reports that refresh token generation kept
	// colliding with stored tokens and gave up.
	ErrTokenGenExhausted = errors.New("service: refresh token generation exhausted retries")

	errBadCredentials = errors.New("service: bad credentials")
	errInvalidRefresh = errors.New("service: invalid refresh request")
)

// AuthService is the credential lifecycle engine. It owns no persistent state
// itself; it operates on user records in the store.
type AuthService struct {
	Store  store.Store
	Signer *jwtx.Signer
	Mailer mail.Sender

	// AppURL is the frontend base the reset link points at.
	AppURL string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// Login verifies the credentials and, on success, issues an access token and
// a freshly rotated refresh token. The lookup and refresh-token write run in
// one transaction so concurrent logins for the same user cannot lose updates.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.ServiceResponse, error) {
	l := slogx.FromContext(ctx)

	var pair domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errBadCredentials
			}
			return err
		}

		if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
			return errBadCredentials
		}

		accessToken, err := s.Signer.Sign(u.Username, u.Role, s.AccessTTL)
		if err != nil {
			return err
		}

		refreshToken, err := s.generateRefreshToken(ctx, tx.Users())
		if err != nil {
			return err
		}

		expiresAt := time.Now().Add(s.RefreshTTL)
		if err := tx.Users().UpdateRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
			return err
		}

		pair = domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errBadCredentials) {
			l.Info("login failed", slog.String("username", username))
			return domain.Fail(MsgBadCredentials), nil
		}
		return domain.ServiceResponse{}, err
	}

	return domain.OK(pair), nil
}

// RegisterRequest carries the fields a new account is created from.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register validates the request, collecting every applicable failure reason
// into one message, and creates the record with the password already hashed.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (domain.ServiceResponse, error) {
	users := s.Store.Users()

	var reasons []string

	taken, err := users.UsernameExists(ctx, req.Username)
	if err != nil {
		return domain.ServiceResponse{}, err
	}
	if taken {
		reasons = append(reasons, "Duplicate username")
	}

	taken, err = users.EmailExists(ctx, req.Email)
	if err != nil {
		return domain.ServiceResponse{}, err
	}
	if taken {
		reasons = append(reasons, "Duplicate email")
	}

	reasons = append(reasons, CheckPasswordStrength(req.Password)...)

	if len(reasons) > 0 {
		return domain.Fail(strings.Join(reasons, "\n")), nil
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return domain.ServiceResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = "User"
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := users.CreateUser(ctx, u); err != nil {
		// Lost a race with a concurrent registration for the same name.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Fail("Duplicate username or email"), nil
		}
		return domain.ServiceResponse{}, err
	}

	slogx.FromContext(ctx).Info("user registered",
		slog.String("user_id", u.ID),
		slog.String("username", u.Username),
	)
	return domain.OK(nil), nil
}

// Refresh exchanges an expired (or still valid) access token plus the
// persisted refresh token for a fresh pair. The stored refresh token is
// overwritten in the same transaction, which is what invalidates the old one.
//
// Structural problems with the access token surface as ErrInvalidToken;
// everything else about the request fails uniformly with MsgInvalidRequest.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (domain.ServiceResponse, error) {
	claims, err := s.Signer.ParseExpired(accessToken)
	if err != nil {
		return domain.ServiceResponse{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByUsername(ctx, claims.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errInvalidRefresh
			}
			return err
		}

		if u.RefreshToken == "" || u.RefreshToken != refreshToken {
			return errInvalidRefresh
		}
		if u.RefreshTokenExpiresAt == nil || !u.RefreshTokenExpiresAt.After(time.Now()) {
			return errInvalidRefresh
		}

		newAccess, err := s.Signer.Sign(u.Username, u.Role, s.AccessTTL)
		if err != nil {
			return err
		}

		newRefresh, err := s.generateRefreshToken(ctx, tx.Users())
		if err != nil {
			return err
		}

		expiresAt := time.Now().Add(s.RefreshTTL)
		if err := tx.Users().UpdateRefreshToken(ctx, u.ID, newRefresh, expiresAt); err != nil {
			return err
		}

		pair = domain.TokenPair{
			AccessToken:  newAccess,
			RefreshToken: newRefresh,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errInvalidRefresh) {
			slogx.FromContext(ctx).Info("refresh rejected", slog.String("username", claims.Username))
			return domain.Fail(MsgInvalidRequest), nil
		}
		return domain.ServiceResponse{}, err
	}

	return domain.OK(pair), nil
}

// generateRefreshToken draws an opaque token and checks it against stored
// refresh tokens, retrying a bounded number of times on collision.
func (s *AuthService) generateRefreshToken(ctx context.Context, users store.Users) (string, error) {
	for range maxRefreshTokenAttempts {
		token, err := cryptox.GenerateToken(cryptox.TokenSize512)
		if err != nil {
			return "", err
		}

		exists, err := users.RefreshTokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", ErrTokenGenExhausted
}
