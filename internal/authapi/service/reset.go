package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/angularauth/authapi/internal/authapi/domain"
	"github.com/angularauth/authapi/internal/authapi/mail"
	"github.com/angularauth/authapi/internal/authapi/store"
	"github.com/angularauth/authapi/pkg/cryptox"
	"github.com/angularauth/authapi/pkg/slogx"
)

var errInvalidReset = errors.New("service: invalid reset token")

// RequestPasswordReset generates a short-lived reset token for the account
// behind the email, persists it, and emails a link carrying it. The token is
// never returned in the response body.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (domain.ServiceResponse, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(MsgEmailNotFound), nil
		}
		return domain.ServiceResponse{}, err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return domain.ServiceResponse{}, err
	}

	expiresAt := time.Now().Add(s.ResetTTL)
	if err := s.Store.Users().UpdateResetToken(ctx, u.ID, token, expiresAt); err != nil {
		return domain.ServiceResponse{}, err
	}

	body := mail.ResetEmailBody(s.AppURL, email, token)
	if err := s.Mailer.Send(ctx, email, mail.ResetSubject, body); err != nil {
		// Don't swallow transport failures: the user would wait forever for
		// an email that never left.
		l.Error("reset email delivery failed", slog.String("user_id", u.ID), slog.Any("error", err))
		return domain.ServiceResponse{}, err
	}

	l.Info("reset email sent", slog.String("user_id", u.ID))
	return domain.OK(nil), nil
}

// CompletePasswordReset consumes a reset token: it verifies token and expiry
// against the stored state, installs the new password hash, and clears the
// token so it cannot be replayed. The verify-then-write runs in one
// transaction.
func (s *AuthService) CompletePasswordReset(ctx context.Context, email, token, newPassword string) (domain.ServiceResponse, error) {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}

		if u.ResetToken == "" || u.ResetToken != token {
			return errInvalidReset
		}
		if u.ResetTokenExpiresAt == nil || !u.ResetTokenExpiresAt.After(time.Now()) {
			return errInvalidReset
		}

		hash, err := cryptox.HashPassword(newPassword)
		if err != nil {
			return err
		}

		if err := tx.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
			return err
		}
		// Single use: clear the token in the same transaction so a replay
		// cannot race the password update.
		return tx.Users().ClearResetToken(ctx, u.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Fail(MsgUserNotFound), nil
		}
		if errors.Is(err, errInvalidReset) {
			return domain.Fail(MsgInvalidResetLink), nil
		}
		return domain.ServiceResponse{}, err
	}

	slogx.FromContext(ctx).Info("password reset completed", slog.String("email", email))
	return domain.OK(nil), nil
}
