package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angularauth/authapi/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, mailer := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	resp, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, MsgEmailNotFound, resp.Message)
	require.Empty(t, mailer.sent, "no email for an unknown address")
}

func TestRequestPasswordReset_SendsTokenLink(t *testing.T) {
	ctx := context.Background()
	svc, mailer := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	resp, err := svc.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Nil(t, resp.Data, "the token only travels by email")

	u, err := svc.Store.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, u.ResetToken)
	require.NotNil(t, u.ResetTokenExpiresAt)
	require.True(t, u.ResetTokenExpiresAt.After(time.Now()))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	require.Equal(t, "alice@example.com", msg.To)
	require.Contains(t, msg.Body, testAppURL)
	require.Contains(t, msg.Body, u.ResetToken)
}

func TestRequestPasswordReset_MailerFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	svc, mailer := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	mailer.err = errors.New("smtp: connection refused")

	_, err := svc.RequestPasswordReset(ctx, "alice@example.com")
	require.Error(t, err)
}

func TestCompletePasswordReset_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	_, err := svc.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	u, err := svc.Store.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	const newPassword = "N3w@Password"
	resp, err := svc.CompletePasswordReset(ctx, "alice@example.com", u.ResetToken, newPassword)
	require.NoError(t, err)
	require.True(t, resp.Success)

	// Old password no longer works, new one does.
	old, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.False(t, old.Success)

	fresh, err := svc.Login(ctx, "alice", newPassword)
	require.NoError(t, err)
	require.True(t, fresh.Success)

	// Token is consumed.
	u, err = svc.Store.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Empty(t, u.ResetToken)
	require.Nil(t, u.ResetTokenExpiresAt)
}

func TestCompletePasswordReset_Replay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	_, err := svc.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	u, err := svc.Store.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	token := u.ResetToken

	first, err := svc.CompletePasswordReset(ctx, "alice@example.com", token, "N3w@Password")
	require.NoError(t, err)
	require.True(t, first.Success)

	replay, err := svc.CompletePasswordReset(ctx, "alice@example.com", token, "0th3r@Password")
	require.NoError(t, err)
	require.False(t, replay.Success)
	require.Equal(t, MsgInvalidResetLink, replay.Message)
}

func TestCompletePasswordReset_MismatchedToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	_, err := svc.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)

	resp, err := svc.CompletePasswordReset(ctx, "alice@example.com", "wrong-token", "N3w@Password")
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, MsgInvalidResetLink, resp.Message)

	// Password unchanged.
	login, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.True(t, login.Success)
}

func TestCompletePasswordReset_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	u, err := svc.Store.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	token := cryptox.MustGenerateToken(cryptox.TokenSize512)
	err = svc.Store.Users().UpdateResetToken(ctx, u.ID, token, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	resp, err := svc.CompletePasswordReset(ctx, "alice@example.com", token, "N3w@Password")
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, MsgInvalidResetLink, resp.Message)

	login, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.True(t, login.Success)
}

func TestCompletePasswordReset_UnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.CompletePasswordReset(ctx, "nobody@example.com", "token", "N3w@Password")
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, MsgUserNotFound, resp.Message)
}
