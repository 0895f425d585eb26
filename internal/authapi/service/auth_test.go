package service

import (
	"context"
	"testing"
	"time"

	"github.com/angularauth/authapi/internal/authapi/domain"
	"github.com/angularauth/authapi/internal/authapi/store"
	"github.com/angularauth/authapi/internal/authapi/store/drivers/sqlite"
	"github.com/angularauth/authapi/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "Str0ng@Password"
	testAppURL   = "http://localhost:4200"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestService(t *testing.T) (*AuthService, *fakeMailer) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSigner([]byte("0123456789abcdef0123456789abcdef"), "authapi-test")
	require.NoError(t, err)

	mailer := &fakeMailer{}
	svc := &AuthService{
		Store:      st,
		Signer:     signer,
		Mailer:     mailer,
		AppURL:     testAppURL,
		AccessTTL:  time.Minute,
		RefreshTTL: DefaultRefreshTokenTTL,
		ResetTTL:   DefaultResetTokenTTL,
	}
	return svc, mailer
}

func mustRegister(t *testing.T, svc *AuthService, username, email string) {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    email,
		Password: testPassword,
	})
	require.NoError(t, err)
	require.True(t, resp.Success, "registration failed: %s", resp.Message)
}

func tokenPairFrom(t *testing.T, resp domain.ServiceResponse) domain.TokenPair {
	t.Helper()
	pair, ok := resp.Data.(domain.TokenPair)
	require.True(t, ok, "response data should be a TokenPair")
	return pair
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	resp, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	require.True(t, resp.Success)

	pair := tokenPairFrom(t, resp)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Access token carries the identity claims.
	claims, err := svc.Signer.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "User", claims.Role)

	// Refresh token and a future expiry are persisted on the record.
	u, err := svc.Store.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, u.RefreshToken)
	require.NotNil(t, u.RefreshTokenExpiresAt)
	require.True(t, u.RefreshTokenExpiresAt.After(time.Now()))
}

func TestLogin_UniformFailureMessage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	wrongPass, err := svc.Login(ctx, "alice", "Wr0ng@Password")
	require.NoError(t, err)
	require.False(t, wrongPass.Success)

	noUser, err := svc.Login(ctx, "nobody", testPassword)
	require.NoError(t, err)
	require.False(t, noUser.Success)

	// Identical message in both cases so usernames can't be enumerated.
	require.Equal(t, MsgBadCredentials, wrongPass.Message)
	require.Equal(t, MsgBadCredentials, noUser.Message)
}

func TestLogin_RotatesRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	first, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	second, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)

	require.NotEqual(t,
		tokenPairFrom(t, first).RefreshToken,
		tokenPairFrom(t, second).RefreshToken,
		"each login issues a fresh refresh token")
}

func TestRegister_CollectsAllReasons(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "weak",
	})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Contains(t, resp.Message, "Duplicate username")
	require.Contains(t, resp.Message, "Duplicate email")
	require.Contains(t, resp.Message, "Minimum password length should be 8")
}

func TestRegister_NothingPersistedOnFailure(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "weak",
	})
	require.NoError(t, err)
	require.False(t, resp.Success)

	exists, err := svc.Store.Users().UsernameExists(ctx, "bob")
	require.NoError(t, err)
	require.False(t, exists, "failed registration should not persist a record")
}

func TestRegister_DefaultsRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	u, err := svc.Store.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "User", u.Role)
	require.Empty(t, u.RefreshToken)
	require.Empty(t, u.ResetToken)
}

func TestRefresh_AcceptsExpiredAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	login, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	pair := tokenPairFrom(t, login)

	// Simulate the usual case: the access token has already run out.
	expired, err := svc.Signer.Sign("alice", "User", -time.Second)
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, expired, pair.RefreshToken)
	require.NoError(t, err)
	require.True(t, resp.Success)

	rotated := tokenPairFrom(t, resp)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)
}

func TestRefresh_RotationInvalidatesOldToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	login, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	pair := tokenPairFrom(t, login)

	first, err := svc.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
	require.NoError(t, err)
	require.True(t, first.Success)
	firstPair := tokenPairFrom(t, first)

	second, err := svc.Refresh(ctx, firstPair.AccessToken, firstPair.RefreshToken)
	require.NoError(t, err)
	require.True(t, second.Success)
	secondPair := tokenPairFrom(t, second)

	require.NotEqual(t, firstPair.RefreshToken, secondPair.RefreshToken)

	// The first rotated token was overwritten by the second rotation and
	// must no longer be exchangeable.
	replay, err := svc.Refresh(ctx, firstPair.AccessToken, firstPair.RefreshToken)
	require.NoError(t, err)
	require.False(t, replay.Success)
	require.Equal(t, MsgInvalidRequest, replay.Message)
}

func TestRefresh_MismatchedToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	login, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	pair := tokenPairFrom(t, login)

	resp, err := svc.Refresh(ctx, pair.AccessToken, "not-the-stored-token")
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, MsgInvalidRequest, resp.Message)
}

func TestRefresh_ExpiredPersistedToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	login, err := svc.Login(ctx, "alice", testPassword)
	require.NoError(t, err)
	pair := tokenPairFrom(t, login)

	// Force the persisted expiry into the past.
	u, err := svc.Store.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	err = svc.Store.Users().UpdateRefreshToken(ctx, u.ID, u.RefreshToken, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, pair.AccessToken, pair.RefreshToken)
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, MsgInvalidRequest, resp.Message)
}

func TestRefresh_StructurallyInvalidAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	mustRegister(t, svc, "alice", "alice@example.com")

	_, err := svc.Refresh(ctx, "not.a.jwt", "whatever")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret: correct shape, wrong signature.
	otherSigner, err := jwtx.NewSigner([]byte("ffffffffffffffffffffffffffffffff"), "authapi-test")
	require.NoError(t, err)
	forged, err := otherSigner.Sign("alice", "User", time.Minute)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, forged, "whatever")
	require.ErrorIs(t, err, ErrInvalidToken)
}

// collidingUsers reports every candidate refresh token as taken.
type collidingUsers struct {
	store.Users
}

func (collidingUsers) RefreshTokenExists(context.Context, string) (bool, error) {
	return true, nil
}

func TestGenerateRefreshToken_BoundedRetries(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.generateRefreshToken(context.Background(), collidingUsers{})
	require.ErrorIs(t, err, ErrTokenGenExhausted)
}
