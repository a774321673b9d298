package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store/drivers/sqlite"
	"github.com/sou2aq/platform/pkg/cryptox"
	"github.com/sou2aq/platform/pkg/idx"
	"github.com/sou2aq/platform/pkg/jwtx"
	"github.com/sou2aq/platform/pkg/mailx"
)

const (
	testIssuer   = "SOU2AQ-API"
	testPassword = "correct-horse-battery"
)

var testAudience = []string{"SOU2AQ-Users"}

type testServices struct {
	store    *sqlite.Store
	sessions *SessionService
	auth     *AuthService
	reg      *RegistrationService
	users    *UserService

	accessVerifier  jwtx.Verifier
	refreshVerifier jwtx.Verifier
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.Default()

	accessSigner, err := jwtx.NewSignerHS256([]byte("test-access-secret"))
	require.NoError(t, err)
	refreshSigner, err := jwtx.NewSignerHS256([]byte("test-refresh-secret"))
	require.NoError(t, err)

	accessVerifier := jwtx.NewVerifierHS256([]byte("test-access-secret"), testIssuer, testAudience)
	refreshVerifier := jwtx.NewVerifierHS256([]byte("test-refresh-secret"), testIssuer, testAudience)

	sessions := &SessionService{Store: st}
	auth := &AuthService{
		Store:           st,
		Sessions:        sessions,
		Logger:          logger,
		AccessSigner:    accessSigner,
		RefreshSigner:   refreshSigner,
		RefreshVerifier: refreshVerifier,
		Issuer:          testIssuer,
		Audience:        testAudience,
	}
	reg := NewRegistrationService(st, &mailx.LogSender{Logger: logger}, logger)

	return &testServices{
		store:           st,
		sessions:        sessions,
		auth:            auth,
		reg:             reg,
		users:           &UserService{Store: st},
		accessVerifier:  accessVerifier,
		refreshVerifier: refreshVerifier,
	}
}

// seedVerifiedUser creates an account that has completed email verification.
func seedVerifiedUser(t *testing.T, ts *testServices, email, userName string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		FullName:     "Seed User",
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		DoB:          "1990-06-15",
		IsActive:     domain.ActiveNo,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	ctx := context.Background()
	require.NoError(t, ts.store.Users().CreateUser(ctx, u))
	require.NoError(t, ts.store.Users().MarkEmailVerified(ctx, email))

	u, err = ts.store.Users().GetUserByEmail(ctx, email)
	require.NoError(t, err)
	return u
}

func testDevice(id string) DeviceInfo {
	return DeviceInfo{
		ID:        cryptox.Fingerprint("agent-"+id, "10.0.0.1"),
		UserAgent: "agent-" + id,
		IP:        "10.0.0.1",
	}
}

func TestLoginUnknownUser(t *testing.T) {
	ts := newTestServices(t)

	_, _, err := ts.auth.Login(context.Background(), "ghost@example.com", testPassword, testDevice("a"))
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = ts.auth.Login(context.Background(), "ghost", testPassword, testDevice("a"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginUnverifiedAccount(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, ts.store.Users().CreateUser(ctx, domain.User{
		ID: idx.New().String(), FullName: "Pending", UserName: "pending",
		Email: "pending@example.com", PasswordHash: hash, Role: domain.RoleUser,
		DoB: "1990-01-01", IsActive: domain.ActiveNo,
		CreatedAt: now, ModifiedAt: now,
	}))

	// Account state is checked before the password, so even the right
	// password reports an inactive account, and so does a wrong one.
	_, _, err = ts.auth.Login(ctx, "pending@example.com", testPassword, testDevice("a"))
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, _, err = ts.auth.Login(ctx, "pending@example.com", "wrong-password", testDevice("a"))
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServices(t)
	seedVerifiedUser(t, ts, "alice@example.com", "alice")

	_, _, err := ts.auth.Login(context.Background(), "alice@example.com", "wrong-password", testDevice("a"))
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "bob@example.com", "bob")
	device := testDevice("a")

	got, pair, err := ts.auth.Login(context.Background(), "bob", testPassword, device)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(jwtx.DefaultAccessTokenTTL.Seconds()), pair.ExpiresIn)

	claims, err := ts.accessVerifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, device.ID, claims.DeviceID)

	// A refresh token must never verify as an access token.
	_, err = ts.accessVerifier.Verify(pair.RefreshToken)
	assert.Error(t, err)
	_, err = ts.refreshVerifier.Verify(pair.RefreshToken)
	assert.NoError(t, err)

	sessions, err := ts.sessions.ListSessions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, device.ID, sessions[0].DeviceID)
}

func TestLoginEvictsOtherDevices(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "carol@example.com", "carol")
	ctx := context.Background()

	deviceA, deviceB := testDevice("a"), testDevice("b")

	_, pairA, err := ts.auth.Login(ctx, "carol", testPassword, deviceA)
	require.NoError(t, err)

	_, pairB, err := ts.auth.Login(ctx, "carol", testPassword, deviceB)
	require.NoError(t, err)

	// Device A's session is gone; its refresh token is dead even though
	// the JWT itself is still cryptographically valid.
	_, err = ts.refreshVerifier.Verify(pairA.RefreshToken)
	require.NoError(t, err)
	_, err = ts.auth.Refresh(ctx, pairA.RefreshToken, deviceA)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = ts.auth.Refresh(ctx, pairB.RefreshToken, deviceB)
	assert.NoError(t, err)

	sessions, err := ts.sessions.ListSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, deviceB.ID, sessions[0].DeviceID)
}

func TestRefreshReturnsFreshAccessToken(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "dave@example.com", "dave")
	device := testDevice("a")
	ctx := context.Background()

	_, pair, err := ts.auth.Login(ctx, "dave", testPassword, device)
	require.NoError(t, err)

	renewed, err := ts.auth.Refresh(ctx, pair.RefreshToken, device)
	require.NoError(t, err)

	claims, err := ts.accessVerifier.Verify(renewed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())

	// The refresh token is not rotated.
	assert.Equal(t, pair.RefreshToken, renewed.RefreshToken)
}

func TestRefreshFromDifferentDevice(t *testing.T) {
	ts := newTestServices(t)
	seedVerifiedUser(t, ts, "eve@example.com", "eve")
	ctx := context.Background()

	_, pair, err := ts.auth.Login(ctx, "eve", testPassword, testDevice("a"))
	require.NoError(t, err)

	// Stolen refresh token replayed from another device: the recomputed
	// fingerprint misses the session triple.
	_, err = ts.auth.Refresh(ctx, pair.RefreshToken, testDevice("b"))
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ts := newTestServices(t)
	seedVerifiedUser(t, ts, "frank@example.com", "frank")
	ctx := context.Background()

	device := testDevice("a")
	_, pair, err := ts.auth.Login(ctx, "frank", testPassword, device)
	require.NoError(t, err)

	// An access token presented at refresh fails signature verification
	// against the refresh secret.
	_, err = ts.auth.Refresh(ctx, pair.AccessToken, device)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionInvalid)
}

func TestLogout(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "grace@example.com", "grace")
	device := testDevice("a")
	ctx := context.Background()

	_, pair, err := ts.auth.Login(ctx, "grace", testPassword, device)
	require.NoError(t, err)

	require.NoError(t, ts.sessions.Logout(ctx, user.ID, device.ID))

	_, err = ts.auth.Refresh(ctx, pair.RefreshToken, device)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// Logging out again is a no-op, not an error.
	assert.NoError(t, ts.sessions.Logout(ctx, user.ID, device.ID))
}

func TestLogoutAll(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "heidi@example.com", "heidi")
	ctx := context.Background()

	_, _, err := ts.auth.Login(ctx, "heidi", testPassword, testDevice("a"))
	require.NoError(t, err)

	require.NoError(t, ts.sessions.LogoutAll(ctx, user.ID))

	sessions, err := ts.sessions.ListSessions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRevokedSessionRejectsRefresh(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "ivan@example.com", "ivan")
	device := testDevice("a")
	ctx := context.Background()

	_, pair, err := ts.auth.Login(ctx, "ivan", testPassword, device)
	require.NoError(t, err)

	// Revoke everything except a device that holds no session.
	require.NoError(t, ts.sessions.RevokeOtherSessions(ctx, user.ID, "some-other-device"))

	_, err = ts.auth.Refresh(ctx, pair.RefreshToken, device)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestConcurrentLoginsLeaveOneSession(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "judy@example.com", "judy")
	ctx := context.Background()

	const devices = 4
	var wg sync.WaitGroup
	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _, err := ts.auth.Login(ctx, "judy", testPassword, testDevice(string(rune('a'+n))))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// However the logins interleave, exactly one session survives.
	sessions, err := ts.sessions.ListSessions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestUpdateProfile(t *testing.T) {
	ts := newTestServices(t)
	user := seedVerifiedUser(t, ts, "kate@example.com", "kate")
	ctx := context.Background()

	updated, err := ts.users.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		FullName: "Kate Updated",
		Phone:    "+201001234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kate Updated", updated.FullName)
	assert.Equal(t, "+201001234567", updated.Phone)
	// Untouched fields survive.
	assert.Equal(t, "kate@example.com", updated.Email)

	_, err = ts.users.UpdateProfile(ctx, "no-such-user", UpdateProfileInput{FullName: "X"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
