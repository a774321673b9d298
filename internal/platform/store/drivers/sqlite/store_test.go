package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/internal/platform/store"
	"github.com/sou2aq/platform/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store, email, userName string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		FullName:     "Test User",
		UserName:     userName,
		Email:        email,
		PasswordHash: "$argon2id$fake",
		Role:         domain.RoleUser,
		DoB:          "1990-01-01",
		IsActive:     domain.ActiveNo,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "alice@example.com", "alice")

	got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.ActiveNo, got.IsActive)
	assert.Nil(t, got.EmailVerifiedAt)

	got, err = s.Users().GetUserByUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "bob@example.com", "bob")

	dup := u
	dup.ID = idx.New().String()
	dup.UserName = "bob2" // same email
	assert.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	dup.Email = "bob2@example.com"
	dup.UserName = "bob" // same username
	assert.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	exists, err := s.Users().ExistsByEmailOrUserName(ctx, "bob@example.com", "unused")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMarkEmailVerified(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "carol@example.com", "carol")
	require.NoError(t, s.Users().SetOTP(ctx, u.ID, "123456", time.Now().Add(90*time.Second)))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EmailOTP)
	assert.Equal(t, "123456", *got.EmailOTP)

	require.NoError(t, s.Users().MarkEmailVerified(ctx, u.Email))

	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActiveYes, got.IsActive)
	assert.NotNil(t, got.EmailVerifiedAt)
	assert.Nil(t, got.EmailOTP)
	assert.Nil(t, got.EmailOTPExpiresAt)
	assert.True(t, got.CanLogin())
}

func TestClearExpiredOTPs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expired := seedUser(t, s, "d1@example.com", "d1")
	fresh := seedUser(t, s, "d2@example.com", "d2")

	require.NoError(t, s.Users().SetOTP(ctx, expired.ID, "111111", time.Now().Add(-time.Minute)))
	require.NoError(t, s.Users().SetOTP(ctx, fresh.ID, "222222", time.Now().Add(time.Minute)))

	require.NoError(t, s.Users().ClearExpiredOTPs(ctx))

	got, err := s.Users().GetUserByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EmailOTP)

	got, err = s.Users().GetUserByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EmailOTP)
	assert.Equal(t, "222222", *got.EmailOTP)
}

func seedSession(t *testing.T, s *Store, userID, deviceID, token string, expiresAt time.Time) domain.Session {
	t.Helper()

	sess := domain.Session{
		ID:           idx.New().String(),
		UserID:       userID,
		DeviceID:     deviceID,
		RefreshToken: token,
		UserAgent:    "test-agent",
		IPAddress:    "127.0.0.1",
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    expiresAt,
	}
	require.NoError(t, s.Sessions().CreateSession(context.Background(), sess))
	return sess
}

func TestSessionExactTripleMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "eve@example.com", "eve")
	future := time.Now().Add(time.Hour)
	seedSession(t, s, u.ID, "device-a", "token-a", future)

	got, err := s.Sessions().GetSession(ctx, u.ID, "device-a", "token-a")
	require.NoError(t, err)
	assert.False(t, got.IsRevoked)

	// Any component of the triple off by one misses.
	_, err = s.Sessions().GetSession(ctx, u.ID, "device-b", "token-a")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Sessions().GetSession(ctx, u.ID, "device-a", "token-b")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteOtherUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "frank@example.com", "frank")
	other := seedUser(t, s, "grace@example.com", "grace")
	future := time.Now().Add(time.Hour)

	seedSession(t, s, u.ID, "device-a", "token-a", future)
	seedSession(t, s, u.ID, "device-b", "token-b", future)
	seedSession(t, s, other.ID, "device-c", "token-c", future)

	require.NoError(t, s.Sessions().DeleteOtherUserSessions(ctx, u.ID, "device-a"))

	_, err := s.Sessions().GetSession(ctx, u.ID, "device-a", "token-a")
	assert.NoError(t, err)
	_, err = s.Sessions().GetSession(ctx, u.ID, "device-b", "token-b")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Other users' sessions are untouched.
	_, err = s.Sessions().GetSession(ctx, other.ID, "device-c", "token-c")
	assert.NoError(t, err)
}

func TestListActiveUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "heidi@example.com", "heidi")
	seedSession(t, s, u.ID, "device-live", "token-live", time.Now().Add(time.Hour))
	seedSession(t, s, u.ID, "device-dead", "token-dead", time.Now().Add(-time.Hour))
	revoked := seedSession(t, s, u.ID, "device-revoked", "token-revoked", time.Now().Add(time.Hour))
	require.NoError(t, s.Sessions().RevokeOtherUserSessions(ctx, u.ID, "device-live"))

	// Revocation flips the flag but keeps the row.
	got, err := s.Sessions().GetSession(ctx, u.ID, revoked.DeviceID, revoked.RefreshToken)
	require.NoError(t, err)
	assert.True(t, got.IsRevoked)

	active, err := s.Sessions().ListActiveUserSessions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "device-live", active[0].DeviceID)
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "ivan@example.com", "ivan")
	seedSession(t, s, u.ID, "device-live", "token-live", time.Now().Add(time.Hour))
	seedSession(t, s, u.ID, "device-dead", "token-dead", time.Now().Add(-time.Hour))

	require.NoError(t, s.Sessions().DeleteExpiredSessions(ctx))

	_, err := s.Sessions().GetSession(ctx, u.ID, "device-dead", "token-dead")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Sessions().GetSession(ctx, u.ID, "device-live", "token-live")
	assert.NoError(t, err)
}

func seedSite(t *testing.T, s *Store, ownerID, subdomain string) domain.Site {
	t.Helper()

	now := time.Now().UTC()
	site := domain.Site{
		ID:         idx.New().String(),
		OwnerID:    ownerID,
		Name:       "Site " + subdomain,
		Subdomain:  subdomain,
		IsActive:   domain.ActiveYes,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	require.NoError(t, s.Sites().CreateSite(context.Background(), site))
	return site
}

func TestSiteSubdomainUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "judy@example.com", "judy")
	seedSite(t, s, u.ID, "blog")

	dup := domain.Site{
		ID:         idx.New().String(),
		OwnerID:    u.ID,
		Name:       "Other",
		Subdomain:  "blog",
		IsActive:   domain.ActiveYes,
		CreatedAt:  time.Now().UTC(),
		ModifiedAt: time.Now().UTC(),
	}
	assert.ErrorIs(t, s.Sites().CreateSite(ctx, dup), store.ErrAlreadyExists)

	got, err := s.Sites().GetSiteBySubdomain(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.OwnerID)
}

func TestDeleteSiteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "kevin@example.com", "kevin")
	site := seedSite(t, s, u.ID, "shop")

	now := time.Now().UTC()
	article := domain.Article{
		ID: idx.New().String(), SiteID: site.ID, Title: "Hello",
		CreatedAt: now, ModifiedAt: now,
	}
	require.NoError(t, s.Articles().CreateArticle(ctx, article))

	pin := domain.Map{
		ID: idx.New().String(), SiteID: site.ID, Title: "HQ",
		Latitude: 30.04, Longitude: 31.23,
		CreatedAt: now, ModifiedAt: now,
	}
	require.NoError(t, s.Maps().CreateMap(ctx, pin))

	require.NoError(t, s.Sites().DeleteSite(ctx, site.ID))

	_, err := s.Articles().GetArticleByID(ctx, article.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Maps().GetMapByID(ctx, pin.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "laura@example.com", "laura")

	wantErr := assert.AnError
	err := s.WithTx(ctx, func(tx store.Tx) error {
		seedErr := tx.Sessions().CreateSession(ctx, domain.Session{
			ID: idx.New().String(), UserID: u.ID, DeviceID: "d", RefreshToken: "t",
			CreatedAt: time.Now().UTC(), ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, seedErr)
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, err = s.Sessions().GetSession(ctx, u.ID, "d", "t")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
