package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sou2aq/platform/internal/platform/domain"
	"github.com/sou2aq/platform/pkg/idx"
)

func TestHousekeepingCleanup(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	user := seedVerifiedUser(t, ts, "clean@example.com", "cleaner")

	// One dead session, one live.
	require.NoError(t, ts.store.Sessions().CreateSession(ctx, domain.Session{
		ID: idx.New().String(), UserID: user.ID, DeviceID: "dead", RefreshToken: "dead-token",
		CreatedAt: time.Now().Add(-8 * 24 * time.Hour), ExpiresAt: time.Now().Add(-24 * time.Hour),
	}))
	require.NoError(t, ts.store.Sessions().CreateSession(ctx, domain.Session{
		ID: idx.New().String(), UserID: user.ID, DeviceID: "live", RefreshToken: "live-token",
		CreatedAt: time.Now(), ExpiresAt: time.Now().Add(24 * time.Hour),
	}))

	// An expired verification code on a second account.
	stale := seedVerifiedUser(t, ts, "stale@example.com", "staler")
	require.NoError(t, ts.store.Users().SetOTP(ctx, stale.ID, "999999", time.Now().Add(-time.Minute)))

	hk := NewHousekeepingService(ts.store, slog.Default(), time.Hour)
	hk.Cleanup(ctx)

	sessions, err := ts.sessions.ListSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "live", sessions[0].DeviceID)

	got, err := ts.store.Users().GetUserByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EmailOTP)
}

func TestHousekeepingStartStop(t *testing.T) {
	ts := newTestServices(t)

	hk := NewHousekeepingService(ts.store, slog.Default(), time.Hour)
	hk.Start()
	hk.Stop() // must not hang or panic
}
