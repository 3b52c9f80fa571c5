package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stayhaven/edge/internal/session"
)

func ptr(s string) *string { return &s }

func TestSetSessionThenAuthenticated(t *testing.T) {
	creds := session.NewCredentials(session.NewMemoryStore())

	creds.SetSession("at1", "rt1", &session.Profile{
		ID:       "u1",
		FullName: "A",
		Role:     "user",
	})

	require.True(t, creds.IsAuthenticated())
	require.Equal(t, "at1", creds.GetAccessToken())
	require.Equal(t, "rt1", creds.GetRefreshToken())

	p := creds.GetProfile()
	require.NotNil(t, p)
	require.Equal(t, "u1", p.ID)
	require.Equal(t, "A", p.FullName)
	require.Nil(t, p.Avatar)
	require.Nil(t, p.Description)
}

func TestClearIsIdempotent(t *testing.T) {
	creds := session.NewCredentials(session.NewMemoryStore())
	creds.SetSession("at1", "rt1", &session.Profile{ID: "u1", Role: "user"})

	creds.Clear()
	creds.Clear()

	require.False(t, creds.IsAuthenticated())
	require.Empty(t, creds.GetAccessToken())
	require.Empty(t, creds.GetRefreshToken())
	require.Nil(t, creds.GetProfile())
}

func TestProfileRoundTripKeepsOptionalFields(t *testing.T) {
	creds := session.NewCredentials(session.NewMemoryStore())
	creds.SetSession("at", "rt", &session.Profile{
		ID:          "u2",
		FullName:    "B",
		Avatar:      ptr("https://cdn.example/a.png"),
		Description: ptr("likes quiet rooms"),
		Gender:      ptr("female"),
		Role:        "manager",
	})

	p := creds.GetProfile()
	require.NotNil(t, p)
	require.Equal(t, "https://cdn.example/a.png", *p.Avatar)
	require.Equal(t, "likes quiet rooms", *p.Description)
	require.Equal(t, "female", *p.Gender)
	require.Equal(t, "manager", p.Role)
}

func TestUnavailableStoreIsNoOp(t *testing.T) {
	creds := session.NewCredentials(nil)

	// Writes are swallowed, reads answer absent, nothing panics.
	creds.SetSession("at", "rt", &session.Profile{ID: "u1"})
	require.False(t, creds.IsAuthenticated())
	require.Empty(t, creds.GetAccessToken())
	require.Nil(t, creds.GetProfile())
	creds.Clear()
}

func TestIsAuthenticatedIsPresenceOnly(t *testing.T) {
	creds := session.NewCredentials(session.NewMemoryStore())

	// Not a JWT at all; presence is all that counts.
	creds.SetSession("garbage-token", "", nil)
	require.True(t, creds.IsAuthenticated())
}

func TestCacheScopeDistinguishesSessions(t *testing.T) {
	alice := session.NewCredentials(session.NewMemoryStore())
	alice.SetSession("at-alice", "rt", &session.Profile{ID: "u-alice", Role: "user"})
	bob := session.NewCredentials(session.NewMemoryStore())
	bob.SetSession("at-bob", "rt", &session.Profile{ID: "u-bob", Role: "user"})

	require.Equal(t, "u-alice", alice.CacheScope())
	require.NotEqual(t, alice.CacheScope(), bob.CacheScope())

	// Without a profile the scope falls back to a token digest; without a
	// session everything shares the anonymous scope.
	tokenOnly := session.NewCredentials(session.NewMemoryStore())
	tokenOnly.SetSession("at-only", "", nil)
	require.NotEmpty(t, tokenOnly.CacheScope())
	require.NotEqual(t, "anon", tokenOnly.CacheScope())

	require.Equal(t, "anon", session.NewCredentials(nil).CacheScope())
}

func TestFromContextWithoutSessionIsNoOp(t *testing.T) {
	creds := session.FromContext(context.Background())
	require.NotNil(t, creds)
	require.False(t, creds.IsAuthenticated())
	require.Equal(t, "anon", creds.CacheScope())
}
