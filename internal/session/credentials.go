// Package session owns the authenticated session and its two replicas: the
// client-local store used for direct API calls, and the HTTP-only cookie set
// read by server-side route guards. The replicas are never updated
// atomically; Sync is the explicit reconciliation step.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyProfile      = "user"
)

// Profile is the denormalized projection of the authenticated user kept next
// to the token pair for rendering without a round trip. It is only as fresh
// as the last explicit re-sync.
type Profile struct {
	ID          string  `json:"id"`
	FullName    string  `json:"fullName"`
	Avatar      *string `json:"avatar"`
	Description *string `json:"description"`
	Gender      *string `json:"gender"`
	Role        string  `json:"role"`
}

// Credentials is the client-local replica of the session. All accessors are
// non-throwing: a broken or unavailable medium reads as "no session".
type Credentials struct {
	store Store
}

// NewCredentials builds the store over the given medium. A nil medium means
// the current execution context has no client-local storage (server-side
// rendering); every operation becomes a no-op.
func NewCredentials(store Store) *Credentials {
	if store == nil {
		store = unavailableStore{}
	}
	return &Credentials{store: store}
}

// SetSession persists the token pair and profile projection. Best effort:
// storage failures are swallowed.
func (c *Credentials) SetSession(access, refresh string, profile *Profile) {
	_ = c.store.Set(keyAccessToken, access)
	_ = c.store.Set(keyRefreshToken, refresh)
	if profile != nil {
		if raw, err := json.Marshal(profile); err == nil {
			_ = c.store.Set(keyProfile, string(raw))
		}
	}
}

func (c *Credentials) GetAccessToken() string {
	v, _ := c.store.Get(keyAccessToken)
	return v
}

func (c *Credentials) GetRefreshToken() string {
	v, _ := c.store.Get(keyRefreshToken)
	return v
}

// GetProfile returns the cached projection, or nil when absent or corrupt.
func (c *Credentials) GetProfile() *Profile {
	raw, ok := c.store.Get(keyProfile)
	if !ok {
		return nil
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return &p
}

// Clear removes all three entries. Idempotent.
func (c *Credentials) Clear() {
	c.store.Delete(keyAccessToken)
	c.store.Delete(keyRefreshToken)
	c.store.Delete(keyProfile)
}

// IsAuthenticated is a presence check, not a validity check. An expired but
// present token still answers true until a request fails with 401.
func (c *Credentials) IsAuthenticated() bool {
	return c.GetAccessToken() != ""
}

// CacheScope identifies the session for cache keying: the profile ID when
// one is cached, otherwise a short digest of the access token. Anonymous
// sessions share the "anon" scope.
func (c *Credentials) CacheScope() string {
	if p := c.GetProfile(); p != nil && p.ID != "" {
		return p.ID
	}
	token := c.GetAccessToken()
	if token == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
