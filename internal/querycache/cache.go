// Package querycache memoizes and schedules every read against the backend.
// It guarantees at most one in-flight request per key, serves stale entries
// while revalidating in the background, and applies a bounded retry policy
// so the UI never issues redundant or runaway requests.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/pkg/logger"
)

type Status string

const (
	StatusFresh Status = "fresh"
	StatusStale Status = "stale"
	StatusError Status = "error"
)

const defaultHorizon = 60 * time.Second

// Loader performs the actual backend call for a key.
type Loader func(ctx context.Context) (any, error)

// Notifier receives the one-time user-visible notification after a key
// exhausts its retries.
type Notifier func(key string, err error)

type entry struct {
	data       any
	fetchedAt  time.Time
	status     Status
	refreshing bool
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	horizon time.Duration
	policy  RetryPolicy
	notify  Notifier
	now     func() time.Time
}

type Option func(*Cache)

func WithHorizon(d time.Duration) Option {
	return func(c *Cache) { c.horizon = d }
}

func WithPolicy(p RetryPolicy) Option {
	return func(c *Cache) { c.policy = p }
}

func WithNotifier(n Notifier) Option {
	return func(c *Cache) { c.notify = n }
}

// WithClock overrides the time source, for staleness tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		horizon: defaultHorizon,
		policy:  DefaultPolicy{MaxAttempts: 3},
		now:     time.Now,
	}
	c.notify = func(key string, err error) {
		logger.Warn("query failed after retries", "key", key, "error", err)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide instance, lazily constructed once per
// execution context and never torn down.
func Default() *Cache {
	defaultOnce.Do(func() {
		defaultCache = New()
	})
	return defaultCache
}

// Fetch returns the cached value for key, deduplicating concurrent loads.
// A fresh entry is returned without calling loader. A stale entry is
// returned immediately while exactly one background refresh runs. A missing
// or errored entry blocks on a single shared load.
func (c *Cache) Fetch(ctx context.Context, key string, loader Loader) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.status != StatusError {
		if e.status == StatusFresh && c.now().Sub(e.fetchedAt) < c.horizon {
			data := e.data
			c.mu.Unlock()
			return data, nil
		}
		e.status = StatusStale
		data := e.data
		if !e.refreshing {
			e.refreshing = true
			go c.refresh(key, loader)
		}
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.load(ctx, key, loader)
	})
	return v, err
}

// Invalidate marks every entry whose key starts with keyPrefix as stale, so
// the next Fetch re-runs its loader.
func (c *Cache) Invalidate(keyPrefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if strings.HasPrefix(key, keyPrefix) && e.status == StatusFresh {
			e.status = StatusStale
		}
	}
}

// StatusOf reports the entry status for key, or "" when the key is unknown.
// An entry past the staleness horizon answers stale even before a Fetch
// notices it.
func (c *Cache) StatusOf(key string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if e.status == StatusFresh && c.now().Sub(e.fetchedAt) >= c.horizon {
			return StatusStale
		}
		return e.status
	}
	return ""
}

// refresh runs detached from the request that noticed staleness: the page
// that triggered it may navigate away, and an overwrite is harmless.
func (c *Cache) refresh(key string, loader Loader) {
	_, _, _ = c.group.Do(key, func() (any, error) {
		return c.load(context.Background(), key, loader)
	})
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.refreshing = false
	}
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, key string, loader Loader) (any, error) {
	var lastErr error
	for attempt := 1; ; attempt++ {
		data, err := loader(ctx)
		if err == nil {
			c.mu.Lock()
			c.entries[key] = &entry{data: data, fetchedAt: c.now(), status: StatusFresh}
			c.mu.Unlock()
			return data, nil
		}
		lastErr = err
		if !c.policy.ShouldRetry(attempt, err) {
			break
		}
		if d := c.policy.Delay(attempt); d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				lastErr = ctx.Err()
			}
			if ctx.Err() != nil {
				break
			}
		}
	}

	c.mu.Lock()
	c.entries[key] = &entry{fetchedAt: c.now(), status: StatusError}
	c.mu.Unlock()
	// A status-carrying answer is definitive and resolves at the caller;
	// only exhausted retries raise the user-visible notification.
	if _, definitive := apierr.StatusOf(lastErr); !definitive && c.notify != nil {
		c.notify(key, lastErr)
	}
	return nil, lastErr
}
