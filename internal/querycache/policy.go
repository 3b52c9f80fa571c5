package querycache

import (
	"time"

	"github.com/stayhaven/edge/internal/apierr"
)

// RetryPolicy decides whether a failed load attempt is worth repeating and
// how long to wait before doing so. attempt is 1-based and counts loader
// invocations that already happened.
type RetryPolicy interface {
	ShouldRetry(attempt int, err error) bool
	Delay(attempt int) time.Duration
}

// DefaultPolicy never retries an error that carries an HTTP status (a
// definitive server answer) and otherwise retries immediately up to
// MaxAttempts total invocations.
type DefaultPolicy struct {
	MaxAttempts int
}

func (p DefaultPolicy) ShouldRetry(attempt int, err error) bool {
	if _, ok := apierr.StatusOf(err); ok {
		return false
	}
	max := p.MaxAttempts
	if max <= 0 {
		max = 3
	}
	return attempt < max
}

func (p DefaultPolicy) Delay(int) time.Duration { return 0 }
