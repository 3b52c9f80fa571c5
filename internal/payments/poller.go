// Package payments resolves the outcome of a checkout redirect by polling
// the backend's payment-status endpoint. There is no persistent queue: a
// missed confirmation just means the success page re-initiates polling.
package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/stayhaven/edge/internal/apierr"
	"github.com/stayhaven/edge/internal/gateway"
	"github.com/stayhaven/edge/pkg/logger"
)

// StatusClient answers whether an order has been paid.
type StatusClient interface {
	IsPaid(ctx context.Context, orderCode string) (bool, error)
}

// Client queries GET /payments/is-paid/:orderCode through the gateway.
type Client struct {
	GW *gateway.Gateway
}

func (c *Client) IsPaid(ctx context.Context, orderCode string) (bool, error) {
	var paid bool
	err := c.GW.Get(ctx, "/payments/is-paid/"+orderCode, &paid, nil)
	if err != nil {
		return false, err
	}
	return paid, nil
}

// Result of a polling run.
type Result string

const (
	ResultPaid     Result = "paid"
	ResultFailed   Result = "failed"
	ResultTimedOut Result = "timed_out"
	ResultCanceled Result = "canceled"
)

type Poller struct {
	client   StatusClient
	interval time.Duration
	maxWait  time.Duration
}

func NewPoller(client StatusClient, interval, maxWait time.Duration) *Poller {
	return &Poller{client: client, interval: interval, maxWait: maxWait}
}

// Wait polls at a fixed interval until the order is paid, the backend gives
// a definitive failure, the maximum wait elapses, or ctx is canceled.
// Cancellation stops further requests immediately; tie ctx to the owning
// page's lifetime.
func (p *Poller) Wait(ctx context.Context, bookingID, orderCode string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.maxWait)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		paid, err := p.client.IsPaid(ctx, orderCode)
		if err != nil {
			if status, ok := apierr.StatusOf(err); ok {
				// A definitive server answer ends the run.
				return ResultFailed, fmt.Errorf("payment status check rejected (%d): %w", status, err)
			}
			logger.DebugContext(ctx, "payment status check failed, will retry",
				"booking_id", bookingID, "error", err)
		} else if paid {
			return ResultPaid, nil
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return ResultTimedOut, ctx.Err()
			}
			return ResultCanceled, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Start runs Wait in the background and returns a cancellation handle. The
// owning page must invoke the handle on teardown so the loop stops issuing
// requests.
func (p *Poller) Start(ctx context.Context, bookingID, orderCode string, done func(Result, error)) (cancel func()) {
	ctx, cancel = context.WithCancel(ctx)
	go func() {
		res, err := p.Wait(ctx, bookingID, orderCode)
		if done != nil {
			done(res, err)
		}
	}()
	return cancel
}
