package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/stayhaven/edge/pkg/logger"
)

// Publisher emits booking-lifecycle events for downstream consumers
// (analytics, abandoned-draft follow-ups). The edge only publishes; it is
// not a durable event system.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// Lifecycle subjects.
const (
	BookingDrafted   = "booking.drafted"
	BookingRedeemed  = "booking.redeemed"
	BookingDiscarded = "booking.discarded"
	SessionCreated   = "session.created"
	SessionCleared   = "session.cleared"
	PaymentConfirmed = "payment.confirmed"
)

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "publishing event", "subject", subject)

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher drops events. Used when no broker is configured and in
// tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }
