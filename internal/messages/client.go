// Package messages is the thin client for the backend message endpoints.
// The conversation poll is a bounded placeholder, not a durable event
// system: it re-fetches on an interval for as long as the owning view
// lives.
package messages

import (
	"context"
	"time"

	"github.com/stayhaven/edge/internal/gateway"
	"github.com/stayhaven/edge/pkg/logger"
)

type Message struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId"`
	SenderID  string    `json:"senderId"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type Conversation struct {
	BookingID   string   `json:"bookingId"`
	LastMessage *Message `json:"lastMessage,omitempty"`
	UnreadCount int      `json:"unreadCount"`
}

type SendRequest struct {
	BookingID string `json:"bookingId"`
	Body      string `json:"body"`
}

type Client struct {
	GW *gateway.Gateway
}

var private = &gateway.Options{PrivateRoute: true}

func (c *Client) Send(ctx context.Context, req SendRequest) (*Message, error) {
	var m Message
	if err := c.GW.Post(ctx, "/messages", req, &m, private); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) List(ctx context.Context) ([]Message, error) {
	var out []Message
	if _, err := c.GW.GetList(ctx, "/messages", &out, private); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if _, err := c.GW.GetList(ctx, "/messages/conversations", &out, private); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Conversation(ctx context.Context, bookingID string) ([]Message, error) {
	var out []Message
	if _, err := c.GW.GetList(ctx, "/messages/conversations/"+bookingID, &out, private); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.GW.Patch(ctx, "/messages/"+id+"/read", nil, nil, private)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.GW.Delete(ctx, "/messages/"+id, nil, private)
}

// PollConversation re-fetches a conversation on a fixed interval until the
// returned handle is invoked or ctx ends. Fetch failures are logged and
// retried on the next tick.
func (c *Client) PollConversation(ctx context.Context, bookingID string, interval time.Duration, onUpdate func([]Message)) (cancel func()) {
	ctx, cancel = context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			msgs, err := c.Conversation(ctx, bookingID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.DebugContext(ctx, "conversation poll failed", "booking_id", bookingID, "error", err)
			} else if onUpdate != nil {
				onUpdate(msgs)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return cancel
}
