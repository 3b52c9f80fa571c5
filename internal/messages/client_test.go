package messages_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stayhaven/edge/internal/gateway"
	"github.com/stayhaven/edge/internal/messages"
)

func conversationBackend(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "m-1", "bookingId": "b-1", "body": "hello"}},
		})
	}))
}

func TestPollConversationDeliversUpdates(t *testing.T) {
	var hits int32
	srv := conversationBackend(t, &hits)
	defer srv.Close()

	client := &messages.Client{GW: gateway.New(srv.URL, nil)}

	updates := make(chan []messages.Message, 8)
	cancel := client.PollConversation(context.Background(), "b-1", 5*time.Millisecond, func(msgs []messages.Message) {
		select {
		case updates <- msgs:
		default:
		}
	})
	defer cancel()

	select {
	case msgs := <-updates:
		require.Len(t, msgs, 1)
		require.Equal(t, "m-1", msgs[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}
}

func TestPollConversationCancelStops(t *testing.T) {
	var hits int32
	srv := conversationBackend(t, &hits)
	defer srv.Close()

	client := &messages.Client{GW: gateway.New(srv.URL, nil)}

	cancel := client.PollConversation(context.Background(), "b-1", 5*time.Millisecond, nil)

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	// No further requests after teardown.
	calls := atomic.LoadInt32(&hits)
	require.Greater(t, calls, int32(0))
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, calls, atomic.LoadInt32(&hits))
}
