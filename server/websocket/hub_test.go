package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	return hub
}

func registerTestClient(t *testing.T, hub *Hub, userID int32, sessionID string) *Client {
	t.Helper()
	client := NewClient(hub, nil, userID, sessionID, nil)
	client.Register()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestSendToUser_FullBufferDropsMessageNotClient(t *testing.T) {
	hub := newTestHub(t)
	client := registerTestClient(t, hub, 7, "s1")

	// Nothing drains the send channel, so overflow it past capacity.
	for i := 0; i < sendBufferSize+5; i++ {
		hub.SendToUser(7, "alert", map[string]int{"n": i})
	}

	// The overflowing messages are dropped but the client stays
	// registered and its channel stays open for the read goroutine.
	require.Equal(t, 1, hub.ClientCount())
	require.NotPanics(t, func() {
		client.Reply("fatigue_update", nil)
	})
}

func TestReply_AfterShutdownDoesNotPanic(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	client := registerTestClient(t, hub, 7, "s1")

	hub.Shutdown()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	require.NotPanics(t, func() {
		client.Reply("fatigue_update", nil)
	})
}

func TestDetach_AfterShutdownReturns(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	client := registerTestClient(t, hub, 7, "s1")
	hub.Shutdown()

	detached := make(chan struct{})
	go func() {
		client.detach()
		close(detached)
	}()
	select {
	case <-detached:
	case <-time.After(time.Second):
		t.Fatal("detach blocked after hub shutdown")
	}
}

func TestSendToUser_TargetsOnlyThatUser(t *testing.T) {
	hub := newTestHub(t)
	client := registerTestClient(t, hub, 7, "s1")

	other := NewClient(hub, nil, 8, "s2", nil)
	other.Register()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	hub.SendToUser(7, "alert", nil)
	require.Len(t, client.send, 1)
	require.Empty(t, other.send)
}
