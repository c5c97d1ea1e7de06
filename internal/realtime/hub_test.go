package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	h := NewHandler(hub, []string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, RoomEvents, UserRoom("u1"))
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Eventually(t, func() bool { return hub.Subscribers(RoomEvents) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(UserRoom("u2"), "ignored", nil)
	hub.Publish(RoomEvents, "event.updated", map[string]string{"id": "e1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string            `json:"type"`
		Room    string            `json:"room"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "event.updated", msg.Type)
	assert.Equal(t, RoomEvents, msg.Room)
	assert.Equal(t, "e1", msg.Payload["id"])
}

func TestDisconnectLeavesRooms(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	h := NewHandler(hub, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, RoomNews)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return hub.Subscribers(RoomNews) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers(RoomNews) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestOriginCheck(t *testing.T) {
	h := NewHandler(NewHub(), []string{"https://app.example.com/"})
	r := httptest.NewRequest(http.MethodGet, "/v1/ws", nil)

	r.Header.Set("Origin", "https://app.example.com")
	assert.True(t, h.upgrader.CheckOrigin(r))

	r.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, h.upgrader.CheckOrigin(r))
}
