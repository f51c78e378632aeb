package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := uint(1)
		if r.URL.Query().Get("user") == "2" {
			uid = 2
		}
		_ = Upgrade(w, r, hub, uid)
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesOnlyThatUser(t *testing.T) {
	hub, srv := startHub(t)
	mine := dial(t, srv, "user=1")
	theirs := dial(t, srv, "user=2")

	require.Eventually(t, func() bool {
		return hub.ClientCount(1) == 1 && hub.ClientCount(2) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(1, []byte(`{"event":"build.item_added"}`))

	mine.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := mine.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"build.item_added"}`, string(msg))

	theirs.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = theirs.ReadMessage()
	assert.Error(t, err)
}

func TestClosedConnectionIsUnregistered(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "user=1")

	require.Eventually(t, func() bool { return hub.ClientCount(1) == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount(1) == 0 }, time.Second, 10*time.Millisecond)
}

func TestPublishWithoutClientsIsNoop(t *testing.T) {
	hub, _ := startHub(t)
	assert.NotPanics(t, func() { hub.Publish(42, []byte("x")) })
	assert.Zero(t, hub.ClientCount(42))
}
