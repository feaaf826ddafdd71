package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func TestClientRefreshDoesNotBlockReads(t *testing.T) {
	hub := startHub(t, nil)
	release := make(chan struct{})
	started := make(chan struct{}, 4)
	var refreshes atomic.Int32

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(r.Context(), hub, conn, testConfig(), zerolog.Nop(), func(context.Context, *Client) {
			refreshes.Add(1)
			started <- struct{}{}
			<-release
		})
		if !hub.Register(client) {
			conn.Close()
			return
		}
		client.Start()
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http"))

	if err := conn.WriteMessage(websocket.TextMessage, []byte(RefreshCommand)); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("refresh did not start")
	}

	// a second command while the first is still running is ignored
	if err := conn.WriteMessage(websocket.TextMessage, []byte(RefreshCommand)); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.Close()

	// the read pump notices the close even though the refresh is still blocked
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not unregistered while a refresh was running")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if n := refreshes.Load(); n != 1 {
		t.Errorf("expected 1 refresh in flight, got %d", n)
	}
}
