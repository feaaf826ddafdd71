package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
	"github.com/dennisdiepolder/calldash/internal/config"
	"github.com/dennisdiepolder/calldash/internal/retell"
)

type fakeLoader struct {
	loads atomic.Int32
	err   error
}

func (f *fakeLoader) Load(context.Context) (callmetrics.Snapshot, error) {
	n := f.loads.Add(1)
	if f.err != nil {
		return callmetrics.Snapshot{}, f.err
	}
	return callmetrics.Snapshot{
		GeneratedAt: time.Date(2025, time.June, 18, 0, 0, 0, 0, time.UTC),
		Metrics:     callmetrics.Metrics{TotalCallsAllTime: int(n)},
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AllowedOrigins: []string{"http://localhost:3000"},
		PongWait:       time.Second,
		PingPeriod:     900 * time.Millisecond,
		WriteWait:      time.Second,
		MaxMessageSize: 512,
	}
}

func startServer(t *testing.T, loader SnapshotLoader) (*Handler, string) {
	t.Helper()
	hub := startHub(t, nil)
	handler := NewHandler(hub, loader, testConfig(), zerolog.New(&bytes.Buffer{}))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return handler, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func TestHandlerSendsSnapshotOnConnect(t *testing.T) {
	_, url := startServer(t, &fakeLoader{})

	conn := dial(t, url)
	msg := readMessage(t, conn)

	if msg.Type != MessageTypeSnapshot {
		t.Fatalf("expected snapshot message, got %s", msg.Type)
	}
	if msg.Snapshot == nil || msg.Snapshot.Metrics.TotalCallsAllTime != 1 {
		t.Errorf("unexpected snapshot %+v", msg.Snapshot)
	}
}

func TestHandlerRefreshBroadcastsToAllClients(t *testing.T) {
	loader := &fakeLoader{}
	_, url := startServer(t, loader)

	first := dial(t, url)
	readMessage(t, first)
	second := dial(t, url)
	readMessage(t, second)

	if err := first.WriteMessage(websocket.TextMessage, []byte("refresh")); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		if msg.Type != MessageTypeSnapshot || msg.Snapshot.Metrics.TotalCallsAllTime != 3 {
			t.Errorf("expected third load to be broadcast, got %+v", msg)
		}
	}
}

func TestHandlerRefreshFromHTTP(t *testing.T) {
	handler, url := startServer(t, &fakeLoader{})

	conn := dial(t, url)
	readMessage(t, conn)

	// let the hub register the client
	time.Sleep(20 * time.Millisecond)

	snapshot, err := handler.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if snapshot.Metrics.TotalCallsAllTime != 2 {
		t.Errorf("unexpected snapshot %+v", snapshot.Metrics)
	}

	msg := readMessage(t, conn)
	if msg.Snapshot == nil || msg.Snapshot.Metrics.TotalCallsAllTime != 2 {
		t.Errorf("expected pushed snapshot, got %+v", msg)
	}
}

func TestHandlerReportsUpstreamError(t *testing.T) {
	loader := &fakeLoader{err: &retell.UpstreamError{StatusCode: http.StatusUnauthorized, Message: "invalid api key"}}
	_, url := startServer(t, loader)

	conn := dial(t, url)
	msg := readMessage(t, conn)
	if msg.Type != MessageTypeError || msg.Error != "invalid api key" {
		t.Errorf("unexpected message %+v", msg)
	}

	conn.WriteMessage(websocket.TextMessage, []byte("refresh"))
	msg = readMessage(t, conn)
	if msg.Type != MessageTypeError || msg.Error != "invalid api key" {
		t.Errorf("unexpected refresh reply %+v", msg)
	}
}

func TestHandlerHidesTransportError(t *testing.T) {
	_, url := startServer(t, &fakeLoader{err: errors.New("dial tcp: refused")})

	msg := readMessage(t, dial(t, url))
	if msg.Error != "Internal error" {
		t.Errorf("expected internal error, got %q", msg.Error)
	}
}

func TestHandlerRejectsUnknownOrigin(t *testing.T) {
	_, url := startServer(t, &fakeLoader{})

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %v", resp)
	}
}
