package connection

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, upgrades *atomic.Int32, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		if upgrades != nil {
			upgrades.Add(1)
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func holdOpen(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func testConfig(server *httptest.Server) Config {
	return Config{
		Endpoint:       wsURL(server),
		ReconnectDelay: 200 * time.Millisecond,
		DialTimeout:    5 * time.Second,
		WriteTimeout:   time.Second,
		// watchdog off: tests control closes explicitly
	}
}

func TestHandle_OpenAndClose(t *testing.T) {
	server := mockWSServer(t, nil, holdOpen)
	defer server.Close()

	h := Open(testConfig(server), Callbacks{}, nil)

	if !waitFor(t, 2*time.Second, func() bool { return h.State() == StateOpen }) {
		t.Fatalf("state = %v, want open", h.State())
	}

	if err := h.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if got := h.State(); got != StateClosed {
		t.Errorf("state after Close = %v, want closed", got)
	}

	// Idempotent
	if err := h.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Connect after Close is a no-op
	h.Connect()
	time.Sleep(50 * time.Millisecond)
	if got := h.State(); got != StateClosed {
		t.Errorf("state after Connect-on-closed = %v, want closed", got)
	}
}

func TestHandle_ReentrantConnect(t *testing.T) {
	var upgrades atomic.Int32
	server := mockWSServer(t, &upgrades, holdOpen)
	defer server.Close()

	h := Open(testConfig(server), Callbacks{}, nil)
	defer h.Close()

	if !waitFor(t, 2*time.Second, func() bool { return h.State() == StateOpen }) {
		t.Fatalf("never reached open")
	}

	// Rapid re-entrant calls while open must not dial again.
	for i := 0; i < 10; i++ {
		h.Connect()
	}
	time.Sleep(100 * time.Millisecond)

	if got := upgrades.Load(); got != 1 {
		t.Errorf("upgrades = %d, want 1 (at most one live socket)", got)
	}
}

func TestHandle_ReconnectAfterUnexpectedClose(t *testing.T) {
	var upgrades atomic.Int32
	server := mockWSServer(t, &upgrades, func(conn *websocket.Conn) {
		// First connection dies immediately; later ones stay up.
		if upgrades.Load() == 1 {
			return // handler return closes the socket
		}
		holdOpen(conn)
	})
	defer server.Close()

	start := time.Now()
	h := Open(testConfig(server), Callbacks{}, nil)
	defer h.Close()

	if !waitFor(t, 2*time.Second, func() bool { return upgrades.Load() >= 1 }) {
		t.Fatalf("never connected")
	}

	// The reconnect must not fire before the fixed delay elapses.
	if waitFor(t, 120*time.Millisecond, func() bool { return upgrades.Load() >= 2 }) {
		t.Fatalf("reconnected after %v, want >= 200ms", time.Since(start))
	}

	// Exactly one reconnect attempt at/after the delay.
	if !waitFor(t, 2*time.Second, func() bool { return upgrades.Load() == 2 }) {
		t.Fatalf("upgrades = %d, want 2", upgrades.Load())
	}
	if !waitFor(t, 2*time.Second, func() bool { return h.State() == StateOpen }) {
		t.Fatalf("state = %v, want open after reconnect", h.State())
	}

	time.Sleep(300 * time.Millisecond)
	if got := upgrades.Load(); got != 2 {
		t.Errorf("upgrades = %d, want 2 (single reconnect per close)", got)
	}
}

func TestHandle_CloseCancelsPendingReconnect(t *testing.T) {
	var upgrades atomic.Int32
	server := mockWSServer(t, &upgrades, func(conn *websocket.Conn) {
		// Every connection dies immediately.
	})
	defer server.Close()

	h := Open(testConfig(server), Callbacks{}, nil)

	if !waitFor(t, 2*time.Second, func() bool { return upgrades.Load() == 1 }) {
		t.Fatalf("never connected")
	}

	// Close while the reconnect timer is pending.
	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if got := upgrades.Load(); got != 1 {
		t.Errorf("upgrades = %d, want 1 (close must cancel the pending reconnect)", got)
	}
}

func TestHandle_HeartbeatIsLivenessOnly(t *testing.T) {
	frames := make(chan string, 4)
	server := mockWSServer(t, nil, func(conn *websocket.Conn) {
		for f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		holdOpen(conn)
	})
	defer server.Close()

	var mu sync.Mutex
	var received []Message
	h := Open(testConfig(server), Callbacks{
		OnMessage: func(msg Message) {
			mu.Lock()
			received = append(received, msg)
			mu.Unlock()
		},
	}, nil)
	defer h.Close()

	if !waitFor(t, 2*time.Second, func() bool { return h.State() == StateOpen }) {
		t.Fatalf("never reached open")
	}
	connectedAt := h.LastMessageAt()

	frames <- `{"type":"heartbeat"}`
	if !waitFor(t, 2*time.Second, func() bool { return h.LastMessageAt().After(connectedAt) }) {
		t.Fatalf("heartbeat did not refresh lastMessageAt")
	}

	frames <- `{"type":"request_updated","data":{"id":"r-1"}}`
	if !waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}) {
		t.Fatalf("typed frame never dispatched")
	}

	mu.Lock()
	defer mu.Unlock()
	if received[0].Type != "request_updated" {
		t.Errorf("dispatched type = %q, want request_updated", received[0].Type)
	}
	for _, msg := range received {
		if msg.Type == "heartbeat" {
			t.Error("heartbeat frame reached the application layer")
		}
	}
}

func TestHandle_BareSnapshotFrames(t *testing.T) {
	server := mockWSServer(t, nil, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"cea_price_eur":"61.25"}`))
		holdOpen(conn)
	})
	defer server.Close()

	var mu sync.Mutex
	var got Message
	var count int
	h := Open(testConfig(server), Callbacks{
		OnMessage: func(msg Message) {
			mu.Lock()
			got = msg
			count++
			mu.Unlock()
		},
	}, nil)
	defer h.Close()

	if !waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}) {
		t.Fatalf("snapshot frame never dispatched")
	}

	mu.Lock()
	defer mu.Unlock()
	if got.Type != "" {
		t.Errorf("bare snapshot type = %q, want empty", got.Type)
	}
	if !strings.Contains(string(got.Data), "cea_price_eur") {
		t.Errorf("bare snapshot payload lost: %s", got.Data)
	}
}

func TestHandle_TransportErrorSetsErrorState(t *testing.T) {
	var errCount atomic.Int32
	server := mockWSServer(t, nil, func(conn *websocket.Conn) {})
	defer server.Close()

	h := Open(Config{
		Endpoint:       wsURL(server),
		ReconnectDelay: 10 * time.Second, // long enough to observe the error state
		DialTimeout:    5 * time.Second,
		WriteTimeout:   time.Second,
	}, Callbacks{
		OnError: func(error) { errCount.Add(1) },
		OnClose: func() { errCount.Add(1) },
	}, nil)
	defer h.Close()

	if !waitFor(t, 2*time.Second, func() bool { return h.State() == StateError }) {
		t.Fatalf("state = %v, want error after server hangup", h.State())
	}
	if errCount.Load() == 0 {
		t.Error("no close/error callback fired")
	}
}
