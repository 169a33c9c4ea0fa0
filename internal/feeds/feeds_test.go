package feeds

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/carbonport/deskcore/internal/api"
	"github.com/carbonport/deskcore/internal/connection"
	"github.com/carbonport/deskcore/internal/signal"
	"github.com/carbonport/deskcore/internal/store"
)

var upgrader = websocket.Upgrader{}

// mockWSServer upgrades connections and writes every frame from the frames
// channel, holding the socket open until the test ends.
func mockWSServer(t *testing.T, frames <-chan string) string {
	t.Helper()
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			select {
			case f, ok := <-frames:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(done) })
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

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

// quietConfig keeps the reconnect and poll machinery out of the way for
// tests that drive the feed directly.
func quietConfig(endpoint string) Config {
	return Config{
		Endpoint:       endpoint,
		ReconnectDelay: time.Hour,
		PollInterval:   time.Hour,
		PollTimeout:    5 * time.Second,
	}
}

func TestPriceFeed_SocketFrameUpdatesStore(t *testing.T) {
	frames := make(chan string, 1)
	wsURL := mockWSServer(t, frames)

	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"cea_price_eur":"0","eua_price_eur":"0","swap_ratio":"0"}`)
	}))
	t.Cleanup(rest.Close)

	st := store.New()
	feed := NewPriceFeed(quietConfig(wsURL), api.NewClient(rest.URL, ""), st, nil)
	feed.Start(context.Background())
	defer feed.Stop()

	frames <- `{"cea_price_eur":"55.10","eua_price_eur":"72.30","swap_ratio":"1.31","updated_at":"2026-08-26T10:00:00Z"}`

	if !waitFor(t, 2*time.Second, func() bool {
		p, ok := st.Prices()
		return ok && p.CEAPriceEUR.Equal(decimal.RequireFromString("55.10"))
	}) {
		p, ok := st.Prices()
		t.Fatalf("prices never landed from socket frame: %+v ok=%v", p, ok)
	}
}

func TestPriceFeed_PollFallback(t *testing.T) {
	// No WebSocket endpoint answers here; the poll path must still fill the
	// store.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no upgrade", http.StatusBadRequest)
	}))
	t.Cleanup(dead.Close)

	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"cea_price_eur":"54.80","eua_price_eur":"71.90","swap_ratio":"1.31","updated_at":"2026-08-26T10:00:00Z"}`)
	}))
	t.Cleanup(rest.Close)

	cfg := quietConfig("ws" + strings.TrimPrefix(dead.URL, "http"))
	cfg.PollInterval = 20 * time.Millisecond

	st := store.New()
	feed := NewPriceFeed(cfg, api.NewClient(rest.URL, ""), st, nil)
	feed.Start(context.Background())
	defer feed.Stop()

	if !waitFor(t, 2*time.Second, func() bool {
		p, ok := st.Prices()
		return ok && p.CEAPriceEUR.Equal(decimal.RequireFromString("54.80"))
	}) {
		t.Fatal("poll fallback never filled the store")
	}
}

func TestPriceFeed_NoWritesAfterStop(t *testing.T) {
	frames := make(chan string)
	wsURL := mockWSServer(t, frames)

	st := store.New()
	feed := NewPriceFeed(quietConfig(wsURL), api.NewClient("http://unreachable.invalid", ""), st, nil)
	feed.Start(context.Background())
	feed.Stop()

	// A frame delivered after teardown must be dropped, not stored.
	feed.handleMessage(connection.Message{
		Data:       json.RawMessage(`{"cea_price_eur":"99","eua_price_eur":"99","swap_ratio":"1"}`),
		ReceivedAt: time.Now(),
	})

	if _, ok := st.Prices(); ok {
		t.Error("price write landed after Stop")
	}
}

func TestBackofficeFeed_EventRouting(t *testing.T) {
	frames := make(chan string)
	wsURL := mockWSServer(t, frames)

	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"deposits":[]}`)
	}))
	t.Cleanup(rest.Close)

	st := store.New()
	feed := NewBackofficeFeed(quietConfig(wsURL), api.NewClient(rest.URL, ""), st, nil)
	feed.Start(context.Background())
	defer feed.Stop()

	msg := func(typ, data string) connection.Message {
		return connection.Message{Type: typ, Data: json.RawMessage(data), ReceivedAt: time.Now()}
	}

	feed.handleMessage(msg(eventNewRequest, `{"id":"r-1","company_name":"Acme","status":"NEW"}`))
	feed.handleMessage(msg(eventRequestUpdated, `{"id":"r-1","company_name":"Acme","status":"IN_REVIEW"}`))
	feed.handleMessage(msg(eventKYCDocumentUploaded, `{"id":"k-1","request_id":"r-1","status":"UPLOADED"}`))
	feed.handleMessage(msg(eventKYCDocumentDeleted, `{"id":"k-1"}`))
	feed.handleMessage(msg("totally_unknown", `{}`)) // ignored, not fatal
	feed.handleMessage(msg(eventNewRequest, `not json`))

	reqs := st.Requests()
	if len(reqs) != 1 || reqs[0].Status != "IN_REVIEW" {
		t.Errorf("requests = %+v, want one upserted to IN_REVIEW", reqs)
	}
	if docs := st.KYCDocuments(); len(docs) != 0 {
		t.Errorf("documents = %+v, want upload then delete to cancel out", docs)
	}
}

func TestBackofficeFeed_PollListsDeposits(t *testing.T) {
	frames := make(chan string)
	wsURL := mockWSServer(t, frames)

	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/deposits" {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{"deposits":[{"id":"d-1","client_id":"c-1","amount":"5000","currency":"EUR","status":"PENDING_REVIEW"}]}`)
	}))
	t.Cleanup(rest.Close)

	st := store.New()
	feed := NewBackofficeFeed(quietConfig(wsURL), api.NewClient(rest.URL, ""), st, nil)
	feed.Start(context.Background())
	defer feed.Stop()

	if !waitFor(t, 2*time.Second, func() bool {
		return len(st.Deposits()) == 1
	}) {
		t.Fatal("deposit poll never filled the store")
	}
}

func TestClientFeed_RoleUpdatedRefetchesProfile(t *testing.T) {
	frames := make(chan string)
	wsURL := mockWSServer(t, frames)

	var fetches atomic.Int32
	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		io.WriteString(w, `{"profile":{"id":"u-1","email":"desk@example.com","role":"backoffice"}}`)
	}))
	t.Cleanup(rest.Close)

	st := store.New()
	feed := NewClientFeed(quietConfig(wsURL), api.NewClient(rest.URL, ""), st, nil)
	feed.Start(context.Background())
	defer feed.Stop()

	// Wait out the immediate poll, then trigger the event.
	waitFor(t, 2*time.Second, func() bool { return fetches.Load() >= 1 })

	feed.handleMessage(connection.Message{Type: eventRoleUpdated, ReceivedAt: time.Now()})

	if !waitFor(t, 2*time.Second, func() bool { return fetches.Load() >= 2 }) {
		t.Fatal("role_updated never triggered a profile re-fetch")
	}
	profile, ok := st.Profile()
	if !ok || profile.Role != "backoffice" {
		t.Errorf("profile = %+v ok=%v", profile, ok)
	}
}

func TestDashboard_RefreshOnSignal(t *testing.T) {
	var balanceFetches atomic.Int32
	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/account/balances":
			balanceFetches.Add(1)
			io.WriteString(w, `{"balances":{"eur":{"total":"1000","available":"900"}}}`)
		case "/settlements":
			io.WriteString(w, `{"settlements":[{"id":"b-1","status":"PENDING"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(rest.Close)

	st := store.New()
	bus := signal.NewBus()
	dash := NewDashboard(DashboardConfig{
		BalancesInterval:    time.Hour,
		SettlementsInterval: time.Hour,
		Timeout:             5 * time.Second,
	}, api.NewClient(rest.URL, ""), st, bus, nil)

	dash.Start(context.Background())
	defer dash.Stop()

	// Immediate first refresh fills both snapshots.
	if !waitFor(t, 2*time.Second, func() bool {
		_, ok := st.Balances()
		return ok && len(st.Settlements()) == 1
	}) {
		t.Fatal("initial dashboard refresh never completed")
	}
	initial := balanceFetches.Load()

	// A reconciliation signal forces an immediate re-fetch even though the
	// next scheduled tick is an hour away.
	bus.Publish(signal.CauseOrderExecuted, "orders")

	if !waitFor(t, 2*time.Second, func() bool {
		return balanceFetches.Load() > initial
	}) {
		t.Fatal("signal never triggered a balance re-fetch")
	}
}
