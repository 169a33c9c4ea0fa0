package connection

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Handle is a single logical subscriber connection.
type Handle struct {
	cfg    Config
	cb     Callbacks
	logger *slog.Logger

	mu            sync.Mutex
	state         State
	conn          *websocket.Conn
	lastMessageAt time.Time
	closed        bool        // explicit Close() was called
	reconnect     *time.Timer // pending reconnect, nil if none
	gen           uint64      // dial generation; stale goroutines exit
}

// Open creates a handle and starts the first connection attempt.
func Open(cfg Config, cb Callbacks, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handle{
		cfg:    cfg,
		cb:     cb,
		logger: logger,
		state:  StateClosed,
	}
	h.Connect()
	return h
}

// Connect starts a connection attempt. Calls while the handle is connecting
// or open are no-ops, as are calls after Close.
func (h *Handle) Connect() {
	h.mu.Lock()
	if h.closed || h.state == StateConnecting || h.state == StateOpen {
		h.mu.Unlock()
		return
	}
	h.state = StateConnecting
	h.gen++
	gen := h.gen
	h.mu.Unlock()

	go h.dial(gen)
}

// Close shuts the handle down: it cancels any pending reconnect, closes the
// socket, and prevents all future attempts. Idempotent.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.state = StateClosed
	if h.reconnect != nil {
		h.reconnect.Stop()
		h.reconnect = nil
	}
	conn := h.conn
	h.conn = nil
	h.mu.Unlock()

	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}
	return nil
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// LastMessageAt returns when the last frame (heartbeats included) arrived.
// The zero time means nothing has arrived yet.
func (h *Handle) LastMessageAt() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastMessageAt
}

// dial performs one connection attempt for the given generation.
func (h *Handle) dial(gen uint64) {
	header := http.Header{}
	header.Set("Accept", "application/json")
	if h.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+h.cfg.Token)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: h.cfg.DialTimeout,
	}

	conn, _, err := dialer.Dial(h.cfg.Endpoint, header)

	h.mu.Lock()
	if h.closed || gen != h.gen {
		h.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}
	if err != nil {
		h.state = StateError
		h.mu.Unlock()

		h.logger.Warn("dial failed", "endpoint", h.cfg.Endpoint, "error", err)
		if h.cb.OnError != nil {
			h.cb.OnError(err)
		}
		h.scheduleReconnect()
		return
	}

	h.conn = conn
	h.state = StateOpen
	h.lastMessageAt = time.Now()
	h.mu.Unlock()

	h.logger.Debug("websocket connected", "endpoint", h.cfg.Endpoint)
	if h.cb.OnOpen != nil {
		h.cb.OnOpen()
	}

	go h.readLoop(conn, gen)
	if h.cfg.HeartbeatTimeout > 0 {
		go h.staleLoop(conn, gen)
	}
}

// readLoop reads frames until the socket dies, then drives the reconnect
// path unless the close was explicit.
func (h *Handle) readLoop(conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			h.mu.Lock()
			explicit := h.closed || gen != h.gen
			if !explicit {
				h.state = StateError
				h.conn = nil
			}
			h.mu.Unlock()

			if explicit {
				return
			}

			h.logger.Warn("socket closed unexpectedly",
				"endpoint", h.cfg.Endpoint,
				"error", err,
			)
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if h.cb.OnClose != nil {
					h.cb.OnClose()
				}
			} else if h.cb.OnError != nil {
				h.cb.OnError(err)
			}

			h.scheduleReconnect()
			return
		}

		h.mu.Lock()
		h.lastMessageAt = receivedAt
		live := !h.closed && gen == h.gen
		h.mu.Unlock()
		if !live {
			return
		}

		msg, ok := decodeFrame(data, receivedAt)
		if !ok {
			h.logger.Warn("dropping unparseable frame", "endpoint", h.cfg.Endpoint)
			continue
		}

		// Heartbeats are liveness signals only; lastMessageAt is already
		// refreshed, nothing reaches the application layer.
		if msg.Type == "heartbeat" {
			continue
		}

		if h.cb.OnMessage != nil {
			h.cb.OnMessage(msg)
		}
	}
}

// staleLoop closes the socket when no traffic arrives within the heartbeat
// timeout; the read loop then takes the normal unexpected-close path.
func (h *Handle) staleLoop(conn *websocket.Conn, gen uint64) {
	interval := h.cfg.HeartbeatTimeout / 2
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.Lock()
		live := !h.closed && gen == h.gen
		last := h.lastMessageAt
		h.mu.Unlock()

		if !live {
			return
		}

		if time.Since(last) > h.cfg.HeartbeatTimeout {
			h.logger.Warn("socket stale, forcing close",
				"endpoint", h.cfg.Endpoint,
				"last_message", last,
			)
			if h.cb.OnError != nil {
				h.cb.OnError(ErrStaleSocket)
			}
			conn.Close()
			return
		}
	}
}

// scheduleReconnect arms the single reconnect timer. A pending timer or an
// explicit close makes this a no-op.
func (h *Handle) scheduleReconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.reconnect != nil {
		return
	}

	delay := h.cfg.ReconnectDelay
	h.reconnect = time.AfterFunc(delay, func() {
		h.mu.Lock()
		h.reconnect = nil
		h.mu.Unlock()
		h.Connect()
	})

	h.logger.Info("reconnect scheduled",
		"endpoint", h.cfg.Endpoint,
		"delay", delay,
	)
}

// decodeFrame extracts the typed envelope from a raw frame. Frames without
// a "type" discriminator (e.g. bare price snapshots) pass through whole.
func decodeFrame(data []byte, receivedAt time.Time) (Message, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Message{}, false
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Message{}, false
	}

	msg := Message{
		Type:       env.Type,
		Data:       env.Data,
		ReceivedAt: receivedAt,
	}
	if env.Type == "" {
		msg.Data = trimmed
	}
	return msg, true
}
