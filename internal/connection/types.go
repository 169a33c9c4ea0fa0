package connection

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrAlreadyClosed = errors.New("handle already closed")
	ErrStaleSocket   = errors.New("socket stale (no traffic within heartbeat timeout)")
)

// State is the lifecycle state of a Handle.
type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
	StateError      State = "error"
)

// Message is one inbound application frame. Data holds the payload exactly
// as received; typed decoding happens in the feed layer via the shared wire
// structs (internal/api), so field-name translation lives in one place.
type Message struct {
	Type       string          // discriminator, empty for bare snapshots
	Data       json.RawMessage // payload ("data" field when enveloped, else whole frame)
	ReceivedAt time.Time
}

// envelope is the generic wire framing used by the event feeds.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Callbacks are invoked from the handle's read goroutine, one at a time and
// in arrival order. Nil callbacks are skipped.
type Callbacks struct {
	OnMessage func(Message)
	OnOpen    func()
	OnClose   func()      // unexpected close (never after explicit Close)
	OnError   func(error) // transport error; reconnect is already scheduled
}

// Config configures a Handle.
type Config struct {
	Endpoint       string        // WebSocket URL
	Token          string        // bearer session token (empty = anonymous feed)
	ReconnectDelay time.Duration // fixed delay before the single reconnect attempt
	DialTimeout    time.Duration
	WriteTimeout   time.Duration

	// HeartbeatTimeout bounds silence on the socket; a handle with no
	// traffic for this long is treated as unexpectedly closed. 0 disables
	// the watchdog.
	HeartbeatTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay:   3 * time.Second,
		DialTimeout:      10 * time.Second,
		WriteTimeout:     5 * time.Second,
		HeartbeatTimeout: 60 * time.Second,
	}
}
