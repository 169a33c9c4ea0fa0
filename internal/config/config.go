package config

import "time"

// Config is the root configuration for the desk core.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Feeds  FeedsConfig  `yaml:"feeds"`
	Poller PollerConfig `yaml:"poller"`
	Orders OrdersConfig `yaml:"orders"`
}

// APIConfig holds platform REST settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Token      string        `yaml:"token"` // bearer session token
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RateLimit  float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
}

// FeedsConfig holds WebSocket endpoints and per-subscriber reconnect delays.
// Delays are fixed (not backed off): the polling fallback covers extended
// outages, so a single retry per close is enough.
type FeedsConfig struct {
	PriceWSURL      string `yaml:"price_ws_url"`
	BackofficeWSURL string `yaml:"backoffice_ws_url"`
	ClientWSURL     string `yaml:"client_ws_url"`

	PriceReconnectDelay      time.Duration `yaml:"price_reconnect_delay"`
	BackofficeReconnectDelay time.Duration `yaml:"backoffice_reconnect_delay"`
	ClientReconnectDelay     time.Duration `yaml:"client_reconnect_delay"`

	HeartbeatTimeout time.Duration `yaml:"heartbeat_timeout"` // 0 disables staleness checks
}

// PollerConfig holds refresh cadences for the polling fallback.
type PollerConfig struct {
	PricesInterval      time.Duration `yaml:"prices_interval"`
	BalancesInterval    time.Duration `yaml:"balances_interval"`
	SettlementsInterval time.Duration `yaml:"settlements_interval"`
	Timeout             time.Duration `yaml:"timeout"` // per-tick fetch timeout
}

// OrdersConfig holds order-validation settings.
type OrdersConfig struct {
	// DefaultFeeRate is applied when the effective-fee lookup fails.
	// Parsed as a decimal string so the rate is exact.
	DefaultFeeRate string `yaml:"default_fee_rate"`
}
