package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout    = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRateLimit     = 10.0 // requests per second
	DefaultFeeRate       = "0.005"
	DefaultPollerTimeout = 10 * time.Second

	// Refresh cadences. Prices move fast enough to warrant a tight loop;
	// balances and settlements only change on explicit actions.
	DefaultPricesInterval      = 5 * time.Second
	DefaultBalancesInterval    = 30 * time.Second
	DefaultSettlementsInterval = 30 * time.Second

	// Per-subscriber reconnect delays.
	DefaultPriceReconnectDelay      = 3 * time.Second
	DefaultBackofficeReconnectDelay = 5 * time.Second
	DefaultClientReconnectDelay     = 4 * time.Second

	DefaultHeartbeatTimeout = 60 * time.Second
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RateLimit == 0 {
		c.API.RateLimit = DefaultRateLimit
	}

	// Feeds defaults
	if c.Feeds.PriceReconnectDelay == 0 {
		c.Feeds.PriceReconnectDelay = DefaultPriceReconnectDelay
	}
	if c.Feeds.BackofficeReconnectDelay == 0 {
		c.Feeds.BackofficeReconnectDelay = DefaultBackofficeReconnectDelay
	}
	if c.Feeds.ClientReconnectDelay == 0 {
		c.Feeds.ClientReconnectDelay = DefaultClientReconnectDelay
	}
	if c.Feeds.HeartbeatTimeout == 0 {
		c.Feeds.HeartbeatTimeout = DefaultHeartbeatTimeout
	}

	// Poller defaults
	if c.Poller.PricesInterval == 0 {
		c.Poller.PricesInterval = DefaultPricesInterval
	}
	if c.Poller.BalancesInterval == 0 {
		c.Poller.BalancesInterval = DefaultBalancesInterval
	}
	if c.Poller.SettlementsInterval == 0 {
		c.Poller.SettlementsInterval = DefaultSettlementsInterval
	}
	if c.Poller.Timeout == 0 {
		c.Poller.Timeout = DefaultPollerTimeout
	}

	// Orders defaults
	if c.Orders.DefaultFeeRate == "" {
		c.Orders.DefaultFeeRate = DefaultFeeRate
	}
}
