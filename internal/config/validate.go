package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}
	if c.API.RateLimit < 0 {
		return errors.New("api.rate_limit must be >= 0")
	}

	if err := validateWSURL("feeds.price_ws_url", c.Feeds.PriceWSURL); err != nil {
		return err
	}
	if err := validateWSURL("feeds.backoffice_ws_url", c.Feeds.BackofficeWSURL); err != nil {
		return err
	}
	if err := validateWSURL("feeds.client_ws_url", c.Feeds.ClientWSURL); err != nil {
		return err
	}

	if c.Poller.PricesInterval <= 0 {
		return errors.New("poller.prices_interval must be > 0")
	}
	if c.Poller.BalancesInterval <= 0 {
		return errors.New("poller.balances_interval must be > 0")
	}
	if c.Poller.SettlementsInterval <= 0 {
		return errors.New("poller.settlements_interval must be > 0")
	}

	rate, err := decimal.NewFromString(c.Orders.DefaultFeeRate)
	if err != nil {
		return fmt.Errorf("orders.default_fee_rate is not a decimal: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("orders.default_fee_rate must be in [0,1), got %s", rate)
	}

	return nil
}

func validateWSURL(field, url string) error {
	if url == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		return fmt.Errorf("%s must use ws:// or wss://, got %q", field, url)
	}
	return nil
}

// DefaultFeeRateDecimal returns the parsed default fee rate. Validate must
// have succeeded first.
func (c *Config) DefaultFeeRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(c.Orders.DefaultFeeRate)
	if err != nil {
		return decimal.RequireFromString(DefaultFeeRate)
	}
	return rate
}
