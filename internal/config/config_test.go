package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func decimalMustParse(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
api:
  base_url: https://api.example.com
feeds:
  price_ws_url: wss://feed.example.com/prices
  backoffice_ws_url: wss://feed.example.com/backoffice
  client_ws_url: wss://feed.example.com/client
`

func TestLoadAndValidate_Minimal(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadAndValidate: %v", err)
	}

	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("api timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.API.MaxRetries != DefaultMaxRetries {
		t.Errorf("max retries = %d, want %d", cfg.API.MaxRetries, DefaultMaxRetries)
	}
	if cfg.Feeds.PriceReconnectDelay != 3*time.Second {
		t.Errorf("price reconnect delay = %v, want 3s", cfg.Feeds.PriceReconnectDelay)
	}
	if cfg.Feeds.BackofficeReconnectDelay != 5*time.Second {
		t.Errorf("backoffice reconnect delay = %v, want 5s", cfg.Feeds.BackofficeReconnectDelay)
	}
	if cfg.Feeds.ClientReconnectDelay != 4*time.Second {
		t.Errorf("client reconnect delay = %v, want 4s", cfg.Feeds.ClientReconnectDelay)
	}
	if cfg.Poller.PricesInterval != 5*time.Second {
		t.Errorf("prices interval = %v, want 5s", cfg.Poller.PricesInterval)
	}
	if cfg.Orders.DefaultFeeRate != "0.005" {
		t.Errorf("default fee rate = %q, want 0.005", cfg.Orders.DefaultFeeRate)
	}
}

func TestLoad_ExplicitValuesSurviveDefaults(t *testing.T) {
	cfg, err := LoadAndValidate(writeConfig(t, minimalConfig+`
poller:
  prices_interval: 2s
orders:
  default_fee_rate: "0.01"
`))
	if err != nil {
		t.Fatalf("LoadAndValidate: %v", err)
	}
	if cfg.Poller.PricesInterval != 2*time.Second {
		t.Errorf("prices interval = %v, want 2s", cfg.Poller.PricesInterval)
	}
	if !cfg.DefaultFeeRateDecimal().Equal(decimalMustParse(t, "0.01")) {
		t.Errorf("fee rate = %s, want 0.01", cfg.DefaultFeeRateDecimal())
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DESK_API_TOKEN", "secret-token")

	cfg, err := Load(writeConfig(t, `
api:
  base_url: https://api.example.com
  token: ${DESK_API_TOKEN}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Token != "secret-token" {
		t.Errorf("token = %q, want expanded env value", cfg.API.Token)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "api: [not a map")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "base_url"},
		{"negative retries", func(c *Config) { c.API.MaxRetries = -1 }, "max_retries"},
		{"negative rate limit", func(c *Config) { c.API.RateLimit = -1 }, "rate_limit"},
		{"missing ws url", func(c *Config) { c.Feeds.ClientWSURL = "" }, "client_ws_url"},
		{"http ws url", func(c *Config) { c.Feeds.PriceWSURL = "https://feed.example.com" }, "ws://"},
		{"zero interval", func(c *Config) { c.Poller.BalancesInterval = 0 }, "balances_interval"},
		{"fee rate not decimal", func(c *Config) { c.Orders.DefaultFeeRate = "half" }, "default_fee_rate"},
		{"fee rate negative", func(c *Config) { c.Orders.DefaultFeeRate = "-0.1" }, "default_fee_rate"},
		{"fee rate of one", func(c *Config) { c.Orders.DefaultFeeRate = "1" }, "default_fee_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWithDefaults(writeConfig(t, minimalConfig))
			if err != nil {
				t.Fatalf("LoadWithDefaults: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantSub)
			}
		})
	}
}
