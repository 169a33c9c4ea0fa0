// deskwatch runs the desk core headless: it wires the REST client, the
// three realtime feeds, and the dashboard refresher into a state store and
// logs what a mounted UI would render. Useful for soak-testing the
// synchronization layer against a live backend.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carbonport/deskcore/internal/api"
	"github.com/carbonport/deskcore/internal/config"
	"github.com/carbonport/deskcore/internal/feeds"
	"github.com/carbonport/deskcore/internal/settlement"
	sigbus "github.com/carbonport/deskcore/internal/signal"
	"github.com/carbonport/deskcore/internal/store"
	"github.com/carbonport/deskcore/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/deskwatch.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting deskwatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded", "api_url", cfg.API.BaseURL)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.Token,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithRateLimit(cfg.API.RateLimit),
	)

	// Shared state
	st := store.New()
	bus := sigbus.NewBus()

	// Feeds
	priceFeed := feeds.NewPriceFeed(feeds.Config{
		Endpoint:         cfg.Feeds.PriceWSURL,
		ReconnectDelay:   cfg.Feeds.PriceReconnectDelay,
		HeartbeatTimeout: cfg.Feeds.HeartbeatTimeout,
		PollInterval:     cfg.Poller.PricesInterval,
		PollTimeout:      cfg.Poller.Timeout,
	}, apiClient, st, logger)

	backofficeFeed := feeds.NewBackofficeFeed(feeds.Config{
		Endpoint:         cfg.Feeds.BackofficeWSURL,
		Token:            cfg.API.Token,
		ReconnectDelay:   cfg.Feeds.BackofficeReconnectDelay,
		HeartbeatTimeout: cfg.Feeds.HeartbeatTimeout,
		PollInterval:     cfg.Poller.SettlementsInterval,
		PollTimeout:      cfg.Poller.Timeout,
	}, apiClient, st, logger)

	clientFeed := feeds.NewClientFeed(feeds.Config{
		Endpoint:         cfg.Feeds.ClientWSURL,
		Token:            cfg.API.Token,
		ReconnectDelay:   cfg.Feeds.ClientReconnectDelay,
		HeartbeatTimeout: cfg.Feeds.HeartbeatTimeout,
		PollInterval:     cfg.Poller.BalancesInterval,
		PollTimeout:      cfg.Poller.Timeout,
	}, apiClient, st, logger)

	dashboard := feeds.NewDashboard(feeds.DashboardConfig{
		BalancesInterval:    cfg.Poller.BalancesInterval,
		SettlementsInterval: cfg.Poller.SettlementsInterval,
		Timeout:             cfg.Poller.Timeout,
	}, apiClient, st, bus, logger)

	priceFeed.Start(ctx)
	backofficeFeed.Start(ctx)
	clientFeed.Start(ctx)
	dashboard.Start(ctx)

	logger.Info("desk core running")

	// Log the store the way a dashboard would read it.
	report := time.NewTicker(15 * time.Second)
	defer report.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-report.C:
			logSnapshot(st, logger, priceFeed, backofficeFeed, clientFeed)
		}
	}

	logger.Info("shutting down")
	dashboard.Stop()
	clientFeed.Stop()
	backofficeFeed.Stop()
	priceFeed.Stop()
	logger.Info("deskwatch stopped")
}

func logSnapshot(st *store.Store, logger *slog.Logger, price *feeds.PriceFeed, backoffice *feeds.BackofficeFeed, client *feeds.ClientFeed) {
	now := time.Now()

	if prices, ok := st.Prices(); ok {
		logger.Info("prices",
			"cea_eur", prices.CEAPriceEUR,
			"eua_eur", prices.EUAPriceEUR,
			"age", now.Sub(prices.UpdatedAt).Round(time.Second),
		)
	}

	for _, batch := range st.PendingSettlements() {
		days, _ := settlement.DaysRemaining(batch, now)
		logger.Info("pending settlement",
			"reference", batch.BatchReference,
			"status", batch.Status,
			"progress", settlement.Progress(batch, now),
			"days_remaining", days,
		)
	}

	logger.Info("feed states",
		"prices", price.State(),
		"backoffice", backoffice.State(),
		"client", client.State(),
	)
}
