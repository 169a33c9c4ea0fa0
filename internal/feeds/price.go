package feeds

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/carbonport/deskcore/internal/api"
	"github.com/carbonport/deskcore/internal/connection"
	"github.com/carbonport/deskcore/internal/poller"
	"github.com/carbonport/deskcore/internal/store"
)

// PriceFeed keeps the store's price snapshot current. Socket frames are
// full snapshots; the poll fallback fetches the same snapshot over REST.
type PriceFeed struct {
	cfg    Config
	client *api.Client
	store  *store.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	handle *connection.Handle
	poll   *poller.Poller
}

// NewPriceFeed creates the feed. Start must be called to begin syncing.
func NewPriceFeed(cfg Config, client *api.Client, st *store.Store, logger *slog.Logger) *PriceFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceFeed{
		cfg:    cfg,
		client: client,
		store:  st,
		logger: logger.With("feed", "prices"),
	}
}

// Start opens the socket and begins the polling fallback.
func (f *PriceFeed) Start(ctx context.Context) {
	f.ctx, f.cancel = context.WithCancel(ctx)

	f.handle = connection.Open(connection.Config{
		Endpoint:         f.cfg.Endpoint,
		ReconnectDelay:   f.cfg.ReconnectDelay,
		HeartbeatTimeout: f.cfg.HeartbeatTimeout,
	}, connection.Callbacks{
		OnMessage: f.handleMessage,
	}, f.logger)

	f.poll = poller.New(poller.Config{
		Name:     "prices",
		Interval: f.cfg.PollInterval,
		Timeout:  f.cfg.PollTimeout,
	}, poller.TaskFunc(f.refresh), f.logger)
	f.poll.Start(f.ctx)
}

// Stop tears everything down: socket, pending reconnect, poll interval.
func (f *PriceFeed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.handle != nil {
		f.handle.Close()
	}
	if f.poll != nil {
		f.poll.Stop()
	}
}

// State exposes the socket state for status displays.
func (f *PriceFeed) State() connection.State {
	if f.handle == nil {
		return connection.StateClosed
	}
	return f.handle.State()
}

func (f *PriceFeed) handleMessage(msg connection.Message) {
	if f.ctx.Err() != nil {
		return // unmounted; never write after teardown
	}

	var wire api.APIPrices
	if err := json.Unmarshal(msg.Data, &wire); err != nil {
		f.logger.Warn("dropping malformed price frame", "error", err)
		return
	}

	f.store.SetPrices(wire.ToModel())
}

func (f *PriceFeed) refresh(ctx context.Context) error {
	prices, err := f.client.GetPrices(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil // cancelled mid-flight; result must not land
	}
	f.store.SetPrices(prices)
	return nil
}
