package feeds

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/carbonport/deskcore/internal/api"
	"github.com/carbonport/deskcore/internal/poller"
	"github.com/carbonport/deskcore/internal/signal"
	"github.com/carbonport/deskcore/internal/store"
)

// DashboardConfig holds the dashboard refresh cadences.
type DashboardConfig struct {
	BalancesInterval    time.Duration
	SettlementsInterval time.Duration
	Timeout             time.Duration
}

// Dashboard keeps balances and settlements current. It refreshes on its own
// cadence and immediately whenever a balance-reconciliation signal arrives,
// decoupling trade execution from the display layer: the signal only says
// "something changed", the values always come from the server.
type Dashboard struct {
	cfg    DashboardConfig
	client *api.Client
	store  *store.Store
	bus    *signal.Bus
	logger *slog.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	balances    *poller.Poller
	settlements *poller.Poller
	unsub       func()
}

// NewDashboard creates the refresher. Start must be called to begin syncing.
func NewDashboard(cfg DashboardConfig, client *api.Client, st *store.Store, bus *signal.Bus, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		cfg:    cfg,
		client: client,
		store:  st,
		bus:    bus,
		logger: logger.With("feed", "dashboard"),
	}
}

// Start begins the pollers and the reconciliation subscription.
func (d *Dashboard) Start(ctx context.Context) {
	d.ctx, d.cancel = context.WithCancel(ctx)

	d.balances = poller.New(poller.Config{
		Name:     "balances",
		Interval: d.cfg.BalancesInterval,
		Timeout:  d.cfg.Timeout,
	}, poller.TaskFunc(d.refreshBalances), d.logger)
	d.balances.Start(d.ctx)

	d.settlements = poller.New(poller.Config{
		Name:     "settlements",
		Interval: d.cfg.SettlementsInterval,
		Timeout:  d.cfg.Timeout,
	}, poller.TaskFunc(d.refreshSettlements), d.logger)
	d.settlements.Start(d.ctx)

	events, unsub := d.bus.Subscribe(8)
	d.unsub = unsub

	d.wg.Add(1)
	go d.watchSignals(events)
}

// Stop unsubscribes and stops both pollers.
func (d *Dashboard) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.unsub != nil {
		d.unsub()
	}
	if d.balances != nil {
		d.balances.Stop()
	}
	if d.settlements != nil {
		d.settlements.Stop()
	}
	d.wg.Wait()
}

func (d *Dashboard) watchSignals(events <-chan signal.Event) {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.logger.Debug("balance reconciliation signal",
				"cause", ev.Cause,
				"source", ev.Source,
			)

			ctx := d.ctx
			if d.cfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(d.ctx, d.cfg.Timeout)
				d.refreshAll(ctx)
				cancel()
			} else {
				d.refreshAll(ctx)
			}
		}
	}
}

func (d *Dashboard) refreshAll(ctx context.Context) {
	if err := d.refreshBalances(ctx); err != nil && d.ctx.Err() == nil {
		d.logger.Warn("balance refresh failed", "error", err)
	}
	if err := d.refreshSettlements(ctx); err != nil && d.ctx.Err() == nil {
		d.logger.Warn("settlement refresh failed", "error", err)
	}
}

func (d *Dashboard) refreshBalances(ctx context.Context) error {
	balances, err := d.client.GetBalances(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	d.store.SetBalances(balances)
	return nil
}

func (d *Dashboard) refreshSettlements(ctx context.Context) error {
	batches, err := d.client.ListSettlements(ctx, "")
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	d.store.SetSettlements(batches)
	return nil
}
