package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task is one refresh round. Implementations must honor ctx before writing
// results anywhere: a cancelled ctx means the owner has torn down.
type Task interface {
	Refresh(ctx context.Context) error
}

// TaskFunc is a function adapter for Task.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Refresh(ctx context.Context) error {
	return f(ctx)
}

// Config holds poller configuration.
type Config struct {
	Name     string        // for logging
	Interval time.Duration // tick interval
	Timeout  time.Duration // per-refresh timeout (0 = no timeout)
}

// Poller periodically invokes a refresh task.
type Poller struct {
	cfg    Config
	task   Task
	logger *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	inFlight atomic.Bool
	skipped  atomic.Int64
	started  bool
}

// New creates a poller. Start must be called before it does anything.
func New(cfg Config, task Task, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:    cfg,
		task:   task,
		logger: logger,
	}
}

// Start begins the refresh loop with an immediate first round.
func (p *Poller) Start(ctx context.Context) {
	if p.started {
		return
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("poller started",
		"name", p.cfg.Name,
		"interval", p.cfg.Interval,
	)
}

// Stop cancels the loop and waits for any in-flight refresh to unwind.
// Safe to call more than once and before Start.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Skipped returns how many ticks were dropped by the overlap guard.
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}

// run is the main refresh loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	p.spawnRefresh()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.spawnRefresh()
		}
	}
}

// spawnRefresh starts one round unless the previous one is still in flight.
// The guard tracks completion, it never cancels the prior call: a slow round
// just makes the ticks it overlaps no-ops.
func (p *Poller) spawnRefresh() {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		p.logger.Debug("refresh still in flight, skipping tick", "name", p.cfg.Name)
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)

		ctx := p.ctx
		if p.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(p.ctx, p.cfg.Timeout)
			defer cancel()
		}

		if err := p.task.Refresh(ctx); err != nil {
			if p.ctx.Err() != nil {
				return // shutting down, not worth reporting
			}
			p.logger.Warn("refresh failed",
				"name", p.cfg.Name,
				"error", err,
			)
		}
	}()
}
