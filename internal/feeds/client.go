package feeds

import (
	"context"
	"log/slog"

	"github.com/carbonport/deskcore/internal/api"
	"github.com/carbonport/deskcore/internal/connection"
	"github.com/carbonport/deskcore/internal/poller"
	"github.com/carbonport/deskcore/internal/store"
)

// ClientFeed follows the authenticated client's event stream. role_updated
// carries no payload; it only means the profile must be re-fetched.
type ClientFeed struct {
	cfg    Config
	client *api.Client
	store  *store.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	handle *connection.Handle
	poll   *poller.Poller
}

// NewClientFeed creates the feed. Start must be called to begin syncing.
func NewClientFeed(cfg Config, client *api.Client, st *store.Store, logger *slog.Logger) *ClientFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientFeed{
		cfg:    cfg,
		client: client,
		store:  st,
		logger: logger.With("feed", "client"),
	}
}

// Start opens the socket and begins the polling fallback.
func (f *ClientFeed) Start(ctx context.Context) {
	f.ctx, f.cancel = context.WithCancel(ctx)

	f.handle = connection.Open(connection.Config{
		Endpoint:         f.cfg.Endpoint,
		Token:            f.cfg.Token,
		ReconnectDelay:   f.cfg.ReconnectDelay,
		HeartbeatTimeout: f.cfg.HeartbeatTimeout,
	}, connection.Callbacks{
		OnMessage: f.handleMessage,
	}, f.logger)

	f.poll = poller.New(poller.Config{
		Name:     "profile",
		Interval: f.cfg.PollInterval,
		Timeout:  f.cfg.PollTimeout,
	}, poller.TaskFunc(f.refresh), f.logger)
	f.poll.Start(f.ctx)
}

// Stop tears everything down: socket, pending reconnect, poll interval.
func (f *ClientFeed) Stop() {
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
func (f *ClientFeed) State() connection.State {
	if f.handle == nil {
		return connection.StateClosed
	}
	return f.handle.State()
}

func (f *ClientFeed) handleMessage(msg connection.Message) {
	if f.ctx.Err() != nil {
		return
	}

	switch msg.Type {
	case eventConnected:
		f.logger.Debug("client stream connected")

	case eventRoleUpdated:
		// The event carries no payload; fetch the authoritative profile.
		if err := f.refresh(f.ctx); err != nil {
			f.logger.Warn("profile re-fetch after role update failed", "error", err)
		}

	default:
		f.logger.Debug("ignoring unknown client event", "type", msg.Type)
	}
}

func (f *ClientFeed) refresh(ctx context.Context) error {
	profile, err := f.client.GetProfile(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	f.store.SetProfile(profile)
	return nil
}
