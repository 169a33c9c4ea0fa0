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

// BackofficeFeed follows the admin event stream: onboarding requests, KYC
// documents, and deposit activity. Event payloads carry the same resource
// shapes as REST, so decoding reuses the api wire types. The poll fallback
// re-lists deposits, the resource the backoffice acts on.
type BackofficeFeed struct {
	cfg    Config
	client *api.Client
	store  *store.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	handle *connection.Handle
	poll   *poller.Poller
}

// NewBackofficeFeed creates the feed. Start must be called to begin syncing.
func NewBackofficeFeed(cfg Config, client *api.Client, st *store.Store, logger *slog.Logger) *BackofficeFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackofficeFeed{
		cfg:    cfg,
		client: client,
		store:  st,
		logger: logger.With("feed", "backoffice"),
	}
}

// Start opens the socket and begins the polling fallback.
func (f *BackofficeFeed) Start(ctx context.Context) {
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
		Name:     "backoffice",
		Interval: f.cfg.PollInterval,
		Timeout:  f.cfg.PollTimeout,
	}, poller.TaskFunc(f.refresh), f.logger)
	f.poll.Start(f.ctx)
}

// Stop tears everything down: socket, pending reconnect, poll interval.
func (f *BackofficeFeed) Stop() {
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
func (f *BackofficeFeed) State() connection.State {
	if f.handle == nil {
		return connection.StateClosed
	}
	return f.handle.State()
}

func (f *BackofficeFeed) handleMessage(msg connection.Message) {
	if f.ctx.Err() != nil {
		return
	}

	switch msg.Type {
	case eventConnected:
		f.logger.Debug("backoffice stream connected")

	case eventNewRequest, eventRequestUpdated:
		var wire api.APIOnboardingRequest
		if err := json.Unmarshal(msg.Data, &wire); err != nil {
			f.logger.Warn("dropping malformed request event", "type", msg.Type, "error", err)
			return
		}
		f.store.UpsertRequest(wire.ToModel())

	case eventKYCDocumentUploaded, eventKYCDocumentReviewed:
		var wire api.APIKYCDocument
		if err := json.Unmarshal(msg.Data, &wire); err != nil {
			f.logger.Warn("dropping malformed kyc event", "type", msg.Type, "error", err)
			return
		}
		f.store.UpsertKYCDocument(wire.ToModel())

	case eventKYCDocumentDeleted:
		var wire api.APIKYCDocument
		if err := json.Unmarshal(msg.Data, &wire); err != nil {
			f.logger.Warn("dropping malformed kyc event", "type", msg.Type, "error", err)
			return
		}
		f.store.RemoveKYCDocument(wire.ID)

	default:
		f.logger.Debug("ignoring unknown backoffice event", "type", msg.Type)
	}
}

func (f *BackofficeFeed) refresh(ctx context.Context) error {
	deposits, err := f.client.ListDeposits(ctx, "")
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	f.store.SetDeposits(deposits)
	return nil
}
