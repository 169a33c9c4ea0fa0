// Package trading executes the balance-mutating desk actions: order
// placement and deposit review. Every successful mutation publishes a
// reconciliation signal so balance displays re-fetch; the action result
// itself never carries balance values.
package trading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carbonport/deskcore/internal/api"
	"github.com/carbonport/deskcore/internal/model"
	"github.com/carbonport/deskcore/internal/orders"
	"github.com/carbonport/deskcore/internal/signal"
	"github.com/carbonport/deskcore/internal/store"
)

// ErrOrderRejected is returned when client-side validation fails; the
// order never reaches the server.
var ErrOrderRejected = errors.New("order rejected by validation")

// Service runs desk actions against the platform API.
type Service struct {
	client *api.Client
	engine *orders.Engine
	store  *store.Store
	bus    *signal.Bus
	logger *slog.Logger
}

// NewService wires the action layer. All dependencies are required except
// the logger.
func NewService(client *api.Client, engine *orders.Engine, st *store.Store, bus *signal.Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		engine: engine,
		store:  st,
		bus:    bus,
		logger: logger,
	}
}

// PlaceOrder validates an order against the latest known balances and
// submits it. The validation result is returned either way so forms can
// show the totals breakdown. A rejected order returns ErrOrderRejected
// without touching the server.
func (s *Service) PlaceOrder(ctx context.Context, order model.Order) (api.APIOrderAck, orders.ValidationResult, error) {
	balances, ok := s.store.Balances()
	if !ok {
		return api.APIOrderAck{}, orders.ValidationResult{}, errors.New("balances not loaded yet")
	}

	result := s.engine.Validate(ctx, order, balances)
	if !result.Valid {
		s.logger.Info("order rejected",
			"reference", order.ClientReference,
			"reason", result.Reason,
		)
		return api.APIOrderAck{}, result, fmt.Errorf("%w: %s", ErrOrderRejected, result.Reason)
	}

	ack, err := s.client.PlaceOrder(ctx, order)
	if err != nil {
		return api.APIOrderAck{}, result, fmt.Errorf("place order: %w", err)
	}

	cause := signal.CauseOrderExecuted
	if order.Market == model.MarketSwap {
		cause = signal.CauseSwapExecuted
	}
	s.bus.Publish(cause, "trading")

	s.logger.Info("order placed",
		"reference", order.ClientReference,
		"order_id", ack.OrderID,
		"settlement_batch", ack.SettlementBatchID,
	)
	return ack, result, nil
}

// ConfirmDeposit clears a deposit, stores the updated resource, and
// signals a balance re-fetch.
func (s *Service) ConfirmDeposit(ctx context.Context, id string) (model.Deposit, error) {
	deposit, err := s.client.ConfirmDeposit(ctx, id)
	if err != nil {
		return model.Deposit{}, fmt.Errorf("confirm deposit: %w", err)
	}

	s.store.UpsertDeposit(deposit)
	s.bus.Publish(signal.CauseDepositCleared, "trading")
	return deposit, nil
}

// RejectDeposit rejects a deposit with a review reason. Rejection can
// release held funds, so it signals a re-fetch too.
func (s *Service) RejectDeposit(ctx context.Context, id, reason string) (model.Deposit, error) {
	deposit, err := s.client.RejectDeposit(ctx, id, reason)
	if err != nil {
		return model.Deposit{}, fmt.Errorf("reject deposit: %w", err)
	}

	s.store.UpsertDeposit(deposit)
	s.bus.Publish(signal.CauseDepositRejected, "trading")
	return deposit, nil
}
