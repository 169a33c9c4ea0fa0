package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carbonport/deskcore/internal/model"
	"github.com/shopspring/decimal"
)

// FeeLookup resolves the effective fee rate for a market. *api.Client
// satisfies this.
type FeeLookup interface {
	EffectiveFeeRate(ctx context.Context, market model.Market) (decimal.Decimal, error)
}

// Engine validates orders and computes fee-adjusted totals.
type Engine struct {
	fees        FeeLookup
	defaultRate decimal.Decimal
	logger      *slog.Logger
}

// NewEngine creates an engine. defaultRate is used whenever the fee lookup
// fails, so order entry keeps working without the fee service.
func NewEngine(fees FeeLookup, defaultRate decimal.Decimal, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		fees:        fees,
		defaultRate: defaultRate,
		logger:      logger,
	}
}

// requirement is one row of the eligibility table.
type requirement struct {
	role    model.CounterpartyRole
	balance func(model.Balances) decimal.Decimal // available balance that must be positive
}

// eligibility is the exhaustive market × side table. There is no implicit
// fallthrough: pairs outside the table have no eligible counterparties.
var eligibility = map[model.Market]map[model.Side]requirement{
	model.MarketCEACash: {
		model.SideAsk: {role: model.RoleCEASeller, balance: func(b model.Balances) decimal.Decimal { return b.CEA.Available }},
		model.SideBid: {role: model.RoleCEABuyer, balance: func(b model.Balances) decimal.Decimal { return b.EUR.Available }},
	},
	model.MarketSwap: {
		model.SideAsk: {role: model.RoleEUAOffer, balance: func(b model.Balances) decimal.Decimal { return b.EUA.Available }},
		model.SideBid: {role: model.RoleEUAOffer, balance: func(b model.Balances) decimal.Decimal { return b.CEA.Available }},
	},
}

// EligibleCounterparties filters candidates down to those with the required
// role and a positive available balance for the given market and side.
func EligibleCounterparties(side model.Side, certType model.CertificateType, market model.Market, all []model.CounterpartySnapshot) []model.CounterpartySnapshot {
	req, ok := eligibility[market][side]
	if !ok {
		return nil
	}

	eligible := make([]model.CounterpartySnapshot, 0, len(all))
	for _, cp := range all {
		if cp.Role != req.role {
			continue
		}
		if !req.balance(cp.Balances).IsPositive() {
			continue
		}
		eligible = append(eligible, cp)
	}
	return eligible
}

// ValidationResult is the synchronous answer to a validation request.
// Totals is always populated, even on failure, so forms can keep the cost
// breakdown on screen.
type ValidationResult struct {
	Valid  bool
	Reason string // empty when valid
	Totals Totals
}

// Validate checks an order against the client's balances, in a fixed order,
// returning the first failing reason. BID affordability is checked against
// the fee-adjusted buyer total, not the pre-fee gross.
func (e *Engine) Validate(ctx context.Context, order model.Order, balances model.Balances) ValidationResult {
	quote := e.Quote(ctx, order.Market, order.Side)
	totals := ComputeTotals(order.Price, order.Quantity, quote)

	fail := func(reason string) ValidationResult {
		return ValidationResult{Valid: false, Reason: reason, Totals: totals}
	}

	if order.CounterpartyID == "" {
		return fail("select a counterparty")
	}
	if !order.Price.IsPositive() {
		return fail("price must be greater than zero")
	}
	if !order.Quantity.IsPositive() {
		return fail("quantity must be greater than zero")
	}

	switch order.Side {
	case model.SideAsk:
		available := availableCertificate(order.CertificateType, balances)
		if order.Quantity.GreaterThan(available) {
			return fail(fmt.Sprintf("insufficient %s balance: need %s, available %s",
				order.CertificateType, order.Quantity, available))
		}
	case model.SideBid:
		if totals.BuyerTotal.GreaterThan(balances.EUR.Available) {
			return fail(fmt.Sprintf("insufficient EUR balance: need %s (incl. fee), available %s",
				totals.BuyerTotal, balances.EUR.Available))
		}
	default:
		return fail(fmt.Sprintf("unknown order side %q", order.Side))
	}

	return ValidationResult{Valid: true, Totals: totals}
}

func availableCertificate(certType model.CertificateType, balances model.Balances) decimal.Decimal {
	switch certType {
	case model.CertificateCEA:
		return balances.CEA.Available
	case model.CertificateEUA:
		return balances.EUA.Available
	default:
		return decimal.Zero
	}
}
