package orders

import (
	"context"

	"github.com/carbonport/deskcore/internal/model"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Quote resolves the effective fee rate for a market/side pair. Any lookup
// failure (network, malformed rate) substitutes the default rate; a fee
// outage must never block order entry.
func (e *Engine) Quote(ctx context.Context, market model.Market, side model.Side) model.FeeQuote {
	quote := model.FeeQuote{
		Market: market,
		Side:   side,
		Rate:   e.defaultRate,
		Source: model.FeeSourceDefault,
	}

	if e.fees == nil {
		return quote
	}

	rate, err := e.fees.EffectiveFeeRate(ctx, market)
	if err != nil {
		e.logger.Warn("fee lookup failed, using default rate",
			"market", market,
			"default_rate", e.defaultRate,
			"error", err,
		)
		return quote
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		e.logger.Warn("fee lookup returned rate outside [0,1), using default",
			"market", market,
			"rate", rate,
		)
		return quote
	}

	quote.Rate = rate
	quote.Source = model.FeeSourceConfigured
	return quote
}

// Totals is the cost breakdown for an order. Every figure is independently
// displayable; there is no single opaque "total".
type Totals struct {
	Gross          decimal.Decimal // price × quantity
	FeeAmount      decimal.Decimal // gross × rate
	BuyerTotal     decimal.Decimal // gross × (1 + rate)
	SellerProceeds decimal.Decimal // gross × (1 − rate)
	Quote          model.FeeQuote
}

// ComputeTotals derives the fee-adjusted figures for an order.
func ComputeTotals(price, quantity decimal.Decimal, quote model.FeeQuote) Totals {
	gross := price.Mul(quantity)
	fee := gross.Mul(quote.Rate)

	return Totals{
		Gross:          gross,
		FeeAmount:      fee,
		BuyerTotal:     gross.Add(fee),
		SellerProceeds: gross.Sub(fee),
		Quote:          quote,
	}
}
