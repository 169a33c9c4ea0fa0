package api

import (
	"context"
	"net/url"

	"github.com/carbonport/deskcore/internal/model"
	"github.com/shopspring/decimal"
)

// EffectiveFeeRate looks up the configured fee rate for a market. Callers
// must treat any error as non-fatal and fall back to a default rate; fee
// lookup failure never blocks order entry (see internal/orders).
func (c *Client) EffectiveFeeRate(ctx context.Context, market model.Market) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("market", string(market))

	var resp APIFeeRate
	if err := c.get(ctx, "/fees/effective", query, &resp); err != nil {
		return decimal.Zero, err
	}
	return resp.Rate, nil
}
