package api

import (
	"context"

	"github.com/carbonport/deskcore/internal/model"
)

// GetPrices fetches the current price snapshot. The polling fallback uses
// this when the price socket is down or silently stalled.
func (c *Client) GetPrices(ctx context.Context) (model.Prices, error) {
	var resp APIPrices
	if err := c.get(ctx, "/prices", nil, &resp); err != nil {
		return model.Prices{}, err
	}
	return resp.ToModel(), nil
}
