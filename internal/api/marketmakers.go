package api

import (
	"context"
	"net/url"

	"github.com/carbonport/deskcore/internal/model"
)

// ListMarketMakers fetches all platform market makers with their balances.
func (c *Client) ListMarketMakers(ctx context.Context) ([]model.CounterpartySnapshot, error) {
	var resp marketMakersResponse
	if err := c.get(ctx, "/market-makers", nil, &resp); err != nil {
		return nil, err
	}

	makers := make([]model.CounterpartySnapshot, 0, len(resp.MarketMakers))
	for _, m := range resp.MarketMakers {
		makers = append(makers, m.ToModel())
	}
	return makers, nil
}

// GetMarketMakerBalances fetches current balances for one market maker.
func (c *Client) GetMarketMakerBalances(ctx context.Context, id string) (model.Balances, error) {
	var resp balancesResponse
	if err := c.get(ctx, "/market-makers/"+url.PathEscape(id)+"/balances", nil, &resp); err != nil {
		return model.Balances{}, err
	}
	return resp.Balances.ToModel(), nil
}
