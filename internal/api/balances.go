package api

import (
	"context"

	"github.com/carbonport/deskcore/internal/model"
)

// GetBalances fetches the authenticated client's balances. This is the only
// authoritative balance source: reconciliation signals and feed events just
// trigger a call here, their payloads are never trusted as values.
func (c *Client) GetBalances(ctx context.Context) (model.Balances, error) {
	var resp balancesResponse
	if err := c.get(ctx, "/account/balances", nil, &resp); err != nil {
		return model.Balances{}, err
	}
	return resp.Balances.ToModel(), nil
}

// GetProfile fetches the authenticated client's profile, including its
// current role. The client feed's role_updated event triggers this.
func (c *Client) GetProfile(ctx context.Context) (model.Profile, error) {
	var resp profileResponse
	if err := c.get(ctx, "/account/profile", nil, &resp); err != nil {
		return model.Profile{}, err
	}
	return resp.Profile.ToModel(), nil
}
