package api

import (
	"context"
	"net/url"

	"github.com/carbonport/deskcore/internal/model"
)

// ListSettlements fetches settlement batches, optionally filtered by status.
// An empty status returns everything.
func (c *Client) ListSettlements(ctx context.Context, status model.SettlementStatus) ([]model.SettlementBatch, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var resp settlementsResponse
	if err := c.get(ctx, "/settlements", query, &resp); err != nil {
		return nil, err
	}

	batches := make([]model.SettlementBatch, 0, len(resp.Settlements))
	for _, s := range resp.Settlements {
		batches = append(batches, s.ToModel())
	}
	return batches, nil
}

// GetSettlement fetches a single batch by id. Terminal batches stay
// queryable here after dropping out of the pending view.
func (c *Client) GetSettlement(ctx context.Context, id string) (model.SettlementBatch, error) {
	var resp settlementResponse
	if err := c.get(ctx, "/settlements/"+url.PathEscape(id), nil, &resp); err != nil {
		return model.SettlementBatch{}, err
	}
	return resp.Settlement.ToModel(), nil
}
