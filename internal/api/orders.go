package api

import (
	"context"

	"github.com/carbonport/deskcore/internal/model"
)

// PreviewOrder asks the server for its cost breakdown of an order without
// placing it. The client-side totals (internal/orders) are what forms
// display; this exists for pre-submission cross-checks.
func (c *Client) PreviewOrder(ctx context.Context, order model.Order) (APIOrderPreview, error) {
	var resp APIOrderPreview
	if err := c.post(ctx, "/orders/preview", FromOrder(order), &resp); err != nil {
		return APIOrderPreview{}, err
	}
	return resp, nil
}

// PlaceOrder submits an order. Never retried: the caller owns resubmission
// after a failure, keyed by the order's client reference.
func (c *Client) PlaceOrder(ctx context.Context, order model.Order) (APIOrderAck, error) {
	var resp APIOrderAck
	if err := c.post(ctx, "/orders", FromOrder(order), &resp); err != nil {
		return APIOrderAck{}, err
	}
	return resp, nil
}
