package api

import (
	"context"
	"net/url"

	"github.com/carbonport/deskcore/internal/model"
)

// ListDeposits fetches deposits awaiting backoffice action, optionally
// filtered by status.
func (c *Client) ListDeposits(ctx context.Context, status model.DepositStatus) ([]model.Deposit, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var resp depositsResponse
	if err := c.get(ctx, "/deposits", query, &resp); err != nil {
		return nil, err
	}

	deposits := make([]model.Deposit, 0, len(resp.Deposits))
	for _, d := range resp.Deposits {
		deposits = append(deposits, d.ToModel())
	}
	return deposits, nil
}

// ConfirmDeposit clears a deposit after review, crediting the client.
// The caller emits a balance-reconciliation signal on success.
func (c *Client) ConfirmDeposit(ctx context.Context, id string) (model.Deposit, error) {
	var resp depositResponse
	if err := c.post(ctx, "/deposits/"+url.PathEscape(id)+"/confirm", nil, &resp); err != nil {
		return model.Deposit{}, err
	}
	return resp.Deposit.ToModel(), nil
}

// RejectDeposit rejects a deposit with a review reason (e.g. AML hold not
// resolvable).
func (c *Client) RejectDeposit(ctx context.Context, id, reason string) (model.Deposit, error) {
	payload := struct {
		Reason string `json:"reason"`
	}{Reason: reason}

	var resp depositResponse
	if err := c.post(ctx, "/deposits/"+url.PathEscape(id)+"/reject", payload, &resp); err != nil {
		return model.Deposit{}, err
	}
	return resp.Deposit.ToModel(), nil
}
