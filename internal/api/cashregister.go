package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/d10sys/d10admin/internal/cashregister"
)

// CurrentAmount fetches the register balance. The balance is a server-side
// aggregate; the client never derives it by summing transactions.
func (c *Client) CurrentAmount(ctx context.Context) (float64, error) {
	var body struct {
		CurrentAmount float64 `json:"currentAmount"`
	}

	if err := c.do(ctx, http.MethodGet, "/cash-register", nil, nil, &body); err != nil {
		return 0, err
	}

	return body.CurrentAmount, nil
}

// Transactions lists ledger entries. A non-empty date (YYYY-MM-DD) filters
// to that calendar day; an empty date means no filter, not today.
func (c *Client) Transactions(ctx context.Context, date string) ([]cashregister.Transaction, error) {
	var params url.Values
	if date != "" {
		params = url.Values{"date": {date}}
	}

	var result []cashregister.Transaction
	if err := c.do(ctx, http.MethodGet, "/cash-register/transactions", params, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) CreateTransaction(ctx context.Context, params cashregister.CreateTransactionParams) error {
	return c.do(ctx, http.MethodPost, "/cash-register/transactions", nil, params, nil)
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, params cashregister.CreateTransactionParams) error {
	return c.do(ctx, http.MethodPut, "/cash-register/transactions/"+id, nil, params, nil)
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cash-register/transactions/"+id, nil, nil, nil)
}
