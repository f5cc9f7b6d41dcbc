package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/d10sys/d10admin/internal/invoice"
)

func (c *Client) CreateInvoice(ctx context.Context, params invoice.CreateParams) error {
	return c.do(ctx, http.MethodPost, "/invoice", nil, params, nil)
}

// GetInvoice fetches one invoice by id, resolving a 404 to (nil, nil).
func (c *Client) GetInvoice(ctx context.Context, id string) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	err := c.do(ctx, http.MethodGet, "/invoice/"+id, nil, nil, &inv)
	if IsNotFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &inv, nil
}

func (c *Client) UpdateInvoice(ctx context.Context, id string, params invoice.CreateParams) error {
	return c.do(ctx, http.MethodPut, "/invoice/"+id, nil, params, nil)
}

func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/invoice/"+id, nil, nil, nil)
}

// SearchInvoices runs a free-text search over client name and invoice id.
func (c *Client) SearchInvoices(ctx context.Context, q string) ([]invoice.Invoice, error) {
	params := url.Values{"q": {q}}

	var result []invoice.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoice/search", params, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// RecentInvoices is the no-query variant of the search endpoint: the
// backend returns the latest invoices.
func (c *Client) RecentInvoices(ctx context.Context) ([]invoice.Invoice, error) {
	var result []invoice.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoice/search", nil, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateInvoiceStatus patches only the status field.
func (c *Client) UpdateInvoiceStatus(ctx context.Context, id string, status invoice.Status) error {
	params := url.Values{"status": {string(status)}}
	return c.do(ctx, http.MethodPatch, "/invoice/"+id+"/status", params, nil, nil)
}
