package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/d10sys/d10admin/internal/client"
)

// GetClient fetches one client by id, resolving a 404 to (nil, nil).
func (c *Client) GetClient(ctx context.Context, id string) (*client.Client, error) {
	var cl client.Client

	err := c.do(ctx, http.MethodGet, "/client/"+id, nil, nil, &cl)
	if IsNotFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &cl, nil
}

func (c *Client) CreateClient(ctx context.Context, params client.CreateParams) error {
	return c.do(ctx, http.MethodPost, "/client", nil, params, nil)
}

func (c *Client) UpdateClient(ctx context.Context, id string, params client.CreateParams) error {
	return c.do(ctx, http.MethodPut, "/client/"+id, nil, params, nil)
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/client/"+id, nil, nil, nil)
}

// SearchClients runs a free-text search over name and cuit/dni.
func (c *Client) SearchClients(ctx context.Context, q string) ([]client.Client, error) {
	params := url.Values{"q": {q}}

	var result []client.Client
	if err := c.do(ctx, http.MethodGet, "/client/search", params, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}
