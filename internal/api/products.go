package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/d10sys/d10admin/internal/product"
)

// GetProduct fetches one product by id. A missing product resolves to
// (nil, nil), never an error.
func (c *Client) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product

	err := c.do(ctx, http.MethodGet, "/product/"+id, nil, nil, &p)
	if IsNotFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// ListProducts fetches a page of products, optionally filtered by the free
// text query. Page is zero-based.
func (c *Client) ListProducts(ctx context.Context, query string, page, size int) (Page[product.Product], error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}

	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	var result Page[product.Product]
	if err := c.do(ctx, http.MethodGet, "/product", params, nil, &result); err != nil {
		return Page[product.Product]{}, err
	}

	return result, nil
}

func (c *Client) CreateProduct(ctx context.Context, params product.CreateParams) error {
	return c.do(ctx, http.MethodPost, "/product", nil, params, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, params product.CreateParams) error {
	return c.do(ctx, http.MethodPut, "/product/"+id, nil, params, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/product/"+id, nil, nil, nil)
}

// SetProductDiscontinued soft-hides or reactivates a product.
func (c *Client) SetProductDiscontinued(ctx context.Context, id string, discontinued bool) error {
	params := url.Values{"discontinued": {strconv.FormatBool(discontinued)}}
	return c.do(ctx, http.MethodPatch, "/product/"+id, params, nil, nil)
}

// UpdateProductStock records one IN/OUT stock movement, in sale units. The
// backend rejects an OUT that would leave the quantity negative.
func (c *Client) UpdateProductStock(ctx context.Context, id string, movement product.StockMovement) error {
	return c.do(ctx, http.MethodPatch, "/product/"+id+"/stock", nil, movement, nil)
}
