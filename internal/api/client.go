// Package api is the JSON-over-HTTP client for the d10 backend. Every
// entity gets its own sub-resource; all durable computation (stock
// arithmetic, persistence, search, pagination) happens server-side.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx backend response with its best-effort extracted
// message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("Error: %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 backend response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the backend at baseURL. The timeout applies per
// request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

// do performs one JSON request. A non-nil body is encoded as JSON; a
// non-nil out receives the decoded 2xx response. Non-2xx responses become
// *APIError with the message extracted per decodeError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// decodeError extracts the most useful message available: a message/error/
// detail field from a JSON body, else the raw text body, else the bare
// status code.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Message string `json:"message"`
			Err     string `json:"error"`
			Detail  string `json:"detail"`
		}

		if json.Unmarshal(raw, &body) == nil {
			switch {
			case body.Message != "":
				apiErr.Message = body.Message
			case body.Err != "":
				apiErr.Message = body.Err
			case body.Detail != "":
				apiErr.Message = body.Detail
			}
		}

		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(raw))

	return apiErr
}
