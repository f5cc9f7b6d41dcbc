package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// RequestUploadURL asks the image store for a short-lived upload URL for
// the given file name. The response body is the URL as plain text.
func (c *Client) RequestUploadURL(ctx context.Context, fileName string) (string, error) {
	params := url.Values{"fileName": {fileName}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/img", params), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload url: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

// UploadImage PUTs raw bytes to an upload URL and returns the final asset
// URL, which is the upload URL stripped of its query string.
func (c *Client) UploadImage(ctx context.Context, uploadURL string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", http.DetectContentType(data))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeError(resp)
	}

	asset, _, _ := strings.Cut(uploadURL, "?")

	return asset, nil
}
