// Package client implements a generic JSON REST client used for calls to
// external services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

var userAgent = "fitlife-backend/1.0"

// Client holds configuration for the REST client.
type Client struct {
	BaseURL *url.URL

	userAgent string
	client    *http.Client
}

// NewClient returns a new REST API client. If a nil httpClient is provided,
// http.DefaultClient is used; pass a client with a Timeout set for calls
// that must be bounded.
func NewClient(baseURL *url.URL, cc *http.Client) *Client {
	if cc == nil {
		cc = http.DefaultClient
	}

	return &Client{BaseURL: baseURL, userAgent: userAgent, client: cc}
}

// NewRequest creates an HTTP Request. If a non-nil body is provided
// it will be JSON encoded and included in the request.
func (c *Client) NewRequest(ctx context.Context, method, urlStr string, body interface{}) (*http.Request, error) {
	u, err := c.BaseURL.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	var buf io.ReadWriter
	if body != nil {
		buf = new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err = enc.Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), buf)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// Do sends a request and returns the response. Anything other than a 2xx
// response code is treated as an error. If a response body is received it is
// decoded into the value pointed to by v.
func (c *Client) Do(req *http.Request, v interface{}) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return resp, err
	}

	if resp.StatusCode >= 300 {
		return resp, fmt.Errorf("request failed: %s", resp.Status)
	}

	if v != nil && len(data) != 0 {
		if err = json.Unmarshal(data, v); err != nil {
			return resp, fmt.Errorf("decoding response: %w", err)
		}
	}

	return resp, nil
}
