// Package client implements a small JSON client for the official Strava REST API.
//
// Request signing is delegated to the supplied *http.Client, normally one built
// by golang.org/x/oauth2.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lildude/stravaweb/internal/weberr"
)

var userAgent = "stravaweb/0.1"

// Client holds configuration items for the REST client and provides methods that interact with the REST API.
type Client struct {
	BaseURL *url.URL

	userAgent string
	client    *http.Client
}

// NewClient returns a new REST API client. If a nil httpClient is
// provided, http.DefaultClient will be used.
func NewClient(baseURL *url.URL, cc *http.Client) *Client {
	if cc == nil {
		cc = http.DefaultClient
	}
	// Relative paths resolve under the base path only with a trailing slash.
	if u := *baseURL; len(u.Path) == 0 || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
		baseURL = &u
	}

	return &Client{BaseURL: baseURL, userAgent: userAgent, client: cc}
}

// NewRequest creates an HTTP Request relative to BaseURL. If a non-nil body is
// provided it will be JSON encoded and included in the request.
func (c *Client) NewRequest(ctx context.Context, method, urlStr string, body any) (*http.Request, error) {
	u, err := c.BaseURL.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	var buf io.ReadWriter
	if body != nil {
		buf = new(bytes.Buffer)
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(body); err != nil {
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

// Do sends a request and decodes a JSON response body into v. Anything other
// than a 2xx status is returned as a *weberr.RemoteError alongside the response.
func (c *Client) Do(req *http.Request, v any) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, weberr.Remote(resp.StatusCode, fmt.Sprintf("%s %s", req.Method, req.URL.Path))
	}

	if v != nil && len(data) != 0 {
		if err := json.Unmarshal(data, v); err != nil {
			return resp, fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
		}
	}

	return resp, nil
}
