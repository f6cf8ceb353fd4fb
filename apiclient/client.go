// Package apiclient is the single choke point for calls to the auth backend.
// Every authenticated request flows through it so cookies, the CSRF header,
// and JSON defaults are applied in exactly one place.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/devhire/authkit/csrf"
)

// Client wraps an http.Client with a cookie jar (the session cookie travels
// automatically, the Go rendition of credentials: include) and attaches the
// CSRF header to state-changing methods only.
type Client struct {
	baseURL string
	http    *http.Client
	csrf    *csrf.TokenStore
}

// New creates a Client rooted at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "[apiclient.New] creating cookie jar")
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Jar:     jar,
	}

	trimmed := strings.TrimSuffix(baseURL, "/")
	return &Client{
		baseURL: trimmed,
		http:    httpClient,
		csrf:    csrf.NewTokenStore(trimmed, httpClient),
	}, nil
}

// CSRF exposes the token store so session lifecycle events can invalidate it.
func (c *Client) CSRF() *csrf.TokenStore {
	return c.csrf
}

// Do sends a JSON request to the backend. body may be nil. It never interprets
// the response beyond transport success: HTTP errors come back as responses
// for the caller to classify, transport failures as errors.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.Do] encoding request body")
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Do] building request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// The CSRF header only guards state-changing methods. A missing token is
	// not an error here: the request goes out bare and the server decides.
	if isMutating(method) {
		if token := c.csrf.Token(ctx); token != "" {
			req.Header.Set("X-CSRF-Token", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.Do] %s %s", method, path)
	}
	return resp, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
