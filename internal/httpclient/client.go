// Package httpclient provides HTTP client functionality for API operations
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response size (20MB)
	MaxResponseSize = 20 * 1024 * 1024

	// UserAgent is the user agent string for HTTP requests
	UserAgent = "catalog-sync-server/1.0"
)

// Client is an interface for HTTP operations
type Client interface {
	// Get performs an HTTP GET request and returns the response body
	Get(ctx context.Context, url string) ([]byte, error)

	// Post performs an HTTP POST request with a JSON body
	Post(ctx context.Context, url string, body []byte) ([]byte, error)

	// Put performs an HTTP PUT request with a JSON body
	Put(ctx context.Context, url string, body []byte) ([]byte, error)
}

// DefaultClient is the default HTTP client implementation
type DefaultClient struct {
	client  *http.Client
	headers map[string]string
}

// ClientOption configures a DefaultClient
type ClientOption func(*DefaultClient)

// WithTimeout overrides the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.client.Timeout = timeout
	}
}

// WithHeader adds a header sent with every request, e.g. an auth token
func WithHeader(key, value string) ClientOption {
	return func(c *DefaultClient) {
		c.headers[key] = value
	}
}

// NewDefaultClient creates a new default HTTP client
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	c := &DefaultClient{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil)
}

// Post performs an HTTP POST request with a JSON body
func (c *DefaultClient) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, url, body)
}

// Put performs an HTTP PUT request with a JSON body
func (c *DefaultClient) Put(ctx context.Context, url string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPut, url, body)
}

func (c *DefaultClient) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Read response body with size limit. +1 to detect if the limit
	// was exceeded.
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	respBody, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(respBody)) > MaxResponseSize {
		return nil, fmt.Errorf("response size exceeds maximum allowed size of %d bytes", MaxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := resp.Status
		if len(respBody) > 0 {
			message = string(respBody)
		}
		return nil, NewHTTPError(resp.StatusCode, url, message)
	}

	return respBody, nil
}
