// Package shop talks to the commerce platform the catalog is reconciled
// into. The platform exposes two API surfaces: a GraphQL endpoint for
// search, channel listing, and publishing, and a REST endpoint for product,
// variant, and inventory writes. Both are wrapped by one Client.
package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/syncline/catalog-sync-server/internal/httpclient"
)

// AccessTokenHeader authenticates admin API requests
const AccessTokenHeader = "X-Shop-Access-Token"

// Client is the commerce platform API client.
type Client struct {
	httpClient httpclient.Client
	graphqlURL string
	restURL    string

	// locationMu guards locationID, the cached primary fulfillment
	// location. Populated once per client, first successful lookup wins.
	locationMu sync.Mutex
	locationID string
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL points the client at an explicit base URL instead of the
// https://{domain} default, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(cl *Client) {
		cl.graphqlURL = baseURL + "/graphql.json"
		cl.restURL = baseURL
	}
}

// NewClient creates a commerce platform client for the given shop domain,
// authenticated with the admin API access token.
func NewClient(domain, token, apiVersion string, opts ...Option) *Client {
	base := fmt.Sprintf("https://%s/admin/api/%s", domain, apiVersion)
	c := &Client{
		httpClient: httpclient.NewDefaultClient(
			httpclient.WithHeader(AccessTokenHeader, token),
		),
		graphqlURL: base + "/graphql.json",
		restURL:    base,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// graphQLRequest is the wire shape of a GraphQL call
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphql executes a query against the GraphQL endpoint and returns the
// parsed response. A non-empty top-level errors array is an error.
func (c *Client) graphql(ctx context.Context, query string, variables map[string]any) (gjson.Result, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	body, err := c.httpClient.Post(ctx, c.graphqlURL, payload)
	if err != nil {
		return gjson.Result{}, err
	}

	parsed := gjson.ParseBytes(body)
	if errs := parsed.Get("errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return gjson.Result{}, fmt.Errorf("GraphQL error: %s", errs.Get("0.message").String())
	}

	return parsed.Get("data"), nil
}

// rest builds a REST endpoint URL
func (c *Client) rest(path string) string {
	return c.restURL + path
}

// primaryLocation returns the shop's primary fulfillment-location id,
// fetching and caching it on first use. Stale-cache invalidation is out of
// scope; a client lives for one process.
func (c *Client) primaryLocation(ctx context.Context) (string, error) {
	c.locationMu.Lock()
	defer c.locationMu.Unlock()

	if c.locationID != "" {
		return c.locationID, nil
	}

	body, err := c.httpClient.Get(ctx, c.rest("/locations.json"))
	if err != nil {
		return "", fmt.Errorf("failed to list locations: %w", err)
	}

	id := gjson.GetBytes(body, "locations.0.id")
	if !id.Exists() {
		return "", fmt.Errorf("shop has no fulfillment locations")
	}

	c.locationID = id.String()
	return c.locationID, nil
}
