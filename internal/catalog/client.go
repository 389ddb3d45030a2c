// Package catalog reads and normalizes product records from the
// inventory-management platform that is the source of truth for the sync.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/syncline/catalog-sync-server/internal/httpclient"
	"github.com/syncline/catalog-sync-server/internal/logger"
)

// includedRelations are the sub-resources inlined into the product fetch
// so the whole catalog is read in a single request.
const includedRelations = "images,inventoryLines,category,vendor"

// Client fetches product records from the catalog API.
type Client struct {
	httpClient  httpclient.Client
	endpoint    string
	companyID   string
	useListings bool
	pageSize    int
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithListingsEndpoint selects the productlistings endpoint (flat image
// fields) instead of the products endpoint (relationship-included objects)
func WithListingsEndpoint(useListings bool) Option {
	return func(cl *Client) {
		cl.useListings = useListings
	}
}

// WithPageSize caps the number of records fetched per request
func WithPageSize(size int) Option {
	return func(cl *Client) {
		if size > 0 {
			cl.pageSize = size
		}
	}
}

// NewClient creates a catalog API client authenticated with the given
// bearer token.
func NewClient(endpoint, companyID, token string, opts ...Option) *Client {
	c := &Client{
		httpClient: httpclient.NewDefaultClient(
			httpclient.WithHeader("Authorization", "Bearer "+token),
		),
		endpoint:  trimTrailingSlash(endpoint),
		companyID: companyID,
		pageSize:  100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProducts retrieves all active catalog records in one bounded fetch
// and normalizes them. The returned slice keeps records without a SKU; the
// engine decides what to do with them. Failure is a *FetchError and aborts
// the whole run.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	fetchURL := c.buildURL()

	body, err := c.httpClient.Get(ctx, fetchURL)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &FetchError{StatusCode: httpErr.StatusCode, Message: httpErr.Message, Err: err}
		}
		return nil, &FetchError{Message: err.Error(), Err: err}
	}

	if !gjson.ValidBytes(body) {
		return nil, &FetchError{Message: "response is not valid JSON"}
	}

	records := extractRecords(gjson.ParseBytes(body))
	logger.Debugf("Fetched %d catalog records from %s", len(records), fetchURL)

	return NormalizeAll(records), nil
}

func (c *Client) buildURL() string {
	resource := "products"
	if c.useListings {
		resource = "productlistings"
	}

	params := url.Values{}
	params.Set("include", includedRelations)
	params.Set("count", fmt.Sprintf("%d", c.pageSize))
	params.Set("filter[isActive]", "true")

	return fmt.Sprintf("%s/%s/%s?%s", c.endpoint, c.companyID, resource, params.Encode())
}

// extractRecords accepts both payload generations: a bare record array, or
// an object wrapping the array under a well-known key.
func extractRecords(root gjson.Result) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	for _, key := range []string{"products", "productlistings", "items", "data"} {
		if arr := root.Get(key); arr.IsArray() {
			return arr.Array()
		}
	}
	return nil
}

func trimTrailingSlash(s string) string {
	if len(s) > 0 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}
