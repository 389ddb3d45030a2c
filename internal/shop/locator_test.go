package shop_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncline/catalog-sync-server/internal/shop"
)

func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

// graphqlQuery pulls the query string out of a GraphQL request body so the
// fake platform can dispatch on it.
func graphqlQuery(r *http.Request) string {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	return req.Query
}

func TestClient_Locate_Found(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/graphql.json":
			_, _ = w.Write([]byte(`{"data": {"productVariants": {"edges": [
				{"node": {
					"id": "gid://shop/ProductVariant/111",
					"sku": "SKU-1",
					"product": {"id": "gid://shop/Product/222"},
					"inventoryItem": {"id": "gid://shop/InventoryItem/333"}
				}}
			]}}}`))
		case r.URL.Path == "/locations.json":
			_, _ = w.Write([]byte(`{"locations": [{"id": 444}, {"id": 555}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	record, err := client.Locate(context.Background(), "SKU-1")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "222", record.ProductID)
	assert.Equal(t, "111", record.VariantID)
	assert.Equal(t, "333", record.InventoryItemID)
	assert.Equal(t, "444", record.LocationID)
}

func TestClient_Locate_NotFound(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"productVariants": {"edges": []}}}`))
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	record, err := client.Locate(context.Background(), "MISSING")

	require.NoError(t, err, "not-found must not be an error")
	assert.Nil(t, record)
}

func TestClient_Locate_PrefixMatchRejected(t *testing.T) {
	t.Parallel()

	// The platform search is prefix-based; a variant whose SKU merely
	// starts with the needle must not be treated as a match.
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/graphql.json" {
			_, _ = w.Write([]byte(`{"data": {"productVariants": {"edges": [
				{"node": {"id": "gid://shop/ProductVariant/1", "sku": "SKU-10", "product": {"id": "gid://shop/Product/2"}, "inventoryItem": {"id": "gid://shop/InventoryItem/3"}}}
			]}}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	record, err := client.Locate(context.Background(), "SKU-1")

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestClient_Locate_TransportError(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad token"))
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	record, err := client.Locate(context.Background(), "SKU-1")

	require.Error(t, err)
	assert.Nil(t, record)

	var locErr *shop.LocatorError
	require.ErrorAs(t, err, &locErr)
	assert.Equal(t, "SKU-1", locErr.SKU)
}

func TestClient_Locate_GraphQLErrors(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors": [{"message": "throttled"}]}`))
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	_, err := client.Locate(context.Background(), "SKU-1")

	var locErr *shop.LocatorError
	require.ErrorAs(t, err, &locErr)
	assert.Contains(t, err.Error(), "throttled")
}

func TestClient_Locate_LocationCachedAcrossLookups(t *testing.T) {
	t.Parallel()

	locationCalls := 0
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/graphql.json":
			query := graphqlQuery(r)
			require.True(t, strings.Contains(query, "productVariants"))
			_, _ = w.Write([]byte(`{"data": {"productVariants": {"edges": [
				{"node": {"id": "gid://shop/ProductVariant/1", "sku": "S", "product": {"id": "gid://shop/Product/2"}, "inventoryItem": {"id": "gid://shop/InventoryItem/3"}}}
			]}}}`))
		case "/locations.json":
			locationCalls++
			_, _ = w.Write([]byte(`{"locations": [{"id": 9}]}`))
		}
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	for range 3 {
		record, err := client.Locate(context.Background(), "S")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "9", record.LocationID)
	}

	assert.Equal(t, 1, locationCalls, "primary location must be cached after the first lookup")
}
