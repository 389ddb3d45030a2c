package shop_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncline/catalog-sync-server/internal/shop"
)

func TestClient_Publish_Success(t *testing.T) {
	t.Parallel()

	var gotVariables map[string]any
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotVariables = req.Variables

		_, _ = w.Write([]byte(`{"data": {"publishablePublish": {"userErrors": []}}}`))
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	ok, err := client.Publish(context.Background(), "777", "gid://shop/Publication/1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "gid://shop/Product/777", gotVariables["id"])
}

func TestClient_Publish_ValidationError(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"publishablePublish": {"userErrors": [
			{"field": ["input"], "message": "already published"}
		]}}}`))
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	ok, err := client.Publish(context.Background(), "777", "chan-1")

	require.NoError(t, err, "a platform validation error is not a transport error")
	assert.False(t, ok)
}

func TestClient_Publish_TransportError(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	ok, err := client.Publish(context.Background(), "777", "chan-1")

	assert.False(t, ok)

	var pubErr *shop.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "777", pubErr.ProductID)
	assert.Equal(t, "chan-1", pubErr.ChannelID)
}

func TestClient_ListChannels(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"publications": {"edges": [
			{"node": {"id": "gid://shop/Publication/1", "name": "Online Store", "supportsFuturePublishing": true}},
			{"node": {"id": "gid://shop/Publication/2", "name": "POS", "supportsFuturePublishing": false}}
		]}}}`))
	}))
	defer server.Close()

	client := shop.NewClient("example.test", "token", "2024-01", shop.WithBaseURL(server.URL))

	channels, err := client.ListChannels(context.Background())

	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "Online Store", channels[0].Name)
	assert.True(t, channels[0].SupportsFuturePublishing)
	assert.Equal(t, "gid://shop/Publication/2", channels[1].ID)
	assert.False(t, channels[1].SupportsFuturePublishing)
}
