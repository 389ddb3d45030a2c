package httpclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncline/catalog-sync-server/internal/httpclient"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		url           string
		message       string
		expectedError string
		errorContains []string
	}{
		{
			name:          "create HTTPError with all fields",
			statusCode:    404,
			url:           "http://example.com",
			message:       "Not Found",
			expectedError: "HTTP 404 for URL http://example.com: Not Found",
			errorContains: []string{"HTTP 404", "http://example.com", "Not Found"},
		},
		{
			name:          "format error message correctly for 500",
			statusCode:    500,
			url:           "http://api.example.com/v1/data",
			message:       "Internal Server Error",
			expectedError: "HTTP 500 for URL http://api.example.com/v1/data: Internal Server Error",
		},
		{
			name:          "handle empty message",
			statusCode:    404,
			url:           "http://example.com",
			message:       "",
			expectedError: "HTTP 404 for URL http://example.com: ",
		},
		{
			name:          "handle 429 Too Many Requests status code",
			statusCode:    429,
			url:           "http://test.com",
			message:       "Too Many Requests",
			errorContains: []string{"HTTP 429", "Too Many Requests"},
		},
		{
			name:          "handle 401 Unauthorized status code",
			statusCode:    401,
			url:           "http://test.com",
			message:       "Unauthorized",
			errorContains: []string{"Unauthorized"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpclient.NewHTTPError(tt.statusCode, tt.url, tt.message)

			require.Error(t, err)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, err.Error())
			}

			for _, contains := range tt.errorContains {
				assert.Contains(t, err.Error(), contains)
			}
		})
	}
}

func TestHTTPError_StatusCodeAccessible(t *testing.T) {
	t.Parallel()

	err := httpclient.NewHTTPError(422, "http://example.com", "Unprocessable Entity")

	require.Error(t, err)
	assert.Equal(t, 422, err.StatusCode)
	assert.Equal(t, "http://example.com", err.URL)
}
