// Package v0 provides the REST API handlers for the catalog sync service.
package v0

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/syncline/catalog-sync-server/internal/catalog"
	"github.com/syncline/catalog-sync-server/internal/logger"
	"github.com/syncline/catalog-sync-server/internal/sync"
	"github.com/syncline/catalog-sync-server/internal/versions"
)

// SyncRequest is the request body for a sync run. A null or empty
// channelIds skips publication entirely.
type SyncRequest struct {
	ChannelIDs []string `json:"channelIds"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes defines the routes for the sync API with dependency injection
type Routes struct {
	service sync.Service
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc sync.Service) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates a new router for the sync API
func Router(svc sync.Service) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Post("/sync", routes.runSync)
	r.Get("/channels", routes.listChannels)

	return r
}

// runSync handles POST /api/v0/sync
func (rr *Routes) runSync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rr.writeErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := rr.service.RunSync(r.Context(), req.ChannelIDs)
	if err != nil {
		logger.Errorf("Sync run aborted: %v", err)

		// A fetch failure still carries the progress log collected so far
		var fetchErr *catalog.FetchError
		if errors.As(err, &fetchErr) {
			rr.writeJSONResponse(w, result, http.StatusBadGateway)
			return
		}
		rr.writeErrorResponse(w, "Sync run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rr.writeJSONResponse(w, result, http.StatusOK)
}

// listChannels handles GET /api/v0/channels
func (rr *Routes) listChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := rr.service.ListChannels(r.Context())
	if err != nil {
		logger.Errorf("Failed to list channels: %v", err)
		rr.writeErrorResponse(w, "Failed to list sales channels", http.StatusBadGateway)
		return
	}

	rr.writeJSONResponse(w, channels, http.StatusOK)
}

// HealthRouter creates a router for health check endpoints
func HealthRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		logger.Errorf("Failed to encode version info: %v", err)
	}
}

// writeJSONResponse writes a JSON response with the given data
func (*Routes) writeJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func (*Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := ErrorResponse{
		Error: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		logger.Errorf("Failed to encode error response: %v", err)
	}
}
