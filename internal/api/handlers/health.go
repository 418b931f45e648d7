// Package handlers provides HTTP request handlers for the API
// endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/course-exporter/backend/internal/catalog"
	"github.com/course-exporter/backend/internal/websocket"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status       string `json:"status"`
	CacheEntries int    `json:"cache_entries"`
	WSClients    int    `json:"ws_clients"`
}

// HealthCheck reports liveness plus catalog-cache and WebSocket stats.
func HealthCheck(cache *catalog.Cache, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{Status: "healthy"}
		if cache != nil {
			response.CacheEntries = cache.Len()
		}
		if hub != nil {
			response.WSClients = hub.ClientCount()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
