// Package api provides HTTP routing for the schedule-export service.
package api

import (
	"github.com/gorilla/mux"

	"github.com/course-exporter/backend/internal/api/handlers"
	"github.com/course-exporter/backend/internal/api/middleware"
	"github.com/course-exporter/backend/internal/catalog"
	"github.com/course-exporter/backend/internal/websocket"
)

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(client *catalog.Client, cache *catalog.Cache, hub *websocket.Hub, limiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)
	r.Use(middleware.CORS)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()
	if limiter != nil {
		api.Use(limiter.Limit)
	}

	api.HandleFunc("/health", handlers.HealthCheck(cache, hub)).Methods("GET")

	// WebSocket progress stream
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(hub)).Methods("GET")

	// Page extraction and course lookup
	api.HandleFunc("/extract-courses", handlers.ExtractCourses()).Methods("POST", "OPTIONS")
	api.HandleFunc("/courses/{subject}/{catalog}", handlers.GetCourse(client)).Methods("GET")

	// Schedule generation and export
	api.HandleFunc("/generate-schedule", handlers.GenerateSchedule(client, hub)).Methods("POST", "OPTIONS")
	api.HandleFunc("/generate-csv", handlers.GenerateCSV()).Methods("POST", "OPTIONS")
	api.HandleFunc("/generate-ics", handlers.GenerateICS()).Methods("POST", "OPTIONS")

	return r
}
