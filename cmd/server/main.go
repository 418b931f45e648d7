// Package main is the entry point for the course schedule exporter
// server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/course-exporter/backend/internal/api"
	"github.com/course-exporter/backend/internal/api/middleware"
	"github.com/course-exporter/backend/internal/catalog"
	"github.com/course-exporter/backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	// Load .env before flags so env-backed defaults pick it up
	godotenv.Load()

	addr := flag.String("addr", ":8080", "HTTP server address")
	catalogURL := flag.String("catalog-url", envOr("CATALOG_API_URL", "https://opendata.concordia.ca/API/v1"), "Open-data catalog API base URL")
	catalogUser := flag.String("catalog-user", os.Getenv("CATALOG_API_USER"), "Catalog API username")
	catalogKey := flag.String("catalog-key", os.Getenv("CATALOG_API_KEY"), "Catalog API key")
	cacheTTL := flag.Duration("cache-ttl", 10*time.Minute, "Catalog response cache TTL")
	ratePerMin := flag.Int("rate", 120, "Requests per minute allowed per client")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(*addr); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting course schedule exporter (version: %s)...", version)

	// Catalog client with TTL cache and periodic eviction
	cache := catalog.NewCache(*cacheTTL)
	cache.StartJanitor()
	client := catalog.NewClient(*catalogURL, *catalogUser, *catalogKey, cache)

	hub := websocket.NewHub()
	limiter := middleware.NewRateLimiter(*ratePerMin, *ratePerMin/4)

	router := api.NewRouter(client, cache, hub, limiter)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cache.StopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	resp, err := http.Get("http://localhost" + addr + "/api/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
