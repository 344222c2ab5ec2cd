package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/admin"
	"github.com/tendant/simple-listing/pkg/simplelisting/api"
	"github.com/tendant/simple-listing/pkg/simplelisting/config"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	// Load configuration from environment
	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	setupLogging(serverConfig)

	// Build shared collaborators once so the listing service and the
	// admin service reuse the same database pool
	repo, err := serverConfig.BuildRepository()
	if err != nil {
		log.Fatalf("Failed to build repository: %v", err)
	}

	store, err := serverConfig.BuildFileStore()
	if err != nil {
		log.Fatalf("Failed to build file store: %v", err)
	}

	metrics := api.NewMetrics("simple_listing")

	svc, err := serverConfig.BuildServiceWith(repo, store,
		simplelisting.WithHooks(simplelisting.MetricsHooks(metrics)))
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	// Create HTTP server
	server := NewHTTPServer(svc, repo, store, metrics, serverConfig)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: server.Routes(),
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Listing server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.StorageType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}

// setupLogging installs the default slog logger. Production gets JSON
// output for log shipping, everything else stays human readable.
func setupLogging(serverConfig *config.ServerConfig) {
	var handler slog.Handler
	if serverConfig.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// HTTPServer wraps the listing service for HTTP access
type HTTPServer struct {
	service simplelisting.Service
	repo    simplelisting.Repository
	store   simplelisting.FileStore
	metrics *api.Metrics
	config  *config.ServerConfig
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(service simplelisting.Service, repo simplelisting.Repository, store simplelisting.FileStore, metrics *api.Metrics, serverConfig *config.ServerConfig) *HTTPServer {
	return &HTTPServer{
		service: service,
		repo:    repo,
		store:   store,
		metrics: metrics,
		config:  serverConfig,
	}
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(api.RequestID)
	r.Use(api.Logger(slog.Default()))
	r.Use(api.Recoverer)
	r.Use(s.metrics.Middleware)

	// CORS for development
	if s.config.Environment == "development" {
		r.Use(devCORS)
	}

	listingHandler := api.NewListingHandler(s.service, s.repo)
	filesHandler := api.NewFilesHandler(s.store)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/listing", listingHandler.Routes())
		r.Get("/kinds", listingHandler.GetKinds)
		r.Mount("/files", filesHandler.Routes())

		if s.config.EnableAdminAPI {
			adminHandler := api.NewAdminHandler(admin.New(s.repo))
			r.Mount("/admin", adminHandler.Routes())
		}
	})

	// Serve stored files directly. This is the target of the static URL
	// strategy, so listing image URIs resolve against the same server.
	r.Get("/files/*", filesHandler.DownloadFile)

	// Probes and metrics
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Health check endpoint
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status": "healthy", "environment": "%s"}`, s.config.Environment)
}

// Readiness endpoint. With a postgres backend this checks the database
// so load balancers stop routing when the pool is unreachable.
func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.config.DatabaseType == config.DatabasePostgres {
		if err := config.PingPostgres(r.Context(), s.config.DatabaseURL); err != nil {
			slog.Error("Readiness check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status": "ready"}`)
}

func devCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
