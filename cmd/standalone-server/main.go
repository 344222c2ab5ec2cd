package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/api"
	"github.com/tendant/simple-listing/pkg/simplelisting/presets"
	fsstorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/fs"
)

// Standalone simple-listing server for quick testing
// Uses in-memory repository + filesystem storage (./dev-data)
// Pre-seeded with demo news and events, no database setup required

func main() {
	// Command-line flags
	portFlag := flag.String("port", "", "HTTP port (default: 4000)")
	storageDirFlag := flag.String("data-dir", "", "Storage directory (default: ./dev-data)")
	flag.Parse()

	// Configuration priority: CLI args > environment variables > defaults
	port := *portFlag
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "4000"
	}

	storageDir := *storageDirFlag
	if storageDir == "" {
		storageDir = os.Getenv("STORAGE_DIR")
	}
	if storageDir == "" {
		storageDir = "./dev-data"
	}

	log.Println("=== Simple Listing Standalone Server ===")
	log.Printf("  Mode: In-memory repository + filesystem storage")
	log.Printf("  Storage directory: %s", storageDir)
	log.Printf("  Port: %s", port)
	log.Println()

	// Initialize service with development preset
	svc, cleanup, err := presets.NewDevelopment(
		presets.WithDevStorage(storageDir),
	)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	defer cleanup()

	// Second handle on the same storage directory, used to serve the
	// seeded files over HTTP
	store, err := fsstorage.New(fsstorage.Config{BaseDir: storageDir})
	if err != nil {
		log.Fatalf("Failed to open storage directory: %v", err)
	}

	log.Println("✓ Service initialized with demo content")

	// Create HTTP server
	server := NewHTTPServer(svc, store, port, storageDir)

	// Create HTTP server instance
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: server.Routes(),
	}

	// Start server in goroutine
	go func() {
		log.Printf("✓ Server ready on http://localhost:%s", port)
		log.Println()
		log.Println("Available endpoints:")
		log.Println("  GET  /health                              - Health check")
		log.Println("  GET  /api/v1/listing                      - Build a listing (query params)")
		log.Println("  POST /api/v1/listing                      - Build a listing (JSON config)")
		log.Println("  GET  /api/v1/listing/cache-metadata       - Cache invalidation metadata")
		log.Println("  GET  /api/v1/kinds                        - Supported content kinds")
		log.Println("  POST /api/v1/files                        - Upload a file")
		log.Println("  GET  /files/{key}                         - Download a stored file")
		log.Println("  GET  /api/v1/test                         - Run end-to-end test")
		log.Println()
		log.Println("Quick test:")
		log.Printf("  curl http://localhost:%s/api/v1/test\n", port)
		log.Println()

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// HTTPServer wraps the simple-listing service
type HTTPServer struct {
	service    simplelisting.Service
	store      simplelisting.FileStore
	port       string
	storageDir string
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(service simplelisting.Service, store simplelisting.FileStore, port, storageDir string) *HTTPServer {
	return &HTTPServer{
		service:    service,
		store:      store,
		port:       port,
		storageDir: storageDir,
	}
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Health check
	r.Get("/health", s.handleHealth)

	listingHandler := api.NewListingHandler(s.service, nil)
	filesHandler := api.NewFilesHandler(s.store)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/listing", listingHandler.Routes())
		r.Get("/kinds", listingHandler.GetKinds)
		r.Mount("/files", filesHandler.Routes())

		// Test endpoint
		r.Get("/test", s.handleTest)
	})

	// Target of the default static URL strategy, so demo image URIs in
	// listing items resolve against this server
	r.Get("/files/*", filesHandler.DownloadFile)

	return r
}

// handleHealth returns health status
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "healthy",
		"mode":        "standalone",
		"storage_dir": s.storageDir,
		"port":        s.port,
	})
}

// handleTest runs an end-to-end test over the demo content
func (s *HTTPServer) handleTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	log.Println("=== Running End-to-End Test ===")

	// Step 1: Build a listing with the default configuration
	log.Println("Step 1: Building default listing...")

	defaultListing := s.service.BuildListing(ctx, simplelisting.DefaultBlockConfig())
	if len(defaultListing.Items) == 0 {
		log.Println("No items in default listing, demo content missing")
		http.Error(w, "Default listing returned no items", http.StatusInternalServerError)
		return
	}

	log.Printf("✓ Default listing built: %d item(s)", len(defaultListing.Items))
	for _, item := range defaultListing.Items {
		log.Printf("  - [%s] %s (%s)", item.KindLabel, item.Title, item.Date)
	}

	// Step 2: Build a news-only listing with a view-all link
	log.Println("Step 2: Building news-only listing...")

	newsConfig := simplelisting.DefaultBlockConfig()
	newsConfig.BlockTitle = "Latest News"
	newsConfig.ContentTypes = []string{string(simplelisting.KindNews)}
	newsConfig.ShowViewAll = true
	newsConfig.ViewAllURL = "/news"

	newsListing := s.service.BuildListing(ctx, newsConfig)
	if len(newsListing.Items) == 0 {
		log.Println("No items in news listing, demo content missing")
		http.Error(w, "News listing returned no items", http.StatusInternalServerError)
		return
	}

	log.Printf("✓ News listing built: %d item(s)", len(newsListing.Items))
	if newsListing.ViewAll != nil {
		log.Printf("  View all -> %s (%s)", newsListing.ViewAll.URL, newsListing.ViewAll.Text)
	}

	// Step 3: Check summary and image fallbacks on the normalized items
	log.Println("Step 3: Checking normalized item fields...")

	withSummary := 0
	withImage := 0
	imageURI := ""
	for _, item := range defaultListing.Items {
		if item.Summary != nil {
			withSummary++
		}
		if item.Image != nil {
			withImage++
			imageURI = item.Image.URI
		}
	}

	log.Printf("✓ Items with summary: %d/%d", withSummary, len(defaultListing.Items))
	log.Printf("✓ Items with image: %d/%d", withImage, len(defaultListing.Items))
	if imageURI != "" {
		log.Printf("  Image URI: %s", imageURI)
	}

	// Step 4: Compute cache metadata
	log.Println("Step 4: Computing cache metadata...")

	cache := s.service.CacheMetadata(newsConfig)
	log.Printf("✓ Cache tags: %v", cache.Tags)
	log.Printf("✓ Cache contexts: %v", cache.Contexts)

	log.Println("=== Test Complete ===")

	// Return test results
	response := map[string]interface{}{
		"test_status":        "success",
		"default_item_count": len(defaultListing.Items),
		"news_item_count":    len(newsListing.Items),
		"items_with_summary": withSummary,
		"items_with_image":   withImage,
		"cache":              cache,
		"news_listing":       newsListing,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
