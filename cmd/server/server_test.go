package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/api"
	"github.com/tendant/simple-listing/pkg/simplelisting/config"
	memoryrepo "github.com/tendant/simple-listing/pkg/simplelisting/repo/memory"
	memorystorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/memory"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	repo := memoryrepo.New()
	repo.SeedKindLabels(map[simplelisting.ContentKind]string{
		simplelisting.KindNews:   "News",
		simplelisting.KindEvents: "Event",
	})
	repo.SeedContent(&simplelisting.ContentRecord{
		ID:        uuid.New(),
		Kind:      simplelisting.KindNews,
		Title:     "Server Test Story",
		Status:    simplelisting.StatusPublished,
		Date:      "2024-07-01",
		URL:       "/news/server-test-story",
		CreatedAt: time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC),
	})

	store := memorystorage.New()
	svc, err := simplelisting.New(
		simplelisting.WithRepository(repo),
		simplelisting.WithFileStore(store),
	)
	if err != nil {
		t.Fatalf("service create error: %v", err)
	}

	metrics := api.NewMetricsWith(prometheus.NewRegistry(), "simple_listing_test")
	cfg := &config.ServerConfig{
		Environment:    "testing",
		DatabaseType:   config.DatabaseMemory,
		StorageType:    config.StorageMemory,
		EnableAdminAPI: true,
	}
	return NewHTTPServer(svc, repo, store, metrics, cfg)
}

func doGet(t *testing.T, ts *HTTPServer, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	ts.Routes().ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t)

	rr := doGet(t, ts, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("healthy")) {
		t.Fatalf("unexpected health body: %s", rr.Body.String())
	}

	// Memory backend has nothing to ping, readiness is immediate
	rr = doGet(t, ts, "/readyz")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestListingEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := doGet(t, ts, "/api/v1/listing?number_of_items=5")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var listing simplelisting.Listing
	if err := json.Unmarshal(rr.Body.Bytes(), &listing); err != nil {
		t.Fatalf("invalid listing response: %v, body=%s", err, rr.Body.String())
	}
	if len(listing.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(listing.Items))
	}
	if listing.Items[0].Title != "Server Test Story" {
		t.Fatalf("unexpected item title: %q", listing.Items[0].Title)
	}
}

func TestKindsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := doGet(t, ts, "/api/v1/kinds")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var kinds []api.KindResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &kinds); err != nil {
		t.Fatalf("invalid kinds response: %v, body=%s", err, rr.Body.String())
	}
	if len(kinds) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(kinds))
	}
}

func TestAdminMountToggle(t *testing.T) {
	ts := newTestServer(t)

	rr := doGet(t, ts, "/api/v1/admin/contents")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin enabled, got %d: %s", rr.Code, rr.Body.String())
	}

	ts.config.EnableAdminAPI = false
	rr = doGet(t, ts, "/api/v1/admin/contents")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with admin disabled, got %d", rr.Code)
	}
}

func TestFileUploadAndStaticDownload(t *testing.T) {
	ts := newTestServer(t)

	// Upload via the files API
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("key", "docs/note.txt"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fw, err := mw.CreateFormFile("file", "note.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("server roundtrip")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	ts.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	// Download through the static files mount
	rr = doGet(t, ts, "/files/docs/note.txt")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "server roundtrip" {
		t.Fatalf("unexpected download body: %q", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := doGet(t, ts, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
