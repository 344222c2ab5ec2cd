// Package api exposes the listing service over HTTP with chi routing.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
)

// ListingHandler handles HTTP requests for listing builds
type ListingHandler struct {
	service  simplelisting.Service
	repo     simplelisting.Repository
	validate *validator.Validate
}

// NewListingHandler creates a new listing handler. The repository is
// used for kind labels only and may be nil.
func NewListingHandler(service simplelisting.Service, repo simplelisting.Repository) *ListingHandler {
	return &ListingHandler{
		service:  service,
		repo:     repo,
		validate: validator.New(),
	}
}

// Routes returns the routes for listings
func (h *ListingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetListing)
	r.Post("/", h.BuildListing)
	r.Get("/cache-metadata", h.GetCacheMetadata)

	return r
}

// ListingRequest is the request body for building a listing. Absent
// fields fall back to the block defaults.
type ListingRequest struct {
	BlockTitle       string   `json:"block_title,omitempty"`
	ContentTypes     []string `json:"content_types,omitempty" validate:"omitempty,dive,oneof=news events"`
	FilterByCategory bool     `json:"filter_by_category,omitempty"`
	CategoryTIDs     []int64  `json:"category_tids,omitempty" validate:"omitempty,dive,gt=0"`
	NumberOfItems    *int     `json:"number_of_items,omitempty" validate:"omitempty,min=1,max=20"`
	ImageStyle       string   `json:"image_style,omitempty"`
	DateFormat       string   `json:"date_format,omitempty"`
	ShowViewAll      bool     `json:"show_view_all,omitempty"`
	ViewAllURL       string   `json:"view_all_url,omitempty"`
	ViewAllText      string   `json:"view_all_text,omitempty"`
}

func (req ListingRequest) toBlockConfig() simplelisting.BlockConfig {
	cfg := simplelisting.DefaultBlockConfig()
	cfg.BlockTitle = req.BlockTitle
	if len(req.ContentTypes) > 0 {
		cfg.ContentTypes = req.ContentTypes
	}
	cfg.FilterByCategory = req.FilterByCategory
	cfg.CategoryTIDs = req.CategoryTIDs
	if req.NumberOfItems != nil {
		cfg.NumberOfItems = *req.NumberOfItems
	}
	if req.ImageStyle != "" {
		cfg.ImageStyle = req.ImageStyle
	}
	if req.DateFormat != "" {
		cfg.DateFormat = req.DateFormat
	}
	cfg.ShowViewAll = req.ShowViewAll
	if req.ViewAllURL != "" {
		cfg.ViewAllURL = req.ViewAllURL
	}
	if req.ViewAllText != "" {
		cfg.ViewAllText = req.ViewAllText
	}
	return cfg
}

// listingRequestFromQuery builds a ListingRequest from URL query
// parameters. Repeated content_type and category_tid parameters
// accumulate.
func listingRequestFromQuery(values url.Values) (ListingRequest, error) {
	var req ListingRequest

	req.BlockTitle = values.Get("block_title")
	req.ContentTypes = values["content_type"]
	req.ImageStyle = values.Get("image_style")
	req.DateFormat = values.Get("date_format")
	req.ViewAllURL = values.Get("view_all_url")
	req.ViewAllText = values.Get("view_all_text")

	for _, raw := range values["category_tid"] {
		tid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid category_tid %q", raw)
		}
		req.CategoryTIDs = append(req.CategoryTIDs, tid)
	}

	if raw := values.Get("filter_by_category"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("invalid filter_by_category %q", raw)
		}
		req.FilterByCategory = b
	}

	if raw := values.Get("show_view_all"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("invalid show_view_all %q", raw)
		}
		req.ShowViewAll = b
	}

	if raw := values.Get("number_of_items"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid number_of_items %q", raw)
		}
		req.NumberOfItems = &n
	}

	return req, nil
}

// GetListing builds a listing from query parameters
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	req, err := listingRequestFromQuery(r.URL.Query())
	if err != nil {
		slog.Error("Invalid listing query", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respondListing(w, r, req)
}

// BuildListing builds a listing from a JSON settings body
func (h *ListingHandler) BuildListing(w http.ResponseWriter, r *http.Request) {
	var req ListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode listing request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respondListing(w, r, req)
}

func (h *ListingHandler) respondListing(w http.ResponseWriter, r *http.Request, req ListingRequest) {
	if err := h.validate.Struct(req); err != nil {
		slog.Error("Invalid listing request", "error", err)
		http.Error(w, "Invalid listing request: "+err.Error(), http.StatusBadRequest)
		return
	}

	listing := h.service.BuildListing(r.Context(), req.toBlockConfig())

	slog.Info("Listing built", "items", len(listing.Items))
	render.JSON(w, r, listing)
}

// GetCacheMetadata returns the cache tags and contexts a listing with
// the given settings would carry, without building it.
func (h *ListingHandler) GetCacheMetadata(w http.ResponseWriter, r *http.Request) {
	req, err := listingRequestFromQuery(r.URL.Query())
	if err != nil {
		slog.Error("Invalid cache metadata query", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		slog.Error("Invalid cache metadata request", "error", err)
		http.Error(w, "Invalid cache metadata request: "+err.Error(), http.StatusBadRequest)
		return
	}

	meta := h.service.CacheMetadata(req.toBlockConfig())
	render.JSON(w, r, meta)
}

// KindResponse describes one supported content kind
type KindResponse struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// GetKinds lists the supported content kinds with their display labels
func (h *ListingHandler) GetKinds(w http.ResponseWriter, r *http.Request) {
	kinds := simplelisting.DefaultContentKinds()
	resp := make([]KindResponse, 0, len(kinds))
	for _, kind := range kinds {
		label := string(kind)
		if h.repo != nil {
			if l, err := h.repo.KindLabel(r.Context(), kind); err == nil {
				label = l
			}
		}
		resp = append(resp, KindResponse{Kind: string(kind), Label: label})
	}

	render.JSON(w, r, resp)
}
