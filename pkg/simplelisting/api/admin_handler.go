package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/admin"
)

// AdminHandler exposes the admin service over HTTP. Unlike the listing
// endpoints it sees unpublished records, so hosts should mount it
// behind their own access control.
type AdminHandler struct {
	admin admin.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService admin.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// Routes returns the routes for admin content access
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/contents", h.ListContents)
	r.Get("/contents/count", h.CountContents)
	r.Get("/contents/statistics", h.GetStatistics)

	return r
}

// ListContents returns a filtered page of content records
func (h *AdminHandler) ListContents(w http.ResponseWriter, r *http.Request) {
	filters, err := adminFiltersFromQuery(r.URL.Query())
	if err != nil {
		slog.Error("Invalid admin filters", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.admin.ListAllContents(r.Context(), admin.ListContentsRequest{Filters: filters})
	if err != nil {
		slog.Error("Failed to list contents", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, resp)
}

// CountContents returns the number of content records matching the filters
func (h *AdminHandler) CountContents(w http.ResponseWriter, r *http.Request) {
	filters, err := adminFiltersFromQuery(r.URL.Query())
	if err != nil {
		slog.Error("Invalid admin filters", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.admin.CountContents(r.Context(), admin.CountRequest{Filters: filters})
	if err != nil {
		slog.Error("Failed to count contents", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, resp)
}

// GetStatistics returns aggregate statistics for the content store
func (h *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	filters, err := adminFiltersFromQuery(r.URL.Query())
	if err != nil {
		slog.Error("Invalid admin filters", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.admin.GetStatistics(r.Context(), admin.StatisticsRequest{
		Filters: filters,
		Options: admin.DefaultStatisticsOptions(),
	})
	if err != nil {
		slog.Error("Failed to get statistics", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, resp)
}

func adminFiltersFromQuery(values url.Values) (admin.ContentFilters, error) {
	var filters admin.ContentFilters

	for _, raw := range values["kind"] {
		filters.Kinds = append(filters.Kinds, simplelisting.ContentKind(raw))
	}
	for _, raw := range values["status"] {
		filters.Statuses = append(filters.Statuses, simplelisting.PublishStatus(raw))
	}
	for _, raw := range values["term_id"] {
		tid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid term_id %q", raw)
		}
		filters.TermIDs = append(filters.TermIDs, tid)
	}

	if raw := values.Get("created_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, fmt.Errorf("invalid created_after %q (want RFC 3339)", raw)
		}
		filters.CreatedAfter = &t
	}
	if raw := values.Get("created_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filters, fmt.Errorf("invalid created_before %q (want RFC 3339)", raw)
		}
		filters.CreatedBefore = &t
	}

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filters, fmt.Errorf("invalid limit %q", raw)
		}
		filters.Limit = &n
	}
	if raw := values.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filters, fmt.Errorf("invalid offset %q", raw)
		}
		filters.Offset = &n
	}

	if raw := values.Get("sort_by"); raw != "" {
		filters.SortBy = &raw
	}
	if raw := values.Get("sort_order"); raw != "" {
		filters.SortOrder = &raw
	}

	return filters, nil
}
