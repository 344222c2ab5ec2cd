package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/admin"
	"github.com/tendant/simple-listing/pkg/simplelisting/repo/memory"
)

// setupAdminHandlerTest seeds a repository with a mix of published and
// unpublished records. The admin surface must see all of them.
func setupAdminHandlerTest(t *testing.T) *AdminHandler {
	repo := memory.New()

	base := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	repo.SeedContent(
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindNews,
			Title:     "Budget Approved",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-06-01",
			CreatedAt: base,
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindNews,
			Title:     "New Provost Announced",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-06-03",
			CreatedAt: base.AddDate(0, 0, 2),
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindEvents,
			Title:     "Draft Orientation Schedule",
			Status:    simplelisting.StatusUnpublished,
			Date:      "2024-08-20",
			CreatedAt: base.AddDate(0, 0, 4),
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindEvents,
			Title:     "Homecoming Weekend",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-10-11",
			EndDate:   "2024-10-13",
			CreatedAt: base.AddDate(0, 0, 6),
		},
	)

	return NewAdminHandler(admin.New(repo))
}

func TestAdminHandler_ListContents_IncludesUnpublished(t *testing.T) {
	handler := setupAdminHandlerTest(t)

	req := httptest.NewRequest("GET", "/contents", nil)
	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp admin.ListContentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.Contents, 4)
	assert.Equal(t, 100, resp.Limit)
	assert.Equal(t, 0, resp.Offset)
	assert.False(t, resp.HasMore)

	titles := make([]string, 0, len(resp.Contents))
	for _, record := range resp.Contents {
		titles = append(titles, record.Title)
	}
	assert.Contains(t, titles, "Draft Orientation Schedule")
}

func TestAdminHandler_ListContents_Pagination(t *testing.T) {
	handler := setupAdminHandlerTest(t)

	req := httptest.NewRequest("GET", "/contents?limit=2&offset=1&sort_by=created_at&sort_order=asc", nil)
	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp admin.ListContentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Contents, 2)
	assert.Equal(t, "New Provost Announced", resp.Contents[0].Title)
	assert.Equal(t, "Draft Orientation Schedule", resp.Contents[1].Title)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, 1, resp.Offset)
	assert.True(t, resp.HasMore)
}

func TestAdminHandler_ListContents_StatusFilter(t *testing.T) {
	handler := setupAdminHandlerTest(t)

	req := httptest.NewRequest("GET", "/contents?status=unpublished", nil)
	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp admin.ListContentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Contents, 1)
	assert.Equal(t, "Draft Orientation Schedule", resp.Contents[0].Title)
}

func TestAdminHandler_CountContents(t *testing.T) {
	handler := setupAdminHandlerTest(t)

	req := httptest.NewRequest("GET", "/contents/count?kind=news", nil)
	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp admin.CountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Count)
}

func TestAdminHandler_GetStatistics(t *testing.T) {
	handler := setupAdminHandlerTest(t)

	req := httptest.NewRequest("GET", "/contents/statistics", nil)
	w := httptest.NewRecorder()
	handler.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp admin.StatisticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(4), resp.Statistics.TotalCount)
	assert.Equal(t, int64(2), resp.Statistics.ByKind["news"])
	assert.Equal(t, int64(2), resp.Statistics.ByKind["events"])
	assert.Equal(t, int64(3), resp.Statistics.ByStatus["published"])
	assert.Equal(t, int64(1), resp.Statistics.ByStatus["unpublished"])
	require.NotNil(t, resp.Statistics.OldestContent)
	require.NotNil(t, resp.Statistics.NewestContent)
	assert.False(t, resp.ComputedAt.IsZero())
}

func TestAdminHandler_InvalidFilters(t *testing.T) {
	handler := setupAdminHandlerTest(t)

	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric term_id", "/contents?term_id=campus"},
		{"malformed created_after", "/contents?created_after=yesterday"},
		{"negative limit", "/contents?limit=-1"},
		{"non-numeric offset", "/contents/count?offset=two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.query, nil)
			w := httptest.NewRecorder()
			handler.Routes().ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
