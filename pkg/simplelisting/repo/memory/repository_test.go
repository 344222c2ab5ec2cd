package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/repo/memory"
)

func TestMemoryRepository_QueryContent(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.SeedContent(
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindNews,
			Title:     "Older news",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-05-01",
			CreatedAt: base,
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindNews,
			Title:     "Newer news",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-05-03",
			TermIDs:   []int64{7},
			CreatedAt: base.Add(time.Hour),
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindEvents,
			Title:     "Upcoming event",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-05-02",
			EndDate:   "2024-05-04",
			CreatedAt: base.Add(2 * time.Hour),
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindNews,
			Title:     "Draft news",
			Status:    simplelisting.StatusUnpublished,
			Date:      "2024-05-05",
			CreatedAt: base.Add(3 * time.Hour),
		},
	)

	t.Run("FilterByKind", func(t *testing.T) {
		records, err := repo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds:     []simplelisting.ContentKind{simplelisting.KindEvents},
			SortBy:    simplelisting.SortByDate,
			SortOrder: simplelisting.SortOrderDesc,
			Limit:     10,
		})
		assert.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Upcoming event", records[0].Title)
	})

	t.Run("OnlyPublished", func(t *testing.T) {
		records, err := repo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds:         []simplelisting.ContentKind{simplelisting.KindNews},
			OnlyPublished: true,
			SortBy:        simplelisting.SortByDate,
			SortOrder:     simplelisting.SortOrderDesc,
			Limit:         10,
		})
		assert.NoError(t, err)
		require.Len(t, records, 2)
		for _, record := range records {
			assert.Equal(t, simplelisting.StatusPublished, record.Status)
		}
	})

	t.Run("SortByDateDescending", func(t *testing.T) {
		records, err := repo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds:         simplelisting.DefaultContentKinds(),
			OnlyPublished: true,
			SortBy:        simplelisting.SortByDate,
			SortOrder:     simplelisting.SortOrderDesc,
			Limit:         10,
		})
		assert.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Newer news", records[0].Title)
		assert.Equal(t, "Upcoming event", records[1].Title)
		assert.Equal(t, "Older news", records[2].Title)
	})

	t.Run("CategoryFilter", func(t *testing.T) {
		records, err := repo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds:         simplelisting.DefaultContentKinds(),
			OnlyPublished: true,
			SortBy:        simplelisting.SortByDate,
			SortOrder:     simplelisting.SortOrderDesc,
			Limit:         10,
			CategoryIDs:   []int64{7},
		})
		assert.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Newer news", records[0].Title)
	})

	t.Run("LimitApplied", func(t *testing.T) {
		records, err := repo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds:         simplelisting.DefaultContentKinds(),
			OnlyPublished: true,
			SortBy:        simplelisting.SortByDate,
			SortOrder:     simplelisting.SortOrderDesc,
			Limit:         2,
		})
		assert.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Newer news", records[0].Title)
	})

	t.Run("ZeroLimitReturnsEmpty", func(t *testing.T) {
		records, err := repo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds: simplelisting.DefaultContentKinds(),
			Limit: 0,
		})
		assert.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("InvalidSortField", func(t *testing.T) {
		_, err := repo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds:  simplelisting.DefaultContentKinds(),
			SortBy: "title",
			Limit:  10,
		})
		assert.ErrorIs(t, err, simplelisting.ErrInvalidSort)
	})

	t.Run("TieBreakByCreatedAt", func(t *testing.T) {
		tieRepo := memory.New()
		first := uuid.New()
		second := uuid.New()
		tieRepo.SeedContent(
			&simplelisting.ContentRecord{
				ID:        first,
				Kind:      simplelisting.KindNews,
				Title:     "Earlier entry",
				Status:    simplelisting.StatusPublished,
				Date:      "2024-06-01",
				CreatedAt: base,
			},
			&simplelisting.ContentRecord{
				ID:        second,
				Kind:      simplelisting.KindNews,
				Title:     "Later entry",
				Status:    simplelisting.StatusPublished,
				Date:      "2024-06-01",
				CreatedAt: base.Add(time.Minute),
			},
		)

		records, err := tieRepo.QueryContent(ctx, simplelisting.ContentQuery{
			Kinds:         []simplelisting.ContentKind{simplelisting.KindNews},
			OnlyPublished: true,
			SortBy:        simplelisting.SortByDate,
			SortOrder:     simplelisting.SortOrderDesc,
			Limit:         10,
		})
		assert.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, second, records[0].ID)
		assert.Equal(t, first, records[1].ID)
	})
}

func TestMemoryRepository_LookupOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	record := &simplelisting.ContentRecord{
		ID:        uuid.New(),
		Kind:      simplelisting.KindNews,
		Title:     "Lookup target",
		Status:    simplelisting.StatusPublished,
		TermIDs:   []int64{3},
		CreatedAt: time.Now(),
	}
	repo.SeedContent(record)
	repo.SeedTerms(&simplelisting.Term{ID: 3, Label: "Community", URL: "/category/community"})
	repo.SeedImageStyles("teaser_medium")
	repo.SeedKindLabels(map[simplelisting.ContentKind]string{
		simplelisting.KindNews: "News",
	})

	t.Run("GetContent", func(t *testing.T) {
		retrieved, err := repo.GetContent(ctx, record.ID)
		assert.NoError(t, err)
		require.NotNil(t, retrieved)
		assert.Equal(t, record.ID, retrieved.ID)
		assert.Equal(t, "Lookup target", retrieved.Title)
	})

	t.Run("GetContent_NotFound", func(t *testing.T) {
		retrieved, err := repo.GetContent(ctx, uuid.New())
		assert.Error(t, err)
		assert.Nil(t, retrieved)
		assert.Equal(t, simplelisting.ErrContentNotFound, err)
	})

	t.Run("GetContent_ReturnsCopy", func(t *testing.T) {
		retrieved, err := repo.GetContent(ctx, record.ID)
		require.NoError(t, err)
		retrieved.Title = "Mutated"
		retrieved.TermIDs[0] = 99

		again, err := repo.GetContent(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lookup target", again.Title)
		assert.Equal(t, int64(3), again.TermIDs[0])
	})

	t.Run("GetTerm", func(t *testing.T) {
		term, err := repo.GetTerm(ctx, 3)
		assert.NoError(t, err)
		require.NotNil(t, term)
		assert.Equal(t, "Community", term.Label)
		assert.Equal(t, "/category/community", term.URL)
	})

	t.Run("GetTerm_NotFound", func(t *testing.T) {
		term, err := repo.GetTerm(ctx, 404)
		assert.Error(t, err)
		assert.Nil(t, term)
		assert.Equal(t, simplelisting.ErrTermNotFound, err)
	})

	t.Run("ImageStyleExists", func(t *testing.T) {
		exists, err := repo.ImageStyleExists(ctx, "teaser_medium")
		assert.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ImageStyleExists(ctx, "banner_wide")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("KindLabel", func(t *testing.T) {
		label, err := repo.KindLabel(ctx, simplelisting.KindNews)
		assert.NoError(t, err)
		assert.Equal(t, "News", label)
	})

	t.Run("KindLabel_NotFound", func(t *testing.T) {
		_, err := repo.KindLabel(ctx, simplelisting.KindEvents)
		assert.ErrorIs(t, err, simplelisting.ErrKindNotFound)
	})
}

func TestMemoryRepository_AdminOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		repo.SeedContent(&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindNews,
			Title:     fmt.Sprintf("News item %d", i+1),
			Status:    simplelisting.StatusPublished,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	repo.SeedContent(&simplelisting.ContentRecord{
		ID:        uuid.New(),
		Kind:      simplelisting.KindEvents,
		Title:     "Draft event",
		Status:    simplelisting.StatusUnpublished,
		CreatedAt: base.Add(24 * time.Hour),
	})

	t.Run("ListContentWithFilters", func(t *testing.T) {
		status := simplelisting.StatusPublished
		records, err := repo.ListContentWithFilters(ctx, simplelisting.ContentListFilters{
			Status: &status,
		})
		assert.NoError(t, err)
		assert.Len(t, records, 4)

		// Default ordering is created_at descending
		for i := 0; i < len(records)-1; i++ {
			assert.True(t, records[i].CreatedAt.After(records[i+1].CreatedAt) ||
				records[i].CreatedAt.Equal(records[i+1].CreatedAt))
		}
	})

	t.Run("ListContentWithFilters_OffsetLimit", func(t *testing.T) {
		limit := 2
		offset := 1
		records, err := repo.ListContentWithFilters(ctx, simplelisting.ContentListFilters{
			Kinds:  []simplelisting.ContentKind{simplelisting.KindNews},
			Limit:  &limit,
			Offset: &offset,
		})
		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, "News item 3", records[0].Title)
	})

	t.Run("CountContentWithFilters", func(t *testing.T) {
		count, err := repo.CountContentWithFilters(ctx, simplelisting.ContentCountFilters{})
		assert.NoError(t, err)
		assert.Equal(t, int64(5), count)

		count, err = repo.CountContentWithFilters(ctx, simplelisting.ContentCountFilters{
			Kinds: []simplelisting.ContentKind{simplelisting.KindEvents},
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("CountContentWithFilters_CreatedRange", func(t *testing.T) {
		after := base.Add(90 * time.Minute)
		count, err := repo.CountContentWithFilters(ctx, simplelisting.ContentCountFilters{
			CreatedAfter: &after,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("GetContentStatistics", func(t *testing.T) {
		stats, err := repo.GetContentStatistics(ctx, simplelisting.ContentCountFilters{}, simplelisting.ContentStatisticsOptions{
			IncludeKindBreakdown:   true,
			IncludeStatusBreakdown: true,
			IncludeTimeRange:       true,
		})
		assert.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, int64(5), stats.TotalCount)
		assert.Equal(t, int64(4), stats.ByKind[string(simplelisting.KindNews)])
		assert.Equal(t, int64(1), stats.ByKind[string(simplelisting.KindEvents)])
		assert.Equal(t, int64(4), stats.ByStatus[string(simplelisting.StatusPublished)])
		require.NotNil(t, stats.OldestContent)
		require.NotNil(t, stats.NewestContent)
		assert.True(t, stats.OldestContent.Equal(base))
		assert.True(t, stats.NewestContent.Equal(base.Add(24*time.Hour)))
	})
}

func TestMemoryRepositoryConcurrency(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	const numGoroutines = 10
	const numOperations = 50

	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(goroutineID int) {
			defer func() { done <- true }()

			for j := 0; j < numOperations; j++ {
				record := &simplelisting.ContentRecord{
					ID:        uuid.New(),
					Kind:      simplelisting.KindNews,
					Title:     fmt.Sprintf("Concurrent record %d-%d", goroutineID, j),
					Status:    simplelisting.StatusPublished,
					Date:      "2024-05-01",
					CreatedAt: time.Now(),
				}
				repo.SeedContent(record)

				retrieved, err := repo.GetContent(ctx, record.ID)
				require.NoError(t, err)
				assert.Equal(t, record.Title, retrieved.Title)

				_, err = repo.QueryContent(ctx, simplelisting.ContentQuery{
					Kinds:         []simplelisting.ContentKind{simplelisting.KindNews},
					OnlyPublished: true,
					SortBy:        simplelisting.SortByDate,
					SortOrder:     simplelisting.SortOrderDesc,
					Limit:         5,
				})
				require.NoError(t, err)
			}
		}(i)
	}

	// Wait for all goroutines to complete
	for i := 0; i < numGoroutines; i++ {
		<-done
	}
}
