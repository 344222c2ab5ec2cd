package admin

import (
	"context"
	"time"

	"github.com/tendant/simple-listing/pkg/simplelisting"
)

// adminService implements the AdminService interface
type adminService struct {
	repo simplelisting.Repository
}

// Ensure adminService implements AdminService
var _ AdminService = (*adminService)(nil)

// ListAllContents returns a paginated list of content records with optional filtering
func (s *adminService) ListAllContents(ctx context.Context, req ListContentsRequest) (*ListContentsResponse, error) {
	repoFilters := convertToRepoListFilters(req.Filters)

	contents, err := s.repo.ListContentWithFilters(ctx, repoFilters)
	if err != nil {
		return nil, err
	}

	// Determine pagination details
	limit := 100 // default
	if repoFilters.Limit != nil {
		limit = *repoFilters.Limit
	}
	offset := 0
	if repoFilters.Offset != nil {
		offset = *repoFilters.Offset
	}

	// A full page suggests there may be more results
	hasMore := len(contents) == limit

	return &ListContentsResponse{
		Contents: contents,
		Limit:    limit,
		Offset:   offset,
		HasMore:  hasMore,
	}, nil
}

// CountContents returns the count of content records matching the given filters
func (s *adminService) CountContents(ctx context.Context, req CountRequest) (*CountResponse, error) {
	count, err := s.repo.CountContentWithFilters(ctx, convertToRepoCountFilters(req.Filters))
	if err != nil {
		return nil, err
	}

	return &CountResponse{Count: count}, nil
}

// GetStatistics returns aggregated statistics about content records
func (s *adminService) GetStatistics(ctx context.Context, req StatisticsRequest) (*StatisticsResponse, error) {
	repoOptions := simplelisting.ContentStatisticsOptions{
		IncludeKindBreakdown:   req.Options.IncludeKindBreakdown,
		IncludeStatusBreakdown: req.Options.IncludeStatusBreakdown,
		IncludeTimeRange:       req.Options.IncludeTimeRange,
	}

	repoStats, err := s.repo.GetContentStatistics(ctx, convertToRepoCountFilters(req.Filters), repoOptions)
	if err != nil {
		return nil, err
	}

	stats := ContentStatistics{
		TotalCount:    repoStats.TotalCount,
		ByKind:        repoStats.ByKind,
		ByStatus:      repoStats.ByStatus,
		OldestContent: repoStats.OldestContent,
		NewestContent: repoStats.NewestContent,
	}

	return &StatisticsResponse{
		Statistics: stats,
		ComputedAt: time.Now(),
	}, nil
}

// convertToRepoListFilters converts admin ContentFilters to repository ContentListFilters
func convertToRepoListFilters(filters ContentFilters) simplelisting.ContentListFilters {
	return simplelisting.ContentListFilters{
		Kinds:         filters.Kinds,
		Status:        filters.Status,
		Statuses:      filters.Statuses,
		TermID:        filters.TermID,
		TermIDs:       filters.TermIDs,
		CreatedAfter:  filters.CreatedAfter,
		CreatedBefore: filters.CreatedBefore,
		Limit:         filters.Limit,
		Offset:        filters.Offset,
		SortBy:        filters.SortBy,
		SortOrder:     filters.SortOrder,
	}
}

// convertToRepoCountFilters converts admin ContentFilters to repository ContentCountFilters
func convertToRepoCountFilters(filters ContentFilters) simplelisting.ContentCountFilters {
	return simplelisting.ContentCountFilters{
		Kinds:         filters.Kinds,
		Status:        filters.Status,
		Statuses:      filters.Statuses,
		TermID:        filters.TermID,
		TermIDs:       filters.TermIDs,
		CreatedAfter:  filters.CreatedAfter,
		CreatedBefore: filters.CreatedBefore,
	}
}
