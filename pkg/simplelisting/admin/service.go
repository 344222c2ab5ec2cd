package admin

import (
	"context"

	"github.com/tendant/simple-listing/pkg/simplelisting"
)

// AdminService defines the interface for administrative content operations.
// These operations bypass the published-only restriction the listing builder
// applies and are intended for operational, monitoring, and bulk inspection
// use cases.
//
// IMPORTANT: Endpoints using this service should be protected with appropriate
// authentication and authorization middleware to ensure only authorized
// administrators can access these operations.
type AdminService interface {
	// ListAllContents returns a paginated list of content records with
	// optional filtering. Unlike the listing builder, this sees unpublished
	// records too.
	ListAllContents(ctx context.Context, req ListContentsRequest) (*ListContentsResponse, error)

	// CountContents returns the count of content records matching the given
	// filters. This is useful for pagination and monitoring purposes.
	CountContents(ctx context.Context, req CountRequest) (*CountResponse, error)

	// GetStatistics returns aggregated statistics about content records.
	// This provides breakdown by kind, status, and creation time range.
	GetStatistics(ctx context.Context, req StatisticsRequest) (*StatisticsResponse, error)
}

// New creates a new AdminService instance that uses the provided repository.
func New(repo simplelisting.Repository) AdminService {
	return &adminService{
		repo: repo,
	}
}
