package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/simple-listing/pkg/simplelisting"
)

// Repository implements simplelisting.Repository using in-memory storage.
// It is seedable and safe for concurrent use; a single instance is shared
// across requests by the HTTP server and the development preset.
type Repository struct {
	mu          sync.RWMutex
	contents    map[uuid.UUID]*simplelisting.ContentRecord
	terms       map[int64]*simplelisting.Term
	imageStyles map[string]struct{}
	kindLabels  map[simplelisting.ContentKind]string
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		contents:    make(map[uuid.UUID]*simplelisting.ContentRecord),
		terms:       make(map[int64]*simplelisting.Term),
		imageStyles: make(map[string]struct{}),
		kindLabels:  make(map[simplelisting.ContentKind]string),
	}
}

// Seeding operations (not part of simplelisting.Repository; the listing
// core never writes)

// SeedContent stores records, replacing any with the same id.
func (r *Repository) SeedContent(records ...*simplelisting.ContentRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range records {
		r.contents[record.ID] = copyRecord(record)
	}
}

// SeedTerms stores taxonomy terms, replacing any with the same id.
func (r *Repository) SeedTerms(terms ...*simplelisting.Term) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, term := range terms {
		termCopy := *term
		r.terms[term.ID] = &termCopy
	}
}

// SeedImageStyles registers named image styles.
func (r *Repository) SeedImageStyles(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		r.imageStyles[name] = struct{}{}
	}
}

// SeedKindLabels registers human-readable labels for content kinds.
func (r *Repository) SeedKindLabels(labels map[simplelisting.ContentKind]string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for kind, label := range labels {
		r.kindLabels[kind] = label
	}
}

// Listing operations

func (r *Repository) QueryContent(ctx context.Context, query simplelisting.ContentQuery) ([]*simplelisting.ContentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if query.Limit <= 0 || len(query.Kinds) == 0 {
		return []*simplelisting.ContentRecord{}, nil
	}

	kindSet := make(map[simplelisting.ContentKind]struct{}, len(query.Kinds))
	for _, kind := range query.Kinds {
		kindSet[kind] = struct{}{}
	}

	var result []*simplelisting.ContentRecord
	for _, record := range r.contents {
		if _, ok := kindSet[record.Kind]; !ok {
			continue
		}
		if query.OnlyPublished && record.Status != simplelisting.StatusPublished {
			continue
		}
		if len(query.CategoryIDs) > 0 && !referencesAny(record.TermIDs, query.CategoryIDs) {
			continue
		}
		result = append(result, copyRecord(record))
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = simplelisting.SortByDate
	}
	sortOrder := query.SortOrder
	if sortOrder == "" {
		sortOrder = simplelisting.SortOrderDesc
	}
	if err := sortRecords(result, sortBy, sortOrder); err != nil {
		return nil, err
	}

	if query.Limit < len(result) {
		result = result[:query.Limit]
	}
	return result, nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*simplelisting.ContentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.contents[id]
	if !exists {
		return nil, simplelisting.ErrContentNotFound
	}
	return copyRecord(record), nil
}

func (r *Repository) GetTerm(ctx context.Context, id int64) (*simplelisting.Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term, exists := r.terms[id]
	if !exists {
		return nil, simplelisting.ErrTermNotFound
	}

	// Return a copy to prevent external modifications
	termCopy := *term
	return &termCopy, nil
}

func (r *Repository) ImageStyleExists(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.imageStyles[name]
	return exists, nil
}

func (r *Repository) KindLabel(ctx context.Context, kind simplelisting.ContentKind) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	label, exists := r.kindLabels[kind]
	if !exists {
		return "", fmt.Errorf("%w: %s", simplelisting.ErrKindNotFound, kind)
	}
	return label, nil
}

// Admin operations

func (r *Repository) ListContentWithFilters(ctx context.Context, filters simplelisting.ContentListFilters) ([]*simplelisting.ContentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*simplelisting.ContentRecord
	for _, record := range r.contents {
		if matchesFilters(record, listToCountFilters(filters)) {
			result = append(result, copyRecord(record))
		}
	}

	sortBy := simplelisting.SortByCreatedAt
	if filters.SortBy != nil && *filters.SortBy != "" {
		sortBy = *filters.SortBy
	}
	sortOrder := simplelisting.SortOrderDesc
	if filters.SortOrder != nil && *filters.SortOrder != "" {
		sortOrder = *filters.SortOrder
	}
	if err := sortRecords(result, sortBy, sortOrder); err != nil {
		return nil, err
	}

	// Apply offset and limit
	if filters.Offset != nil && *filters.Offset > 0 {
		if *filters.Offset >= len(result) {
			return []*simplelisting.ContentRecord{}, nil
		}
		result = result[*filters.Offset:]
	}
	if filters.Limit != nil && *filters.Limit > 0 && *filters.Limit < len(result) {
		result = result[:*filters.Limit]
	}

	return result, nil
}

func (r *Repository) CountContentWithFilters(ctx context.Context, filters simplelisting.ContentCountFilters) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, record := range r.contents {
		if matchesFilters(record, filters) {
			count++
		}
	}
	return count, nil
}

func (r *Repository) GetContentStatistics(ctx context.Context, filters simplelisting.ContentCountFilters, options simplelisting.ContentStatisticsOptions) (*simplelisting.ContentStatisticsResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := &simplelisting.ContentStatisticsResult{}
	if options.IncludeKindBreakdown {
		result.ByKind = make(map[string]int64)
	}
	if options.IncludeStatusBreakdown {
		result.ByStatus = make(map[string]int64)
	}

	for _, record := range r.contents {
		if !matchesFilters(record, filters) {
			continue
		}
		result.TotalCount++

		if options.IncludeKindBreakdown {
			result.ByKind[string(record.Kind)]++
		}
		if options.IncludeStatusBreakdown {
			result.ByStatus[string(record.Status)]++
		}
		if options.IncludeTimeRange {
			created := record.CreatedAt
			if result.OldestContent == nil || created.Before(*result.OldestContent) {
				oldest := created
				result.OldestContent = &oldest
			}
			if result.NewestContent == nil || created.After(*result.NewestContent) {
				newest := created
				result.NewestContent = &newest
			}
		}
	}

	return result, nil
}

// Helpers

// copyRecord deep-copies a record so callers never alias internal state.
func copyRecord(record *simplelisting.ContentRecord) *simplelisting.ContentRecord {
	recordCopy := *record
	if record.Summary != nil {
		summaryCopy := *record.Summary
		recordCopy.Summary = &summaryCopy
	}
	if record.Body != nil {
		bodyCopy := *record.Body
		recordCopy.Body = &bodyCopy
	}
	if record.Image != nil {
		imageCopy := *record.Image
		recordCopy.Image = &imageCopy
	}
	if record.TermIDs != nil {
		recordCopy.TermIDs = append([]int64(nil), record.TermIDs...)
	}
	return &recordCopy
}

func referencesAny(termIDs, wanted []int64) bool {
	for _, id := range termIDs {
		for _, w := range wanted {
			if id == w {
				return true
			}
		}
	}
	return false
}

// sortRecords orders records by the requested sort. Raw date values compare
// lexicographically, which is chronological for ISO-formatted values. Ties
// break by created_at descending, then id.
func sortRecords(records []*simplelisting.ContentRecord, sortBy, sortOrder string) error {
	var compare func(a, b *simplelisting.ContentRecord) int
	switch sortBy {
	case simplelisting.SortByDate:
		compare = func(a, b *simplelisting.ContentRecord) int {
			return strings.Compare(a.Date, b.Date)
		}
	case simplelisting.SortByCreatedAt:
		compare = func(a, b *simplelisting.ContentRecord) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	default:
		return fmt.Errorf("%w: field %q", simplelisting.ErrInvalidSort, sortBy)
	}

	var desc bool
	switch sortOrder {
	case simplelisting.SortOrderAsc:
		desc = false
	case simplelisting.SortOrderDesc:
		desc = true
	default:
		return fmt.Errorf("%w: order %q", simplelisting.ErrInvalidSort, sortOrder)
	}

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if c := compare(a, b); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return nil
}

func matchesFilters(record *simplelisting.ContentRecord, filters simplelisting.ContentCountFilters) bool {
	if len(filters.Kinds) > 0 {
		found := false
		for _, kind := range filters.Kinds {
			if record.Kind == kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	statuses := filters.Statuses
	if filters.Status != nil {
		statuses = append(statuses, *filters.Status)
	}
	if len(statuses) > 0 {
		found := false
		for _, status := range statuses {
			if record.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	termIDs := filters.TermIDs
	if filters.TermID != nil {
		termIDs = append(termIDs, *filters.TermID)
	}
	if len(termIDs) > 0 && !referencesAny(record.TermIDs, termIDs) {
		return false
	}

	if filters.CreatedAfter != nil && record.CreatedAt.Before(*filters.CreatedAfter) {
		return false
	}
	if filters.CreatedBefore != nil && record.CreatedAt.After(*filters.CreatedBefore) {
		return false
	}

	return true
}

func listToCountFilters(filters simplelisting.ContentListFilters) simplelisting.ContentCountFilters {
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
