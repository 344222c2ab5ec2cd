package simplelisting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	files      FileStore
	eventSink  EventSink
	hooks      *Hooks
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithFileStore sets the file store used to resolve image references.
// Without one, every image resolves as absent.
func WithFileStore(store FileStore) Option {
	return func(s *service) {
		s.files = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithHooks sets the lifecycle hooks executed around builds
func WithHooks(hooks *Hooks) Option {
	return func(s *service) {
		s.hooks = hooks
	}
}

// WithLogger sets the logger used for degradation records
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.hooks == nil {
		s.hooks = &Hooks{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) BuildListing(ctx context.Context, cfg BlockConfig) *Listing {
	s.hooks.executeBeforeBuild(ctx, &cfg)

	listing := &Listing{
		Title: cfg.BlockTitle,
		Items: []ListItem{},
		Cache: ComputeCacheMetadata(cfg),
	}

	if limit := cfg.EffectiveItemCount(); limit > 0 {
		for _, record := range s.selectRecords(ctx, cfg, limit) {
			listing.Items = append(listing.Items, s.NormalizeRecord(ctx, record, cfg))
		}
		// A misbehaving repository must not overflow the configured count.
		if len(listing.Items) > limit {
			listing.Items = listing.Items[:limit]
		}
	}

	listing.ViewAll = resolveViewAllLink(cfg)

	// Fire event
	if s.eventSink != nil {
		if err := s.eventSink.ListingBuilt(ctx, listing); err != nil {
			s.logger.Warn("listing built event failed", "error", err)
		}
	}
	s.hooks.executeAfterBuild(ctx, listing)

	return listing
}

func (s *service) NormalizeRecord(ctx context.Context, record *ContentRecord, cfg BlockConfig) ListItem {
	item := ListItem{
		Title:      record.Title,
		URL:        record.URL,
		Kind:       record.Kind,
		KindLabel:  s.resolveKindLabel(ctx, record),
		Summary:    resolveSummary(record),
		Image:      s.resolveImage(ctx, record, cfg),
		Categories: s.resolveCategories(ctx, record),
	}

	layout := cfg.EffectiveDateFormat()
	if record.Kind == KindEvents && record.Date != "" {
		item.DateStart = formatDate(record.Date, layout)
		item.Date = item.DateStart
		// A range exists only when the raw end value differs from the raw
		// start value.
		if record.EndDate != "" && record.EndDate != record.Date {
			item.DateEnd = formatDate(record.EndDate, layout)
			item.IsDateRange = true
		}
	}
	if item.Date == "" && record.Date != "" {
		item.Date = formatDate(record.Date, layout)
	}

	// Fire event
	if s.eventSink != nil {
		if err := s.eventSink.ItemNormalized(ctx, record, &item); err != nil {
			s.logger.Warn("item normalized event failed", "error", err)
		}
	}
	s.hooks.executeAfterNormalize(ctx, record, &item)

	return item
}

func (s *service) CacheMetadata(cfg BlockConfig) CacheMetadata {
	return ComputeCacheMetadata(cfg)
}

// selectRecords runs the configured query. A query failure degrades to an
// empty result.
func (s *service) selectRecords(ctx context.Context, cfg BlockConfig, limit int) []*ContentRecord {
	query := ContentQuery{
		Kinds:         cfg.EffectiveKinds(),
		OnlyPublished: true,
		SortBy:        SortByDate,
		SortOrder:     SortOrderDesc,
		Limit:         limit,
		CategoryIDs:   cfg.CategoryFilter(),
	}

	records, err := s.repository.QueryContent(ctx, query)
	if err != nil {
		s.degrade(ctx, uuid.Nil, "query", err)
		return nil
	}
	return records
}

// resolveKindLabel returns the repository's label for the record's kind, or
// the raw kind identifier when no label resolves.
func (s *service) resolveKindLabel(ctx context.Context, record *ContentRecord) string {
	label, err := s.repository.KindLabel(ctx, record.Kind)
	if err != nil || label == "" {
		if err != nil && !errors.Is(err, ErrKindNotFound) {
			s.degrade(ctx, record.ID, "kind_label", err)
		}
		return string(record.Kind)
	}
	return label
}

// resolveImage resolves a record's image reference into a descriptor. A
// missing reference, a missing file, or an unconfigured file store resolves
// to no image, never an error.
func (s *service) resolveImage(ctx context.Context, record *ContentRecord, cfg BlockConfig) *ImageDescriptor {
	if record.Image == nil || record.Image.FileKey == "" || s.files == nil {
		return nil
	}

	uri, err := s.files.FileURL(ctx, record.Image.FileKey)
	if err != nil {
		if !errors.Is(err, ErrFileNotFound) {
			s.degrade(ctx, record.ID, "image", err)
		}
		return nil
	}

	alt := record.Image.Alt
	if alt == "" {
		alt = record.Title
	}
	descriptor := &ImageDescriptor{
		URI:   uri,
		Alt:   alt,
		Title: record.Title,
	}

	if cfg.ImageStyle != "" {
		exists, err := s.repository.ImageStyleExists(ctx, cfg.ImageStyle)
		if err != nil {
			s.degrade(ctx, record.ID, "image_style", err)
			exists = false
		}
		if exists {
			descriptor.Style = cfg.ImageStyle
		}
	}

	return descriptor
}

// resolveCategories resolves the record's term references in reference
// order. Unresolved references are skipped.
func (s *service) resolveCategories(ctx context.Context, record *ContentRecord) []Category {
	var categories []Category
	for _, id := range record.TermIDs {
		term, err := s.repository.GetTerm(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrTermNotFound) {
				s.degrade(ctx, record.ID, "category", err)
			}
			continue
		}
		categories = append(categories, Category{ID: term.ID, Label: term.Label, URL: term.URL})
	}
	return categories
}

// degrade records an absorbed collaborator error. Degradations never reach
// the caller; they surface through the log, the event sink, and the
// OnDegrade hooks.
func (s *service) degrade(ctx context.Context, recordID uuid.UUID, field string, err error) {
	s.logger.Warn("listing degraded", "record_id", recordID, "field", field, "error", err)
	if s.eventSink != nil {
		if sinkErr := s.eventSink.ItemDegraded(ctx, recordID, field, err); sinkErr != nil {
			s.logger.Warn("item degraded event failed", "error", sinkErr)
		}
	}
	s.hooks.executeOnDegrade(ctx, recordID, field, err)
}

// resolveViewAllLink builds the optional view-all link. A disabled flag, an
// empty URL, or an unparsable URL suppresses the link without failing the
// build.
func resolveViewAllLink(cfg BlockConfig) *ViewAllLink {
	if !cfg.ShowViewAll || cfg.ViewAllURL == "" {
		return nil
	}
	if _, err := url.Parse(cfg.ViewAllURL); err != nil {
		return nil
	}

	text := cfg.ViewAllText
	if text == "" {
		text = DefaultViewAllText
	}
	return &ViewAllLink{Text: text, URL: cfg.ViewAllURL}
}
