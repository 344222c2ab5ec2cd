package simplelisting

// Defaults applied by DefaultBlockConfig and the Effective* accessors.
const (
	// DefaultDateFormat is the date layout applied when a configuration
	// names none.
	DefaultDateFormat = "Jan 2, 2006"

	// DefaultViewAllText labels the view-all link when a configuration
	// names none.
	DefaultViewAllText = "View all"

	// DefaultNumberOfItems is the item count the admin surface starts from.
	DefaultNumberOfItems = 5

	// MaxNumberOfItems is the admin-surface ceiling for NumberOfItems. The
	// builder itself honors any positive value.
	MaxNumberOfItems = 20
)

// BlockConfig is the settings record driving one listing build.
//
// JSON tags follow the stored settings keys of the admin surface. A zero
// value builds an empty listing (NumberOfItems 0 selects nothing);
// DefaultBlockConfig returns the settings the admin surface starts from.
type BlockConfig struct {
	BlockTitle       string   `json:"block_title,omitempty"`
	ContentTypes     []string `json:"content_types,omitempty"`
	FilterByCategory bool     `json:"filter_by_category,omitempty"`
	CategoryTIDs     []int64  `json:"category_tids,omitempty"`
	NumberOfItems    int      `json:"number_of_items,omitempty"`
	ImageStyle       string   `json:"image_style,omitempty"`
	DateFormat       string   `json:"date_format,omitempty"`
	ShowViewAll      bool     `json:"show_view_all,omitempty"`
	ViewAllURL       string   `json:"view_all_url,omitempty"`
	ViewAllText      string   `json:"view_all_text,omitempty"`
}

// DefaultBlockConfig returns the default settings record.
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		ContentTypes:  []string{string(KindNews), string(KindEvents)},
		NumberOfItems: DefaultNumberOfItems,
		DateFormat:    DefaultDateFormat,
		ViewAllText:   DefaultViewAllText,
	}
}

// EffectiveKinds returns the configured content kinds deduplicated in
// configuration order, falling back to the default news+events set when none
// are configured.
func (c BlockConfig) EffectiveKinds() []ContentKind {
	if len(c.ContentTypes) == 0 {
		return DefaultContentKinds()
	}

	seen := make(map[ContentKind]struct{}, len(c.ContentTypes))
	kinds := make([]ContentKind, 0, len(c.ContentTypes))
	for _, t := range c.ContentTypes {
		if t == "" {
			continue
		}
		kind := ContentKind(t)
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}

	if len(kinds) == 0 {
		return DefaultContentKinds()
	}
	return kinds
}

// EffectiveItemCount returns the number of items to select. Values at or
// below zero select nothing.
func (c BlockConfig) EffectiveItemCount() int {
	if c.NumberOfItems < 0 {
		return 0
	}
	return c.NumberOfItems
}

// EffectiveDateFormat returns the configured date layout, falling back to
// DefaultDateFormat.
func (c BlockConfig) EffectiveDateFormat() string {
	if c.DateFormat == "" {
		return DefaultDateFormat
	}
	return c.DateFormat
}

// CategoryFilter returns the term ids the query is restricted to, or nil
// when category filtering is disabled or no ids are configured.
func (c BlockConfig) CategoryFilter() []int64 {
	if !c.FilterByCategory || len(c.CategoryTIDs) == 0 {
		return nil
	}
	return c.CategoryTIDs
}
