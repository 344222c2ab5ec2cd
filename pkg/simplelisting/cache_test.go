package simplelisting

import (
	"reflect"
	"testing"
)

// TestComputeCacheMetadata tests invalidation tag and context derivation
func TestComputeCacheMetadata(t *testing.T) {
	tests := []struct {
		name     string
		config   BlockConfig
		wantTags []string
	}{
		{
			name:   "news only",
			config: BlockConfig{ContentTypes: []string{"news"}},
			wantTags: []string{
				"taxonomy_term_list:news_events_category",
				"node_list:news",
			},
		},
		{
			name:   "events only",
			config: BlockConfig{ContentTypes: []string{"events"}},
			wantTags: []string{
				"taxonomy_term_list:news_events_category",
				"node_list:events",
			},
		},
		{
			name:   "default kinds",
			config: BlockConfig{},
			wantTags: []string{
				"taxonomy_term_list:news_events_category",
				"node_list:news",
				"node_list:events",
			},
		},
		{
			name:   "duplicate kinds collapse",
			config: BlockConfig{ContentTypes: []string{"news", "news"}},
			wantTags: []string{
				"taxonomy_term_list:news_events_category",
				"node_list:news",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCacheMetadata(tt.config)
			if !reflect.DeepEqual(got.Tags, tt.wantTags) {
				t.Errorf("Tags = %v, want %v", got.Tags, tt.wantTags)
			}
			if !reflect.DeepEqual(got.Contexts, []string{"languages"}) {
				t.Errorf("Contexts = %v, want [languages]", got.Contexts)
			}
		})
	}
}

// TestComputeCacheMetadata_IgnoresDisplaySettings verifies that settings
// with no bearing on what can appear in the listing leave the metadata
// unchanged.
func TestComputeCacheMetadata_IgnoresDisplaySettings(t *testing.T) {
	base := ComputeCacheMetadata(BlockConfig{ContentTypes: []string{"news"}})
	decorated := ComputeCacheMetadata(BlockConfig{
		ContentTypes: []string{"news"},
		BlockTitle:   "Latest news",
		ImageStyle:   "teaser_medium",
		ShowViewAll:  true,
		ViewAllURL:   "/news",
		DateFormat:   "02/01/2006",
	})

	if !reflect.DeepEqual(base, decorated) {
		t.Errorf("display settings changed cache metadata: %v vs %v", base, decorated)
	}
}
