package simplelisting

// Cache tag and context identifiers understood by host invalidation
// frameworks.
const (
	cacheTagTermListPrefix = "taxonomy_term_list:"
	cacheTagNodeListPrefix = "node_list:"
	cacheContextLanguages  = "languages"
)

// ComputeCacheMetadata derives the invalidation tags and contexts for a
// configuration: the category-vocabulary tag plus one node-list tag per
// effective content kind, and the language context.
//
// The result depends only on the configuration, never on repository state,
// so invalidation frameworks can compute it before or after a build and get
// the same answer.
func ComputeCacheMetadata(cfg BlockConfig) CacheMetadata {
	kinds := cfg.EffectiveKinds()

	tags := make([]string, 0, len(kinds)+1)
	tags = append(tags, cacheTagTermListPrefix+CategoryVocabulary)
	for _, kind := range kinds {
		tags = append(tags, cacheTagNodeListPrefix+string(kind))
	}

	return CacheMetadata{
		Tags:     tags,
		Contexts: []string{cacheContextLanguages},
	}
}
