// Package simplelisting provides a reusable library for building normalized
// news-and-events listings with pluggable content repository and file storage
// backends.
//
// It exposes a single Service interface that selects a bounded set of
// published content records (by kind, category, sort, and limit) and
// normalizes each heterogeneous record into a uniform list item: summary
// fallback, image resolution against a named style, date and date-range
// resolution, and category resolution. Implementations of repositories
// (memory, Postgres) and file stores (memory, filesystem, S3) are provided
// under subpackages.
//
// Degradation Contract
//
// BuildListing never fails. Collaborator errors (a failing query, a missing
// file, an unresolvable term) degrade to an empty or partial listing rather
// than aborting the caller's render. Degradations stay observable through the
// event sink and the OnDegrade hooks. Malformed raw date values pass through
// unformatted instead of disappearing.
package simplelisting
