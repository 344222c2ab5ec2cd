package simplelisting

import (
	"strings"
	"time"
	"unicode/utf8"
)

// SummaryMaxLength bounds body-derived summary excerpts, counted in
// characters rather than bytes.
const SummaryMaxLength = 200

// dateLayouts are the raw date layouts accepted by formatDate, tried in
// order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeKind lowercases a user-facing content kind.
func NormalizeKind(s string) ContentKind {
	return ContentKind(strings.ToLower(strings.TrimSpace(s)))
}

// resolveSummary returns the display summary for a record, or nil when the
// record carries no summary material. Resolvers are tried in priority order;
// the first non-empty result wins.
func resolveSummary(record *ContentRecord) *RichText {
	for _, resolve := range summaryResolvers {
		if summary := resolve(record); summary != nil {
			return summary
		}
	}
	return nil
}

// summaryResolvers order the summary fallback chain: the dedicated summary
// field, then the body's hand-written summary, then a body excerpt.
var summaryResolvers = []func(*ContentRecord) *RichText{
	summaryFromField,
	summaryFromBody,
}

func summaryFromField(record *ContentRecord) *RichText {
	if record.Summary == nil || record.Summary.Value == "" {
		return nil
	}
	return &RichText{Value: record.Summary.Value, Format: record.Summary.Format}
}

func summaryFromBody(record *ContentRecord) *RichText {
	if record.Body == nil || record.Body.Value == "" {
		return nil
	}
	if record.Body.Summary != "" {
		return &RichText{Value: record.Body.Summary, Format: record.Body.Format}
	}
	return &RichText{Value: excerpt(record.Body.Value, SummaryMaxLength), Format: record.Body.Format}
}

// excerpt derives a plain-text excerpt of at most max characters, cutting on
// a word boundary where one exists.
func excerpt(s string, max int) string {
	plain := strings.Join(strings.Fields(stripTags(s)), " ")
	if utf8.RuneCountInString(plain) <= max {
		return plain
	}

	runes := []rune(plain)
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}

// stripTags removes markup tags without interpreting entities.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatDate renders a raw date value with the given layout. A raw value
// that matches none of the accepted layouts is returned unchanged rather
// than dropped.
func formatDate(raw, layout string) string {
	for _, in := range dateLayouts {
		if t, err := time.Parse(in, raw); err == nil {
			return t.Format(layout)
		}
	}
	return raw
}
