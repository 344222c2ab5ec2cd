package simplelisting

import (
	"strings"
	"testing"
)

// TestFormatDate tests raw date rendering and the malformed-value
// passthrough
func TestFormatDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		layout string
		want   string
	}{
		{
			name:   "date only",
			raw:    "2024-05-01",
			layout: DefaultDateFormat,
			want:   "May 1, 2024",
		},
		{
			name:   "rfc3339",
			raw:    "2024-05-01T09:30:00Z",
			layout: DefaultDateFormat,
			want:   "May 1, 2024",
		},
		{
			name:   "datetime without zone",
			raw:    "2024-05-01T09:30:00",
			layout: DefaultDateFormat,
			want:   "May 1, 2024",
		},
		{
			name:   "datetime with space",
			raw:    "2024-05-01 09:30:00",
			layout: DefaultDateFormat,
			want:   "May 1, 2024",
		},
		{
			name:   "custom layout",
			raw:    "2024-05-01",
			layout: "02/01/2006",
			want:   "01/05/2024",
		},
		{
			name:   "malformed value passes through",
			raw:    "not-a-date",
			layout: DefaultDateFormat,
			want:   "not-a-date",
		},
		{
			name:   "partial value passes through",
			raw:    "2024-05",
			layout: DefaultDateFormat,
			want:   "2024-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDate(tt.raw, tt.layout); got != tt.want {
				t.Errorf("formatDate(%q, %q) = %q, want %q", tt.raw, tt.layout, got, tt.want)
			}
		})
	}
}

// TestExcerpt tests body-derived summary excerpts
func TestExcerpt(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		if got := excerpt("A short body.", SummaryMaxLength); got != "A short body." {
			t.Errorf("excerpt() = %q", got)
		}
	})

	t.Run("markup is stripped", func(t *testing.T) {
		got := excerpt("<p>Hello <strong>world</strong></p>", SummaryMaxLength)
		if got != "Hello world" {
			t.Errorf("excerpt() = %q, want %q", got, "Hello world")
		}
	})

	t.Run("whitespace collapses", func(t *testing.T) {
		got := excerpt("Hello\n\n  world\t again", SummaryMaxLength)
		if got != "Hello world again" {
			t.Errorf("excerpt() = %q, want %q", got, "Hello world again")
		}
	})

	t.Run("long text cuts on a word boundary", func(t *testing.T) {
		long := strings.Repeat("lorem ipsum ", 40)
		got := excerpt(long, SummaryMaxLength)
		if len([]rune(got)) > SummaryMaxLength {
			t.Errorf("excerpt length = %d, want <= %d", len([]rune(got)), SummaryMaxLength)
		}
		if strings.HasSuffix(got, " ") {
			t.Errorf("excerpt ends with a space: %q", got)
		}
		// The cut must not split a word
		if !strings.HasSuffix(got, "lorem") && !strings.HasSuffix(got, "ipsum") {
			t.Errorf("excerpt cut mid-word: %q", got[len(got)-12:])
		}
	})

	t.Run("unbroken text cuts hard", func(t *testing.T) {
		long := strings.Repeat("a", 300)
		got := excerpt(long, SummaryMaxLength)
		if len([]rune(got)) != SummaryMaxLength {
			t.Errorf("excerpt length = %d, want %d", len([]rune(got)), SummaryMaxLength)
		}
	})

	t.Run("multibyte characters count as one", func(t *testing.T) {
		long := strings.Repeat("ä", 300)
		got := excerpt(long, SummaryMaxLength)
		if n := len([]rune(got)); n != SummaryMaxLength {
			t.Errorf("excerpt rune length = %d, want %d", n, SummaryMaxLength)
		}
	})
}

// TestStripTags tests markup removal
func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "no markup here",
			want:  "no markup here",
		},
		{
			name:  "simple tags removed",
			input: "<p>text</p>",
			want:  "text",
		},
		{
			name:  "attributes removed with the tag",
			input: `<a href="/x" class="y">link</a>`,
			want:  "link",
		},
		{
			name:  "unterminated tag swallows the tail",
			input: "before <broken",
			want:  "before ",
		},
		{
			name:  "entities are not interpreted",
			input: "a &amp; b",
			want:  "a &amp; b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripTags(tt.input); got != tt.want {
				t.Errorf("stripTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestResolveSummary tests the summary fallback chain
func TestResolveSummary(t *testing.T) {
	tests := []struct {
		name       string
		record     *ContentRecord
		want       string
		wantFormat string
		wantNil    bool
	}{
		{
			name: "dedicated field wins",
			record: &ContentRecord{
				Summary: &RichText{Value: "Hand-written summary", Format: "basic_html"},
				Body:    &BodyField{Value: "Body text", Summary: "Body summary", Format: "full_html"},
			},
			want:       "Hand-written summary",
			wantFormat: "basic_html",
		},
		{
			name: "body summary next",
			record: &ContentRecord{
				Body: &BodyField{Value: "Body text", Summary: "Body summary", Format: "full_html"},
			},
			want:       "Body summary",
			wantFormat: "full_html",
		},
		{
			name: "body excerpt last",
			record: &ContentRecord{
				Body: &BodyField{Value: "<p>Body text only</p>", Format: "full_html"},
			},
			want:       "Body text only",
			wantFormat: "full_html",
		},
		{
			name: "empty summary field falls through",
			record: &ContentRecord{
				Summary: &RichText{Value: ""},
				Body:    &BodyField{Value: "Body text", Format: "plain_text"},
			},
			want:       "Body text",
			wantFormat: "plain_text",
		},
		{
			name:    "no material resolves to none",
			record:  &ContentRecord{},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveSummary(tt.record)
			if tt.wantNil {
				if got != nil {
					t.Errorf("resolveSummary() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("resolveSummary() = nil, want %q", tt.want)
			}
			if got.Value != tt.want {
				t.Errorf("resolveSummary().Value = %q, want %q", got.Value, tt.want)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("resolveSummary().Format = %q, want %q", got.Format, tt.wantFormat)
			}
		})
	}
}

// TestNormalizeKind tests kind normalization
func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		input string
		want  ContentKind
	}{
		{input: "News", want: KindNews},
		{input: " EVENTS ", want: KindEvents},
		{input: "news", want: KindNews},
		{input: "", want: ContentKind("")},
	}

	for _, tt := range tests {
		if got := NormalizeKind(tt.input); got != tt.want {
			t.Errorf("NormalizeKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
