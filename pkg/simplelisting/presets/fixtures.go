package presets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	memoryrepo "github.com/tendant/simple-listing/pkg/simplelisting/repo/memory"
)

// Demo fixtures shared by the development preset and WithTestFixtures:
// a small campus newsroom with three news posts and two events.

const demoImageKey = "images/research-center.jpg"

func seedFixtures(repo *memoryrepo.Repository, store simplelisting.FileStore) error {
	ctx := context.Background()

	repo.SeedKindLabels(map[simplelisting.ContentKind]string{
		simplelisting.KindNews:   "News",
		simplelisting.KindEvents: "Event",
	})
	repo.SeedImageStyles("teaser_medium", "hero_large")
	repo.SeedTerms(
		&simplelisting.Term{ID: 1, Label: "Campus Life", URL: "/topics/campus-life"},
		&simplelisting.Term{ID: 2, Label: "Research", URL: "/topics/research"},
		&simplelisting.Term{ID: 3, Label: "Athletics", URL: "/topics/athletics"},
	)

	if store != nil {
		if err := store.Upload(ctx, demoImageKey, strings.NewReader(demoImageData)); err != nil {
			return fmt.Errorf("failed to upload demo image: %w", err)
		}
	}

	base := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)
	repo.SeedContent(
		&simplelisting.ContentRecord{
			ID:     uuid.New(),
			Kind:   simplelisting.KindNews,
			Title:  "New Research Center Opens Downtown",
			Status: simplelisting.StatusPublished,
			Summary: &simplelisting.RichText{
				Value:  "<p>The interdisciplinary research center welcomes its first cohort of fellows this spring.</p>",
				Format: "basic_html",
			},
			Image:     &simplelisting.ImageRef{FileKey: demoImageKey, Alt: "Research center atrium"},
			Date:      "2024-04-12",
			TermIDs:   []int64{2},
			URL:       "/news/new-research-center-opens-downtown",
			CreatedAt: base.AddDate(0, 0, 11),
			UpdatedAt: base.AddDate(0, 0, 11),
		},
		&simplelisting.ContentRecord{
			ID:     uuid.New(),
			Kind:   simplelisting.KindNews,
			Title:  "Spring Enrollment Hits Record High",
			Status: simplelisting.StatusPublished,
			Body: &simplelisting.BodyField{
				Value:   "<p>Enrollment climbed for the fourth consecutive year, led by the engineering and nursing programs.</p>",
				Summary: "Enrollment climbed for the fourth consecutive year.",
				Format:  "basic_html",
			},
			Date:      "2024-04-05",
			TermIDs:   []int64{1},
			URL:       "/news/spring-enrollment-hits-record-high",
			CreatedAt: base.AddDate(0, 0, 4),
			UpdatedAt: base.AddDate(0, 0, 4),
		},
		&simplelisting.ContentRecord{
			ID:     uuid.New(),
			Kind:   simplelisting.KindNews,
			Title:  "Library Renovation Completed",
			Status: simplelisting.StatusPublished,
			Body: &simplelisting.BodyField{
				Value:  "<p>The main reading room reopens Monday after a year-long renovation that doubled study seating and added a digital media lab.</p>",
				Format: "basic_html",
			},
			Date:      "2024-03-28",
			TermIDs:   []int64{1},
			URL:       "/news/library-renovation-completed",
			CreatedAt: base.AddDate(0, 0, -4),
			UpdatedAt: base.AddDate(0, 0, -4),
		},
		&simplelisting.ContentRecord{
			ID:     uuid.New(),
			Kind:   simplelisting.KindEvents,
			Title:  "Annual Science Fair",
			Status: simplelisting.StatusPublished,
			Summary: &simplelisting.RichText{
				Value:  "<p>Student projects from every department compete for the dean's prize.</p>",
				Format: "basic_html",
			},
			Date:      "2024-05-10",
			EndDate:   "2024-05-12",
			TermIDs:   []int64{2},
			URL:       "/events/annual-science-fair",
			CreatedAt: base.AddDate(0, 0, 20),
			UpdatedAt: base.AddDate(0, 0, 20),
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindEvents,
			Title:     "Commencement Ceremony",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-05-25",
			TermIDs:   []int64{1, 3},
			URL:       "/events/commencement-ceremony",
			CreatedAt: base.AddDate(0, 0, 24),
			UpdatedAt: base.AddDate(0, 0, 24),
		},
	)

	return nil
}

// Stand-in bytes served for the demo image.
const demoImageData = "demo image bytes"
