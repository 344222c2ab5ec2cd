package testutil

import (
	"context"
	"log"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/admin"
	"github.com/tendant/simple-listing/pkg/simplelisting/api"
	memoryrepo "github.com/tendant/simple-listing/pkg/simplelisting/repo/memory"
	memorystorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/memory"
)

// SeededImageKey is the file key of the image uploaded by SetupTestServer.
const SeededImageKey = "images/campus-aerial.jpg"

// SetupTestServer creates a test server with all routes configured and a
// small seeded content set: two news records (one with an image), one
// published event and one unpublished draft.
func SetupTestServer() *httptest.Server {
	repo := memoryrepo.New()
	store := memorystorage.New()
	seed(repo, store)

	svc, err := simplelisting.New(
		simplelisting.WithRepository(repo),
		simplelisting.WithFileStore(store),
	)
	if err != nil {
		log.Fatal(err)
	}

	listingHandler := api.NewListingHandler(svc, repo)
	filesHandler := api.NewFilesHandler(store)
	adminHandler := api.NewAdminHandler(admin.New(repo))

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/listing", listingHandler.Routes())
		r.Get("/kinds", listingHandler.GetKinds)
		r.Mount("/files", filesHandler.Routes())
		r.Mount("/admin", adminHandler.Routes())
	})
	r.Get("/files/*", filesHandler.DownloadFile)

	return httptest.NewServer(r)
}

func seed(repo *memoryrepo.Repository, store simplelisting.FileStore) {
	ctx := context.Background()

	repo.SeedKindLabels(map[simplelisting.ContentKind]string{
		simplelisting.KindNews:   "News",
		simplelisting.KindEvents: "Event",
	})
	repo.SeedImageStyles("teaser_medium")
	repo.SeedTerms(&simplelisting.Term{ID: 1, Label: "Campus", URL: "/topics/campus"})

	if err := store.Upload(ctx, SeededImageKey, strings.NewReader("aerial photo bytes")); err != nil {
		log.Fatal(err)
	}

	base := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC)
	repo.SeedContent(
		&simplelisting.ContentRecord{
			ID:     uuid.New(),
			Kind:   simplelisting.KindNews,
			Title:  "Aerial Photo Contest",
			Status: simplelisting.StatusPublished,
			Date:   "2024-04-18",
			Summary: &simplelisting.RichText{
				Value:  "Campus aerial photography contest winners announced.",
				Format: "plain_text",
			},
			Image:     &simplelisting.ImageRef{FileKey: SeededImageKey, Alt: "Campus from above"},
			TermIDs:   []int64{1},
			URL:       "/news/aerial-photo-contest",
			CreatedAt: base,
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindNews,
			Title:     "Shuttle Route Update",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-04-10",
			URL:       "/news/shuttle-route-update",
			CreatedAt: base.AddDate(0, 0, 1),
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindEvents,
			Title:     "Alumni Weekend",
			Status:    simplelisting.StatusPublished,
			Date:      "2024-05-03",
			EndDate:   "2024-05-05",
			URL:       "/events/alumni-weekend",
			CreatedAt: base.AddDate(0, 0, 2),
		},
		&simplelisting.ContentRecord{
			ID:        uuid.New(),
			Kind:      simplelisting.KindEvents,
			Title:     "Unannounced Gala",
			Status:    simplelisting.StatusUnpublished,
			Date:      "2024-05-20",
			URL:       "/events/unannounced-gala",
			CreatedAt: base.AddDate(0, 0, 3),
		},
	)
}
