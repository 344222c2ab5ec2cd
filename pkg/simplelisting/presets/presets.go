// Package presets provides ready-made service configurations for common
// environments. Presets eliminate assembly boilerplate while remaining
// customizable through functional options.
package presets

import (
	"fmt"
	"log"
	"os"
	"testing"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/config"
	memoryrepo "github.com/tendant/simple-listing/pkg/simplelisting/repo/memory"
	fsstorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/fs"
	memorystorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/memory"
)

// NewDevelopment creates a service configured for local development:
// an in-memory repository pre-seeded with demo news and events,
// filesystem storage at ./dev-data (persistent across restarts), and
// event logging for debugging.
//
// The returned cleanup function removes the storage directory:
//
//	svc, cleanup, err := presets.NewDevelopment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
func NewDevelopment(opts ...DevelopmentOption) (simplelisting.Service, func(), error) {
	cfg := &devConfig{
		storageDir: "./dev-data",
		seedDemo:   true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	repo := memoryrepo.New()

	store, err := fsstorage.New(fsstorage.Config{
		BaseDir: cfg.storageDir,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create filesystem storage: %w", err)
	}

	if cfg.seedDemo {
		if err := seedFixtures(repo, store); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo content: %w", err)
		}
	}

	svc, err := simplelisting.New(
		simplelisting.WithRepository(repo),
		simplelisting.WithFileStore(store),
		simplelisting.WithEventSink(simplelisting.NewLoggingEventSink(stdLogger{})),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create service: %w", err)
	}

	cleanup := func() {
		os.RemoveAll(cfg.storageDir)
	}

	return svc, cleanup, nil
}

// NewTesting creates a service configured for tests: in-memory
// repository and storage, no event logging, cleanup registered on the
// test. By default the repository is empty; use WithTestFixtures for
// demo content or WithTestRepository to inject a pre-seeded repository.
//
//	func TestMyFeature(t *testing.T) {
//	    svc := presets.NewTesting(t, presets.WithTestFixtures())
//	    listing := svc.BuildListing(ctx, simplelisting.DefaultBlockConfig())
//	    ...
//	}
func NewTesting(t *testing.T, opts ...TestingOption) simplelisting.Service {
	cfg := &testConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	repo := cfg.repository
	if repo == nil {
		repo = memoryrepo.New()
	}
	store := memorystorage.New()

	if cfg.fixtures {
		seedable, ok := repo.(*memoryrepo.Repository)
		if !ok {
			t.Fatal("test fixtures require the in-memory repository")
		}
		if err := seedFixtures(seedable, store); err != nil {
			t.Fatalf("failed to seed test fixtures: %v", err)
		}
	}

	svc, err := simplelisting.New(
		simplelisting.WithRepository(repo),
		simplelisting.WithFileStore(store),
	)
	if err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}

	t.Cleanup(func() {
		// In-memory backends need no explicit teardown.
	})

	return svc
}

// NewProduction creates a service configured for production deployment.
// Configuration comes from the environment (DATABASE_URL, STORAGE_URL
// and friends, see the config package); options override it. In-memory
// backends are rejected: production requires a persistent database and
// storage.
//
//	svc, err := presets.NewProduction()
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewProduction(opts ...ProductionOption) (simplelisting.Service, error) {
	cfg := &prodConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// WithEnvironment comes after WithEnv so the preset wins over a
	// stray ENVIRONMENT variable.
	configOpts := []config.Option{
		config.WithEnv(),
		config.WithEnvironment("production"),
	}
	if cfg.databaseType != "" {
		configOpts = append(configOpts, config.WithDatabase(cfg.databaseType, cfg.databaseURL))
	}
	if cfg.storageURL != "" {
		configOpts = append(configOpts, config.WithStorageURL(cfg.storageURL))
	}

	serverCfg, err := config.Load(configOpts...)
	if err != nil {
		return nil, err
	}

	if serverCfg.DatabaseType == config.DatabaseMemory {
		return nil, fmt.Errorf("production preset requires a postgres database (set DATABASE_URL)")
	}
	if serverCfg.StorageType == config.StorageMemory {
		return nil, fmt.Errorf("production preset requires persistent storage (set STORAGE_URL to fs:// or s3://)")
	}

	return serverCfg.BuildService()
}

// devConfig holds development preset configuration
type devConfig struct {
	storageDir string
	seedDemo   bool
}

// testConfig holds testing preset configuration
type testConfig struct {
	fixtures   bool
	repository simplelisting.Repository
}

// prodConfig holds production preset configuration
type prodConfig struct {
	databaseType string
	databaseURL  string
	storageURL   string
}

// DevelopmentOption is a functional option for NewDevelopment
type DevelopmentOption func(*devConfig)

// WithDevStorage sets the development storage directory
func WithDevStorage(dir string) DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.storageDir = dir
	}
}

// WithoutDemoContent starts development with an empty repository
func WithoutDemoContent() DevelopmentOption {
	return func(cfg *devConfig) {
		cfg.seedDemo = false
	}
}

// TestingOption is a functional option for NewTesting
type TestingOption func(*testConfig)

// WithTestFixtures seeds the demo news and events into the test service
func WithTestFixtures() TestingOption {
	return func(cfg *testConfig) {
		cfg.fixtures = true
	}
}

// WithTestRepository injects a repository, typically a pre-seeded
// in-memory one
func WithTestRepository(repo simplelisting.Repository) TestingOption {
	return func(cfg *testConfig) {
		cfg.repository = repo
	}
}

// ProductionOption is a functional option for NewProduction
type ProductionOption func(*prodConfig)

// WithProdDatabase sets the production database configuration
func WithProdDatabase(dbType, url string) ProductionOption {
	return func(cfg *prodConfig) {
		cfg.databaseType = dbType
		cfg.databaseURL = url
	}
}

// WithProdStorage sets the production storage URL (fs:// or s3://)
func WithProdStorage(storageURL string) ProductionOption {
	return func(cfg *prodConfig) {
		cfg.storageURL = storageURL
	}
}

// TestService is a convenience alias for NewTesting with fixtures,
// giving tests a service that already returns items.
func TestService(t *testing.T) simplelisting.Service {
	return NewTesting(t, WithTestFixtures())
}

// stdLogger writes sink events through the standard logger.
type stdLogger struct{}

func (stdLogger) Infof(format string, args ...interface{}) {
	log.Printf("INFO "+format, args...)
}

func (stdLogger) Errorf(format string, args ...interface{}) {
	log.Printf("ERROR "+format, args...)
}
