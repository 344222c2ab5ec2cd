// Package config provides configuration loading and service assembly for
// simple-listing servers.
//
// Configuration is built with functional options layered over defaults:
//
//	cfg, err := config.Load(
//	    config.WithEnv(),
//	    config.WithPort("9090"),
//	)
//	svc, err := cfg.BuildService()
//
// WithEnv reads environment variables (PORT, DATABASE_URL, STORAGE_URL, ...)
// while the remaining options set fields programmatically. Later options win.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
	repomemory "github.com/tendant/simple-listing/pkg/simplelisting/repo/memory"
	repopg "github.com/tendant/simple-listing/pkg/simplelisting/repo/postgres"
	fsstorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/fs"
	memorystorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/memory"
	s3storage "github.com/tendant/simple-listing/pkg/simplelisting/storage/s3"
	"github.com/tendant/simple-listing/pkg/simplelisting/urlstrategy"
)

// Database types understood by BuildRepository.
const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
)

// Storage types understood by BuildFileStore.
const (
	StorageMemory = "memory"
	StorageFS     = "fs"
	StorageS3     = "s3"
)

// ServerConfig holds the complete configuration for a listing server.
//
// The env tags are read by WithEnv; fields left unset by the environment
// keep their programmatic or default values.
type ServerConfig struct {
	Port        string `env:"PORT"`
	Environment string `env:"ENVIRONMENT"`

	// Database configuration. DatabaseURL uses scheme detection:
	// "memory://" selects the in-memory repository, "postgres://" or
	// "postgresql://" select the PostgreSQL repository.
	DatabaseType string `env:"DATABASE_TYPE"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DBSchema     string `env:"DB_SCHEMA"`

	// Storage configuration. StorageURL uses scheme detection:
	// "memory://", "fs:///var/data" and "s3://bucket?region=us-west-2"
	// select and configure the corresponding backend.
	StorageType string `env:"STORAGE_TYPE"`
	StorageURL  string `env:"STORAGE_URL"`
	FSBaseDir   string `env:"FS_BASE_DIR"`

	S3Region          string `env:"AWS_REGION"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"AWS_ENDPOINT_URL_S3"`
	S3UseSSL          bool   `env:"S3_USE_SSL"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE"`
	S3PresignSeconds  int    `env:"S3_PRESIGN_SECONDS"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET"`

	// URL strategy for image URLs. Empty selects the recommended
	// strategy for the environment (CDN in production when CDNBaseURL
	// is set, static prefix otherwise).
	URLStrategy  string `env:"URL_STRATEGY"`
	FilesBaseURL string `env:"FILES_BASE_URL"`
	CDNBaseURL   string `env:"CDN_BASE_URL"`

	EnableEventLogging bool `env:"ENABLE_EVENT_LOGGING"`
	EnableAdminAPI     bool `env:"ENABLE_ADMIN_API"`
}

// Option mutates the configuration during Load.
type Option func(*ServerConfig) error

// Load builds a ServerConfig from defaults and the given options, then
// validates it.
func Load(options ...Option) (*ServerConfig, error) {
	cfg := defaults()
	for _, opt := range options {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		DatabaseType:       DatabaseMemory,
		DBSchema:           "listing",
		StorageType:        StorageMemory,
		FilesBaseURL:       "/files",
		S3Region:           "us-east-1",
		S3UseSSL:           true,
		S3PresignSeconds:   3600,
		EnableEventLogging: true,
		EnableAdminAPI:     true,
	}
}

// Validate checks the configuration for consistency.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}

	switch c.DatabaseType {
	case DatabaseMemory:
	case DatabasePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	switch c.StorageType {
	case StorageMemory:
	case StorageFS:
		if c.FSBaseDir == "" {
			return fmt.Errorf("base directory is required for filesystem storage")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	switch c.URLStrategy {
	case "", string(urlstrategy.StrategyTypeStatic):
	case string(urlstrategy.StrategyTypeCDN):
		if c.CDNBaseURL == "" {
			return fmt.Errorf("CDN base URL is required for the cdn URL strategy")
		}
	default:
		return fmt.Errorf("unsupported URL strategy: %s", c.URLStrategy)
	}

	return nil
}

// BuildService assembles a listing service from the configuration.
func (c *ServerConfig) BuildService() (simplelisting.Service, error) {
	repo, err := c.BuildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build file store: %w", err)
	}

	return c.BuildServiceWith(repo, store)
}

// BuildServiceWith assembles a listing service around collaborators the
// caller already holds. Servers use this to share one repository between
// the listing service and the admin service instead of opening a second
// database pool. Extra options are applied after the configured ones.
func (c *ServerConfig) BuildServiceWith(repo simplelisting.Repository, store simplelisting.FileStore, extra ...simplelisting.Option) (simplelisting.Service, error) {
	options := []simplelisting.Option{
		simplelisting.WithRepository(repo),
		simplelisting.WithFileStore(store),
	}
	if c.EnableEventLogging {
		options = append(options,
			simplelisting.WithEventSink(simplelisting.NewLoggingEventSink(slogPrintf{slog.Default()})))
	}
	options = append(options, extra...)

	return simplelisting.New(options...)
}

// BuildRepository creates the content repository selected by the
// configuration.
func (c *ServerConfig) BuildRepository() (simplelisting.Repository, error) {
	switch c.DatabaseType {
	case DatabaseMemory:
		return repomemory.New(), nil

	case DatabasePostgres:
		poolConfig, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse database URL: %w", err)
		}
		if c.DBSchema != "" {
			poolConfig.ConnConfig.RuntimeParams["search_path"] = c.DBSchema
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// BuildFileStore creates the file store selected by the configuration.
func (c *ServerConfig) BuildFileStore() (simplelisting.FileStore, error) {
	switch c.StorageType {
	case StorageMemory:
		return memorystorage.NewWithURLs(c.buildURLStrategy()), nil

	case StorageFS:
		return fsstorage.New(fsstorage.Config{
			BaseDir: c.FSBaseDir,
			URLs:    c.buildURLStrategy(),
		})

	case StorageS3:
		// Leave URLs nil unless a strategy was chosen explicitly, so
		// the backend serves presigned URLs by default.
		var urls urlstrategy.URLStrategy
		if c.URLStrategy != "" {
			urls = c.buildURLStrategy()
		}
		return s3storage.New(s3storage.Config{
			Region:                 c.S3Region,
			Bucket:                 c.S3Bucket,
			AccessKeyID:            c.S3AccessKeyID,
			SecretAccessKey:        c.S3SecretAccessKey,
			Endpoint:               c.S3Endpoint,
			UseSSL:                 c.S3UseSSL,
			UsePathStyle:           c.S3UsePathStyle,
			PresignDuration:        c.S3PresignSeconds,
			CreateBucketIfNotExist: c.S3CreateBucket,
			URLs:                   urls,
		})

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

func (c *ServerConfig) buildURLStrategy() urlstrategy.URLStrategy {
	switch c.URLStrategy {
	case string(urlstrategy.StrategyTypeStatic):
		return urlstrategy.NewStaticPrefixStrategy(c.FilesBaseURL)
	case string(urlstrategy.StrategyTypeCDN):
		return urlstrategy.NewCDNStrategy(c.CDNBaseURL)
	default:
		return urlstrategy.NewRecommendedStrategy(c.Environment, c.CDNBaseURL, c.FilesBaseURL)
	}
}

// PingPostgres verifies that the configured PostgreSQL database is
// reachable. Used by readiness probes before accepting traffic.
func PingPostgres(ctx context.Context, databaseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	return nil
}

// slogPrintf adapts slog to the printf-style Logger the logging event
// sink expects.
type slogPrintf struct {
	logger *slog.Logger
}

func (s slogPrintf) Infof(format string, args ...interface{}) {
	s.logger.Info(fmt.Sprintf(format, args...))
}

func (s slogPrintf) Errorf(format string, args ...interface{}) {
	s.logger.Error(fmt.Sprintf(format, args...))
}
