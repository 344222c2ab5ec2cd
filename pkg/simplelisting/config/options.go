package config

import (
	"fmt"

	"github.com/tendant/simple-listing/pkg/simplelisting/urlstrategy"
)

// WithDefaults resets the configuration to its defaults. Useful as the
// first option when an earlier option set should be discarded.
func WithDefaults() Option {
	return func(c *ServerConfig) error {
		*c = defaults()
		return nil
	}
}

// WithPort sets the HTTP listen port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the deployment environment (development,
// production, testing).
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase selects the repository backend. dbType is "memory" or
// "postgres"; databaseURL is required for postgres and ignored for
// memory.
func WithDatabase(dbType, databaseURL string) Option {
	return func(c *ServerConfig) error {
		switch dbType {
		case DatabaseMemory:
			c.DatabaseType = DatabaseMemory
			c.DatabaseURL = ""
		case DatabasePostgres:
			if databaseURL == "" {
				return fmt.Errorf("database URL is required for postgres")
			}
			c.DatabaseType = DatabasePostgres
			c.DatabaseURL = databaseURL
		default:
			return fmt.Errorf("unsupported database type: %s", dbType)
		}
		return nil
	}
}

// WithDatabaseURL selects the repository backend from a URL, using the
// same scheme detection as WithEnv.
func WithDatabaseURL(databaseURL string) Option {
	return func(c *ServerConfig) error {
		if databaseURL == "" {
			return fmt.Errorf("database URL cannot be empty")
		}
		c.DatabaseURL = databaseURL
		return applyDatabaseURL(c)
	}
}

// WithDatabaseSchema sets the PostgreSQL schema (search_path) used by
// the repository.
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithStorageURL selects and configures the storage backend from a URL,
// using the same scheme detection as WithEnv.
func WithStorageURL(storageURL string) Option {
	return func(c *ServerConfig) error {
		if storageURL == "" {
			return fmt.Errorf("storage URL cannot be empty")
		}
		c.StorageURL = storageURL
		return applyStorageURL(c)
	}
}

// WithMemoryStorage selects the in-memory file store.
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.StorageType = StorageMemory
		return nil
	}
}

// WithFilesystemStorage selects the filesystem file store rooted at
// baseDir.
func WithFilesystemStorage(baseDir string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("base directory cannot be empty")
		}
		c.StorageType = StorageFS
		c.FSBaseDir = baseDir
		return nil
	}
}

// WithS3Storage selects the S3 file store.
func WithS3Storage(bucket, region string) Option {
	return func(c *ServerConfig) error {
		if bucket == "" {
			return fmt.Errorf("bucket cannot be empty")
		}
		c.StorageType = StorageS3
		c.S3Bucket = bucket
		if region != "" {
			c.S3Region = region
		}
		return nil
	}
}

// WithS3Credentials sets static S3 credentials. Without them the AWS
// SDK falls back to its default credential chain.
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		c.S3AccessKeyID = accessKeyID
		c.S3SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithS3Endpoint sets a custom S3 endpoint for MinIO and other
// S3-compatible services. Path-style addressing is usually required for
// those.
func WithS3Endpoint(endpoint string, usePathStyle bool) Option {
	return func(c *ServerConfig) error {
		c.S3Endpoint = endpoint
		c.S3UsePathStyle = usePathStyle
		return nil
	}
}

// WithS3PresignDuration sets the lifetime of presigned URLs in seconds.
func WithS3PresignDuration(seconds int) Option {
	return func(c *ServerConfig) error {
		if seconds <= 0 {
			return fmt.Errorf("presign duration must be positive")
		}
		c.S3PresignSeconds = seconds
		return nil
	}
}

// WithStaticURLs serves image URLs under the given application prefix,
// e.g. "/files".
func WithStaticURLs(filesBaseURL string) Option {
	return func(c *ServerConfig) error {
		if filesBaseURL == "" {
			return fmt.Errorf("files base URL cannot be empty")
		}
		c.URLStrategy = string(urlstrategy.StrategyTypeStatic)
		c.FilesBaseURL = filesBaseURL
		return nil
	}
}

// WithCDNURLs serves image URLs directly from a CDN.
func WithCDNURLs(cdnBaseURL string) Option {
	return func(c *ServerConfig) error {
		if cdnBaseURL == "" {
			return fmt.Errorf("CDN base URL cannot be empty")
		}
		c.URLStrategy = string(urlstrategy.StrategyTypeCDN)
		c.CDNBaseURL = cdnBaseURL
		return nil
	}
}

// WithEventLogging toggles the logging event sink on the built service.
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}

// WithAdminAPI toggles the admin endpoints on the HTTP server.
func WithAdminAPI(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableAdminAPI = enabled
		return nil
	}
}
