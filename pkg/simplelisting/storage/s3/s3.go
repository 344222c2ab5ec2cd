package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/urlstrategy"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UseSSL          bool   // Use SSL for connections (default: true)
	UsePathStyle    bool   // Use path-style addressing (default: false)
	PresignDuration int    // Duration in seconds for presigned URLs (default: 3600)

	// Server-side encryption options
	EnableSSE    bool   // Enable server-side encryption
	SSEAlgorithm string // SSE algorithm (AES256 or aws:kms)
	SSEKMSKeyID  string // Optional KMS key ID for aws:kms algorithm

	// MinIO/S3-compatible service options
	CreateBucketIfNotExist bool // Create bucket if it doesn't exist

	// URLs, when set, replaces presigned URLs with strategy-generated ones
	// (typically a CDN in front of the bucket)
	URLs urlstrategy.URLStrategy
}

// Backend is an S3-compatible implementation of the simplelisting.FileStore
// interface
type Backend struct {
	client          *s3.Client
	bucket          string
	presignClient   *s3.PresignClient
	presignDuration time.Duration
	urls            urlstrategy.URLStrategy
	config          Config
}

// New creates a new S3-compatible file store
func New(config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	if config.PresignDuration == 0 {
		config.PresignDuration = 3600 // 1 hour default
	}

	// Set up AWS config
	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		// Use provided credentials
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Use default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Configure S3 client options
	var s3Options []func(*s3.Options)

	// Custom endpoint for S3-compatible services (MinIO, etc.)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	backend := &Backend{
		client:          client,
		bucket:          config.Bucket,
		presignClient:   s3.NewPresignClient(client),
		presignDuration: time.Duration(config.PresignDuration) * time.Second,
		urls:            config.URLs,
		config:          config,
	}

	// Create bucket if requested
	if config.CreateBucketIfNotExist {
		if err := backend.createBucketIfNotExists(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return backend, nil
}

// createBucketIfNotExists creates the bucket if it doesn't exist
func (b *Backend) createBucketIfNotExists(ctx context.Context) error {
	// Check if bucket exists
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	})

	if err == nil {
		// Bucket exists
		return nil
	}

	// Check if error indicates bucket doesn't exist (handle multiple error
	// types for MinIO compatibility)
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket

	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) &&
		!strings.Contains(err.Error(), "BadRequest") &&
		!strings.Contains(err.Error(), "NoSuchBucket") {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	// Create bucket
	createInput := &s3.CreateBucketInput{
		Bucket: aws.String(b.bucket),
	}

	// Add location constraint for regions other than us-east-1
	if b.config.Region != "us-east-1" {
		createInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(b.config.Region),
		}
	}

	_, err = b.client.CreateBucket(ctx, createInput)
	if err != nil {
		// Handle bucket already exists gracefully
		if strings.Contains(err.Error(), "BucketAlreadyExists") ||
			strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// applySSE adds server-side encryption options to a put request when
// enabled
func (b *Backend) applySSE(input *s3.PutObjectInput) {
	if !b.config.EnableSSE {
		return
	}
	switch b.config.SSEAlgorithm {
	case "AES256":
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	case "aws:kms":
		input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
		if b.config.SSEKMSKeyID != "" {
			input.SSEKMSKeyId = aws.String(b.config.SSEKMSKeyID)
		}
	}
}

// styledKey maps a base key onto the object key of its styled rendition
func styledKey(key, style string) string {
	if style == "" {
		return key
	}
	return fmt.Sprintf("styles/%s/%s", style, key)
}

// Upload uploads file data to S3
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	uploader := manager.NewUploader(b.client)

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   reader,
	}
	b.applySSE(input)

	if _, err := uploader.Upload(ctx, input); err != nil {
		return &simplelisting.StorageError{Backend: "s3", Key: key, Op: "upload", Err: err}
	}

	return nil
}

// Download downloads file data from S3
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		if isNotFound(err) {
			return nil, &simplelisting.StorageError{Backend: "s3", Key: key, Op: "download", Err: simplelisting.ErrFileNotFound}
		}
		return nil, &simplelisting.StorageError{Backend: "s3", Key: key, Op: "download", Err: err}
	}

	return result.Body, nil
}

// Delete deletes a file from S3
func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return &simplelisting.StorageError{Backend: "s3", Key: key, Op: "delete", Err: err}
	}

	return nil
}

// Exists reports whether an object is stored under the key
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, &simplelisting.StorageError{Backend: "s3", Key: key, Op: "exists", Err: err}
	}
	return true, nil
}

// isNotFound reports whether err is any of the S3 not-found shapes.
// S3-compatible services do not always return the typed errors, so the
// generic API error code is checked as well.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// FileURL resolves a stored file to a servable URL. With a URL strategy
// configured the strategy answers; otherwise a presigned GET URL is
// generated.
func (b *Backend) FileURL(ctx context.Context, key string) (string, error) {
	exists, err := b.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &simplelisting.StorageError{Backend: "s3", Key: key, Op: "file_url", Err: simplelisting.ErrFileNotFound}
	}

	if b.urls != nil {
		return b.urls.FileURL(ctx, key)
	}

	result, err := b.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = b.presignDuration
	})

	if err != nil {
		return "", &simplelisting.StorageError{Backend: "s3", Key: key, Op: "file_url", Err: err}
	}

	return result.URL, nil
}

// StyledFileURL resolves the URL of the styled rendition stored under the
// style subtree
func (b *Backend) StyledFileURL(ctx context.Context, key string, style string) (string, error) {
	exists, err := b.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &simplelisting.StorageError{Backend: "s3", Key: key, Op: "styled_file_url", Err: simplelisting.ErrFileNotFound}
	}

	if b.urls != nil {
		return b.urls.StyledFileURL(ctx, key, style)
	}

	result, err := b.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(styledKey(key, style)),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = b.presignDuration
	})

	if err != nil {
		return "", &simplelisting.StorageError{Backend: "s3", Key: key, Op: "styled_file_url", Err: err}
	}

	return result.URL, nil
}

// GetFileMeta retrieves metadata for an object in S3
func (b *Backend) GetFileMeta(ctx context.Context, key string) (*simplelisting.FileMeta, error) {
	result, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		if isNotFound(err) {
			return nil, &simplelisting.StorageError{Backend: "s3", Key: key, Op: "get_file_meta", Err: simplelisting.ErrFileNotFound}
		}
		return nil, &simplelisting.StorageError{Backend: "s3", Key: key, Op: "get_file_meta", Err: err}
	}

	contentType := "application/octet-stream"
	if result.ContentType != nil {
		contentType = *result.ContentType
	}

	metadata := make(map[string]string)
	for k, v := range result.Metadata {
		metadata[k] = v
	}
	metadata["content_type"] = contentType

	meta := &simplelisting.FileMeta{
		Key:         key,
		ContentType: contentType,
		Metadata:    metadata,
	}
	if result.ContentLength != nil {
		meta.Size = *result.ContentLength
	}
	if result.LastModified != nil {
		meta.UpdatedAt = *result.LastModified
	}
	if result.ETag != nil {
		meta.ETag = strings.Trim(*result.ETag, "\"")
	}

	return meta, nil
}
