package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/urlstrategy"
)

func TestS3Backend_BasicConfiguration(t *testing.T) {
	t.Run("EmptyBucket", func(t *testing.T) {
		config := Config{
			Region: "us-east-1",
			Bucket: "",
		}
		_, err := New(config)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("DefaultRegionAndPresignDuration", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		backend, err := New(config)
		// May error due to environment, but not due to missing bucket
		if err != nil {
			assert.NotContains(t, err.Error(), "bucket name is required")
			return
		}
		require.NotNil(t, backend)
		assert.Equal(t, 3600*time.Second, backend.presignDuration)
		assert.Equal(t, "us-east-1", backend.config.Region)
	})

	t.Run("CustomPresignDuration", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			PresignDuration: 7200,
		}
		backend, err := New(config)
		if err == nil {
			require.NotNil(t, backend)
			assert.Equal(t, 7200*time.Second, backend.presignDuration)
		}
	})

	t.Run("MinIOEndpoint", func(t *testing.T) {
		config := Config{
			Bucket:          "test-bucket",
			Region:          "us-east-1",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			Endpoint:        "http://localhost:9000",
			UsePathStyle:    true,
		}
		backend, err := New(config)
		if err == nil {
			require.NotNil(t, backend)
			assert.Equal(t, "http://localhost:9000", backend.config.Endpoint)
			assert.True(t, backend.config.UsePathStyle)
		}
	})
}

func TestStyledKey(t *testing.T) {
	assert.Equal(t, "styles/teaser_medium/images/hero.jpg", styledKey("images/hero.jpg", "teaser_medium"))
	assert.Equal(t, "images/hero.jpg", styledKey("images/hero.jpg", ""))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&types.NoSuchKey{}))

	// S3-compatible services may return a bare API error with only the code set
	wrapped := fmt.Errorf("operation error S3: HeadObject: %w", &smithy.GenericAPIError{Code: "NotFound"})
	assert.True(t, isNotFound(wrapped))

	assert.False(t, isNotFound(errors.New("connection refused")))
	assert.False(t, isNotFound(nil))
}

// TestS3Backend_Integration exercises real S3/MinIO operations. It requires
// a running MinIO instance or S3 credentials in the environment.
func TestS3Backend_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	endpoint := os.Getenv("AWS_S3_ENDPOINT")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	bucket := os.Getenv("AWS_S3_BUCKET")

	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		t.Skip("Skipping integration test: S3/MinIO environment variables not set")
	}

	config := Config{
		Bucket:                 bucket,
		Region:                 "us-east-1",
		AccessKeyID:            accessKey,
		SecretAccessKey:        secretKey,
		Endpoint:               endpoint,
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	}

	backend, err := New(config)
	require.NoError(t, err, "Failed to create S3 backend")
	require.NotNil(t, backend)

	ctx := context.Background()
	key := fmt.Sprintf("test/integration/%d/hero.jpg", time.Now().Unix())
	testData := []byte("Hello from S3 integration test!")

	t.Run("UploadAndDownload", func(t *testing.T) {
		err := backend.Upload(ctx, key, bytes.NewReader(testData))
		require.NoError(t, err, "Failed to upload file")

		reader, err := backend.Download(ctx, key)
		require.NoError(t, err, "Failed to download file")
		defer reader.Close()

		downloadedData, err := io.ReadAll(reader)
		require.NoError(t, err, "Failed to read downloaded data")
		assert.Equal(t, testData, downloadedData)
	})

	t.Run("Exists", func(t *testing.T) {
		exists, err := backend.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = backend.Exists(ctx, "nonexistent/file.jpg")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("GetFileMeta", func(t *testing.T) {
		meta, err := backend.GetFileMeta(ctx, key)
		require.NoError(t, err, "Failed to get file metadata")
		assert.Greater(t, meta.Size, int64(0))
		assert.NotEmpty(t, meta.ETag)
	})

	t.Run("FileURL_Presigned", func(t *testing.T) {
		url, err := backend.FileURL(ctx, key)
		require.NoError(t, err, "Failed to presign file URL")
		assert.NotEmpty(t, url)
		assert.Contains(t, url, bucket)
	})

	t.Run("StyledFileURL_Presigned", func(t *testing.T) {
		url, err := backend.StyledFileURL(ctx, key, "teaser_medium")
		require.NoError(t, err, "Failed to presign styled URL")
		assert.Contains(t, url, "styles/teaser_medium")
	})

	t.Run("FileURL_NotFound", func(t *testing.T) {
		_, err := backend.FileURL(ctx, "nonexistent/file.jpg")
		require.Error(t, err)
		assert.True(t, errors.Is(err, simplelisting.ErrFileNotFound))
	})

	t.Run("FileURL_CDNDelegated", func(t *testing.T) {
		cdnConfig := config
		cdnConfig.URLs = urlstrategy.NewCDNStrategy("https://cdn.example.org")
		cdnBackend, err := New(cdnConfig)
		require.NoError(t, err)

		url, err := cdnBackend.FileURL(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.org/"+key, url)
	})

	t.Run("Delete", func(t *testing.T) {
		err := backend.Delete(ctx, key)
		require.NoError(t, err, "Failed to delete file")

		_, err = backend.Download(ctx, key)
		require.Error(t, err, "Should error when downloading deleted file")
	})
}
