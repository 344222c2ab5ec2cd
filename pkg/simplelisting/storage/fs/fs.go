package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/urlstrategy"
)

// Backend is a filesystem implementation of the simplelisting.FileStore
// interface
type Backend struct {
	baseDir string
	urls    urlstrategy.URLStrategy
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string                  // Base directory for storing files
	URLs    urlstrategy.URLStrategy // Optional URL strategy; defaults to the /files prefix
}

// New creates a new filesystem file store
func New(config Config) (*Backend, error) {
	// Validate and create base directory if it doesn't exist
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	urls := config.URLs
	if urls == nil {
		urls = urlstrategy.NewDefaultStrategy("")
	}

	return &Backend{
		baseDir: config.BaseDir,
		urls:    urls,
	}, nil
}

// keyPath maps a storage key onto the base directory. Keys may carry slashes
// for subdirectories but must not escape the base directory.
func (b *Backend) keyPath(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid file key: %q", key)
	}
	return filepath.Join(b.baseDir, filepath.FromSlash(key)), nil
}

// Upload stores file data on the filesystem
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	filePath, err := b.keyPath(key)
	if err != nil {
		return &simplelisting.StorageError{Backend: "fs", Key: key, Op: "upload", Err: err}
	}

	// Create directory structure if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &simplelisting.StorageError{Backend: "fs", Key: key, Op: "upload", Err: fmt.Errorf("failed to create directory: %w", err)}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return &simplelisting.StorageError{Backend: "fs", Key: key, Op: "upload", Err: fmt.Errorf("failed to create file: %w", err)}
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return &simplelisting.StorageError{Backend: "fs", Key: key, Op: "upload", Err: fmt.Errorf("failed to write file: %w", err)}
	}

	return nil
}

// Download reads file data from the filesystem
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath, err := b.keyPath(key)
	if err != nil {
		return nil, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "download", Err: err}
	}

	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		return nil, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "download", Err: simplelisting.ErrFileNotFound}
	} else if err != nil {
		return nil, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "download", Err: err}
	}

	return file, nil
}

// Delete removes a file from the filesystem
func (b *Backend) Delete(ctx context.Context, key string) error {
	filePath, err := b.keyPath(key)
	if err != nil {
		return &simplelisting.StorageError{Backend: "fs", Key: key, Op: "delete", Err: err}
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return &simplelisting.StorageError{Backend: "fs", Key: key, Op: "delete", Err: simplelisting.ErrFileNotFound}
	}

	if err := os.Remove(filePath); err != nil {
		return &simplelisting.StorageError{Backend: "fs", Key: key, Op: "delete", Err: err}
	}

	// Clean up empty directories
	b.cleanupEmptyDirectories(filepath.Dir(filePath))

	return nil
}

// Exists reports whether a file is stored under the key
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	filePath, err := b.keyPath(key)
	if err != nil {
		return false, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "exists", Err: err}
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "exists", Err: err}
	}
	return true, nil
}

// FileURL resolves a stored file to its public URL
func (b *Backend) FileURL(ctx context.Context, key string) (string, error) {
	exists, err := b.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &simplelisting.StorageError{Backend: "fs", Key: key, Op: "file_url", Err: simplelisting.ErrFileNotFound}
	}
	return b.urls.FileURL(ctx, key)
}

// StyledFileURL resolves the styled rendition URL for a stored file
func (b *Backend) StyledFileURL(ctx context.Context, key string, style string) (string, error) {
	exists, err := b.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &simplelisting.StorageError{Backend: "fs", Key: key, Op: "styled_file_url", Err: simplelisting.ErrFileNotFound}
	}
	return b.urls.StyledFileURL(ctx, key, style)
}

// GetFileMeta retrieves metadata for a stored file
func (b *Backend) GetFileMeta(ctx context.Context, key string) (*simplelisting.FileMeta, error) {
	filePath, err := b.keyPath(key)
	if err != nil {
		return nil, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "get_file_meta", Err: err}
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "get_file_meta", Err: simplelisting.ErrFileNotFound}
	} else if err != nil {
		return nil, &simplelisting.StorageError{Backend: "fs", Key: key, Op: "get_file_meta", Err: err}
	}

	// Detect content type from the leading bytes
	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}

	meta := &simplelisting.FileMeta{
		Key:         key,
		Size:        info.Size(),
		ContentType: contentType,
		UpdatedAt:   info.ModTime(),
		Metadata:    map[string]string{"content_type": contentType},
	}

	return meta, nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	// Don't remove the base directory
	if dir == b.baseDir {
		return
	}

	// Check if directory is empty
	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		// Remove empty directory
		if os.Remove(dir) == nil {
			// Recursively clean parent directory
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
