package memory

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tendant/simple-listing/pkg/simplelisting"
	"github.com/tendant/simple-listing/pkg/simplelisting/urlstrategy"
)

// Backend is an in-memory implementation of the simplelisting.FileStore
// interface
type Backend struct {
	mu    sync.RWMutex
	files map[string]storedFile
	urls  urlstrategy.URLStrategy
}

type storedFile struct {
	data        []byte
	contentType string
	updatedAt   time.Time
}

// New creates a new in-memory file store serving URLs under the default
// /files prefix
func New() *Backend {
	return NewWithURLs(urlstrategy.NewDefaultStrategy(""))
}

// NewWithURLs creates a new in-memory file store using the given URL
// strategy
func NewWithURLs(urls urlstrategy.URLStrategy) *Backend {
	if urls == nil {
		urls = urlstrategy.NewDefaultStrategy("")
	}
	return &Backend{
		files: make(map[string]storedFile),
		urls:  urls,
	}
}

// Upload stores file data directly
func (b *Backend) Upload(ctx context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return &simplelisting.StorageError{Backend: "memory", Key: key, Op: "upload", Err: err}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.files[key] = storedFile{
		data:        data,
		contentType: http.DetectContentType(data),
		updatedAt:   time.Now().UTC(),
	}
	return nil
}

// Download reads stored file data directly
func (b *Backend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	file, exists := b.files[key]
	if !exists {
		return nil, &simplelisting.StorageError{Backend: "memory", Key: key, Op: "download", Err: simplelisting.ErrFileNotFound}
	}

	return io.NopCloser(bytes.NewReader(file.data)), nil
}

// Delete removes a stored file
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.files[key]; !exists {
		return &simplelisting.StorageError{Backend: "memory", Key: key, Op: "delete", Err: simplelisting.ErrFileNotFound}
	}

	delete(b.files, key)
	return nil
}

// Exists reports whether a file is stored under the key
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, exists := b.files[key]
	return exists, nil
}

// FileURL resolves a stored file to its public URL
func (b *Backend) FileURL(ctx context.Context, key string) (string, error) {
	b.mu.RLock()
	_, exists := b.files[key]
	b.mu.RUnlock()

	if !exists {
		return "", &simplelisting.StorageError{Backend: "memory", Key: key, Op: "file_url", Err: simplelisting.ErrFileNotFound}
	}
	return b.urls.FileURL(ctx, key)
}

// StyledFileURL resolves the styled rendition URL for a stored file
func (b *Backend) StyledFileURL(ctx context.Context, key string, style string) (string, error) {
	b.mu.RLock()
	_, exists := b.files[key]
	b.mu.RUnlock()

	if !exists {
		return "", &simplelisting.StorageError{Backend: "memory", Key: key, Op: "styled_file_url", Err: simplelisting.ErrFileNotFound}
	}
	return b.urls.StyledFileURL(ctx, key, style)
}

// GetFileMeta retrieves metadata for a stored file
func (b *Backend) GetFileMeta(ctx context.Context, key string) (*simplelisting.FileMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	file, exists := b.files[key]
	if !exists {
		return nil, &simplelisting.StorageError{Backend: "memory", Key: key, Op: "get_file_meta", Err: simplelisting.ErrFileNotFound}
	}

	meta := &simplelisting.FileMeta{
		Key:         key,
		Size:        int64(len(file.data)),
		ContentType: file.contentType,
		UpdatedAt:   file.updatedAt,
		Metadata:    map[string]string{"content_type": file.contentType},
	}

	return meta, nil
}
