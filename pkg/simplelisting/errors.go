package simplelisting

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrContentNotFound indicates a content record was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrTermNotFound indicates a taxonomy term was not found
	ErrTermNotFound = errors.New("term not found")

	// ErrKindNotFound indicates a content kind has no registered label
	ErrKindNotFound = errors.New("content kind not found")

	// ErrImageStyleNotFound indicates a named image style is not defined
	ErrImageStyleNotFound = errors.New("image style not found")

	// ErrFileNotFound indicates a stored file was not found
	ErrFileNotFound = errors.New("file not found")

	// ErrStorageBackendNotFound indicates a storage backend was not found
	ErrStorageBackendNotFound = errors.New("storage backend not found")

	// ErrInvalidSort indicates an unsupported sort field or order
	ErrInvalidSort = errors.New("invalid sort")
)

// RepositoryError represents an error raised by a repository operation
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository operation %s failed: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// StorageError represents an error raised by a file store operation
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
