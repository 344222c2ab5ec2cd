package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendant/simple-listing/pkg/simplelisting"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	key := "images/news/2024/hero.jpg"

	// Upload
	data := []byte("hello fs")
	if err := backend.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	// GetFileMeta
	meta, err := backend.GetFileMeta(ctx, key)
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), meta.Size)
	}

	// Exists
	exists, err := backend.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("expected key to exist, exists=%v err=%v", exists, err)
	}

	// Download
	rc, err := backend.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != string(data) {
		t.Fatalf("download mismatch: %q", string(got))
	}

	// Delete
	if err := backend.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Ensure file removed
	if _, err := os.Stat(filepath.Join(tmp, filepath.FromSlash(key))); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	// Ensure empty parent directories cleaned up
	if _, err := os.Stat(filepath.Join(tmp, "images")); !os.IsNotExist(err) {
		t.Fatalf("expected empty parents removed, stat err=%v", err)
	}
}

func TestFSBackend_URLs(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	if err := backend.Upload(ctx, "hero.jpg", bytes.NewReader([]byte("img"))); err != nil {
		t.Fatalf("upload: %v", err)
	}

	url, err := backend.FileURL(ctx, "hero.jpg")
	if err != nil {
		t.Fatalf("file url: %v", err)
	}
	if url != "/files/hero.jpg" {
		t.Fatalf("unexpected file url: %q", url)
	}

	styled, err := backend.StyledFileURL(ctx, "hero.jpg", "teaser_medium")
	if err != nil {
		t.Fatalf("styled file url: %v", err)
	}
	if styled != "/files/styles/teaser_medium/hero.jpg" {
		t.Fatalf("unexpected styled url: %q", styled)
	}

	if _, err := backend.FileURL(ctx, "missing.jpg"); !errors.Is(err, simplelisting.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestFSBackend_InvalidKey(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	ctx := context.Background()

	if err := backend.Upload(ctx, "../escape.txt", bytes.NewReader([]byte("x"))); err == nil {
		t.Fatalf("expected error for traversal key")
	}
	if _, err := backend.Download(ctx, ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestFSBackend_MissingBaseDir(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error without base directory")
	}
}
