package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
)

const maxUploadSize = 32 << 20 // 32 MB

// FilesHandler handles file upload and retrieval API endpoints
type FilesHandler struct {
	store simplelisting.FileStore
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(store simplelisting.FileStore) *FilesHandler {
	return &FilesHandler{store: store}
}

// Routes returns the router for files endpoints. File keys may contain
// slashes, so key-addressed routes use a trailing wildcard.
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.UploadFile)
	r.Get("/url/*", h.GetFileURL)
	r.Get("/meta/*", h.GetFileMeta)
	r.Get("/download/*", h.DownloadFile)
	r.Delete("/*", h.DeleteFile)

	return r
}

// UploadFileResponse represents the response after uploading a file
type UploadFileResponse struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	URL  string `json:"url,omitempty"`
}

// FileURLResponse carries a resolved file URL
type FileURLResponse struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Style string `json:"style,omitempty"`
}

// FileMetaResponse represents stored file metadata
type FileMetaResponse struct {
	Key         string            `json:"key"`
	Size        int64             `json:"size"`
	ContentType string            `json:"content_type,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ETag        string            `json:"etag,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// UploadFile stores a multipart file under the given key. The key comes
// from the "key" form value, falling back to the uploaded file name.
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Missing file field", "error", err)
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	key := r.FormValue("key")
	if key == "" {
		key = header.Filename
	}
	if !validFileKey(key) {
		http.Error(w, "Invalid file key", http.StatusBadRequest)
		return
	}

	if err := h.store.Upload(r.Context(), key, file); err != nil {
		slog.Error("Failed to upload file", "key", key, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := UploadFileResponse{Key: key, Size: header.Size}
	if fileURL, err := h.store.FileURL(r.Context(), key); err == nil {
		resp.URL = fileURL
	}

	slog.Info("File uploaded", "key", key, "size", header.Size)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// GetFileURL resolves the servable URL for a stored file. An optional
// style query parameter resolves the styled rendition instead.
func (h *FilesHandler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	key, ok := fileKeyParam(w, r)
	if !ok {
		return
	}

	style := r.URL.Query().Get("style")

	var fileURL string
	var err error
	if style != "" {
		fileURL, err = h.store.StyledFileURL(r.Context(), key, style)
	} else {
		fileURL, err = h.store.FileURL(r.Context(), key)
	}
	if err != nil {
		if errors.Is(err, simplelisting.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to resolve file URL", "key", key, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, FileURLResponse{Key: key, URL: fileURL, Style: style})
}

// GetFileMeta returns stored metadata for a file
func (h *FilesHandler) GetFileMeta(w http.ResponseWriter, r *http.Request) {
	key, ok := fileKeyParam(w, r)
	if !ok {
		return
	}

	meta, err := h.store.GetFileMeta(r.Context(), key)
	if err != nil {
		if errors.Is(err, simplelisting.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get file metadata", "key", key, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, FileMetaResponse{
		Key:         meta.Key,
		Size:        meta.Size,
		ContentType: meta.ContentType,
		UpdatedAt:   meta.UpdatedAt,
		ETag:        meta.ETag,
		Metadata:    meta.Metadata,
	})
}

// DownloadFile streams a stored file. Also mounted at /files/ to back
// the static URL strategy.
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	key, ok := fileKeyParam(w, r)
	if !ok {
		return
	}

	reader, err := h.store.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, simplelisting.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to download file", "key", key, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	contentType := "application/octet-stream"
	if meta, err := h.store.GetFileMeta(r.Context(), key); err == nil && meta.ContentType != "" {
		contentType = meta.ContentType
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Failed to stream file", "key", key, "error", err)
	}
}

// DeleteFile removes a stored file
func (h *FilesHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	key, ok := fileKeyParam(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		if errors.Is(err, simplelisting.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete file", "key", key, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("File deleted", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// fileKeyParam extracts and validates the wildcard file key. It writes
// a 400 response and returns false for unusable keys.
func fileKeyParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "*")
	key, err := url.PathUnescape(raw)
	if err != nil {
		key = raw
	}
	if !validFileKey(key) {
		http.Error(w, "Invalid file key", http.StatusBadRequest)
		return "", false
	}
	return key, true
}

func validFileKey(key string) bool {
	return key != "" && !strings.Contains(key, "..")
}
