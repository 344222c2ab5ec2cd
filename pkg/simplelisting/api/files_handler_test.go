package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memorystorage "github.com/tendant/simple-listing/pkg/simplelisting/storage/memory"
)

func setupFilesHandlerTest(t *testing.T) (*FilesHandler, *memorystorage.Backend) {
	store := memorystorage.New()
	return NewFilesHandler(store), store
}

// multipartUpload builds a multipart body with a file part and optional
// key field.
func multipartUpload(t *testing.T, filename, key string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	if key != "" {
		require.NoError(t, writer.WriteField("key", key))
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestFilesHandler_UploadFile_Success(t *testing.T) {
	handler, _ := setupFilesHandlerTest(t)
	router := handler.Routes()

	body, contentType := multipartUpload(t, "hero.jpg", "images/hero.jpg", []byte("fake image data"))

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UploadFileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "images/hero.jpg", resp.Key)
	assert.Equal(t, int64(len("fake image data")), resp.Size)
	assert.Equal(t, "/files/images/hero.jpg", resp.URL)
}

func TestFilesHandler_UploadFile_DefaultsKeyToFilename(t *testing.T) {
	handler, _ := setupFilesHandlerTest(t)
	router := handler.Routes()

	body, contentType := multipartUpload(t, "banner.png", "", []byte("png bytes"))

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UploadFileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "banner.png", resp.Key)
}

func TestFilesHandler_UploadFile_MissingFileField(t *testing.T) {
	handler, _ := setupFilesHandlerTest(t)
	router := handler.Routes()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("key", "images/hero.jpg"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file field is required")
}

func TestFilesHandler_UploadFile_RejectsTraversal(t *testing.T) {
	handler, _ := setupFilesHandlerTest(t)
	router := handler.Routes()

	body, contentType := multipartUpload(t, "hero.jpg", "../etc/passwd", []byte("nope"))

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file key")
}

func TestFilesHandler_DownloadFile_Success(t *testing.T) {
	handler, store := setupFilesHandlerTest(t)
	router := handler.Routes()

	require.NoError(t, store.Upload(context.Background(), "images/hero.jpg", bytes.NewReader([]byte("fake image data"))))

	req := httptest.NewRequest(http.MethodGet, "/download/images/hero.jpg", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	data, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake image data", string(data))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestFilesHandler_DownloadFile_NotFound(t *testing.T) {
	handler, _ := setupFilesHandlerTest(t)
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodGet, "/download/images/missing.jpg", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilesHandler_GetFileURL(t *testing.T) {
	handler, store := setupFilesHandlerTest(t)
	router := handler.Routes()

	require.NoError(t, store.Upload(context.Background(), "images/hero.jpg", bytes.NewReader([]byte("fake image data"))))

	t.Run("original", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/url/images/hero.jpg", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp FileURLResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "/files/images/hero.jpg", resp.URL)
		assert.Empty(t, resp.Style)
	})

	t.Run("styled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/url/images/hero.jpg?style=teaser_medium", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp FileURLResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "/files/styles/teaser_medium/images/hero.jpg", resp.URL)
		assert.Equal(t, "teaser_medium", resp.Style)
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/url/images/missing.jpg", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFilesHandler_GetFileMeta(t *testing.T) {
	handler, store := setupFilesHandlerTest(t)
	router := handler.Routes()

	require.NoError(t, store.Upload(context.Background(), "images/hero.jpg", bytes.NewReader([]byte("fake image data"))))

	req := httptest.NewRequest(http.MethodGet, "/meta/images/hero.jpg", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp FileMetaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "images/hero.jpg", resp.Key)
	assert.Equal(t, int64(len("fake image data")), resp.Size)
	assert.False(t, resp.UpdatedAt.IsZero())
}

func TestFilesHandler_DeleteFile(t *testing.T) {
	handler, store := setupFilesHandlerTest(t)
	router := handler.Routes()

	require.NoError(t, store.Upload(context.Background(), "images/hero.jpg", bytes.NewReader([]byte("fake image data"))))

	req := httptest.NewRequest(http.MethodDelete, "/images/hero.jpg", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	exists, err := store.Exists(context.Background(), "images/hero.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFilesHandler_DeleteFile_NotFound(t *testing.T) {
	handler, _ := setupFilesHandlerTest(t)
	router := handler.Routes()

	req := httptest.NewRequest(http.MethodDelete, "/images/missing.jpg", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
