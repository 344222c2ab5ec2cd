package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	simplelisting "github.com/tendant/simple-listing/pkg/simplelisting"
)

// GetListing fetches a listing via the API
func GetListing(t *testing.T, serverURL, query string) simplelisting.Listing {
	t.Helper()

	resp, err := http.Get(serverURL + "/api/v1/listing" + query)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing simplelisting.Listing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	return listing
}

// BuildListing posts a block configuration and returns the built listing
func BuildListing(t *testing.T, serverURL string, cfg simplelisting.BlockConfig) simplelisting.Listing {
	t.Helper()

	body, err := json.Marshal(cfg)
	require.NoError(t, err)

	resp, err := http.Post(serverURL+"/api/v1/listing", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing simplelisting.Listing
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	return listing
}

// GetCacheMetadata fetches cache metadata via the API
func GetCacheMetadata(t *testing.T, serverURL, query string) simplelisting.CacheMetadata {
	t.Helper()

	resp, err := http.Get(serverURL + "/api/v1/listing/cache-metadata" + query)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var meta simplelisting.CacheMetadata
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&meta))
	return meta
}

// UploadFile uploads file content under the given key via the files API
func UploadFile(t *testing.T, serverURL, key, content string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("key", key))
	fw, err := mw.CreateFormFile("file", "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(serverURL+"/api/v1/files", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// DownloadFile fetches raw file bytes from the static files mount
func DownloadFile(t *testing.T, serverURL, key string) string {
	t.Helper()

	resp, err := http.Get(serverURL + "/files/" + key)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
