package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branch-chat-service/internal/storage"
)

func setupUploadRouter(t *testing.T, maxBytes int64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	handler := NewUploadHandler(store, "http://localhost:8080", maxBytes, []string{"image/png", "text/plain", "application/pdf"})

	r := gin.New()
	r.POST("/upload", handler.Upload)
	return r, dir
}

func multipartFile(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := setupUploadRouter(t, 16<<20)

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file provided")
}

func TestUploadRejectsOversize(t *testing.T) {
	r, _ := setupUploadRouter(t, 8)

	body, contentType := multipartFile(t, "notes.txt", "text/plain", []byte("well over eight bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File too large")
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	r, _ := setupUploadRouter(t, 16<<20)

	body, contentType := multipartFile(t, "evil.exe", "application/x-msdownload", []byte{0x4d, 0x5a})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "File type not allowed")
}

func TestUploadStoresFile(t *testing.T) {
	r, dir := setupUploadRouter(t, 16<<20)

	body, contentType := multipartFile(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ID         string `json:"id"`
		URL        string `json:"url"`
		Filename   string `json:"filename"`
		Type       string `json:"type"`
		Size       int64  `json:"size"`
		UploadedAt int64  `json:"uploadedAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "notes.txt", resp.Filename)
	assert.Equal(t, "text/plain", resp.Type)
	assert.Equal(t, int64(5), resp.Size)
	assert.Equal(t, "http://localhost:8080/uploads/"+resp.ID+"/notes.txt", resp.URL)
	assert.NotZero(t, resp.UploadedAt)

	stored, err := os.ReadFile(filepath.Join(dir, resp.ID, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(stored))
}
