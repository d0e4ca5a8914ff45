package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"branch-chat-service/internal/storage"
)

// UploadHandler accepts multipart file uploads and stores them on disk.
type UploadHandler struct {
	store    *storage.FileStore
	siteURL  string
	maxBytes int64
	allowed  map[string]bool
}

// NewUploadHandler builds an UploadHandler with a MIME allow-list.
func NewUploadHandler(store *storage.FileStore, siteURL string, maxBytes int64, allowedTypes []string) *UploadHandler {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return &UploadHandler{store: store, siteURL: siteURL, maxBytes: maxBytes, allowed: allowed}
}

// Upload validates size and MIME type against the allow-list, stores the
// file, and returns its public description.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File too large. Max size is %dMB", h.maxBytes>>20)})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !h.allowed[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}

	id := uuid.NewString()
	rel, err := h.store.Save(id, header.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         id,
		"url":        h.siteURL + "/uploads/" + rel,
		"filename":   header.Filename,
		"type":       contentType,
		"size":       header.Size,
		"uploadedAt": time.Now().UnixMilli(),
	})
}
