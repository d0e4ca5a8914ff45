package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"branch-chat-service/internal/middleware"
	"branch-chat-service/internal/push"
)

// SyncHandler accepts mutation batches from clients.
type SyncHandler struct {
	processor *push.Processor
}

// NewSyncHandler builds a SyncHandler.
func NewSyncHandler(processor *push.Processor) *SyncHandler {
	return &SyncHandler{processor: processor}
}

// Push applies a batch of mutations and reports per-mutation outcomes. A
// rejected mutation is rolled back on its own; the batch always answers 200
// so the client can inspect individual results.
func (h *SyncHandler) Push(c *gin.Context) {
	var req push.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.processor.Process(c.Request.Context(), middleware.IdentityFrom(c), req)
	c.JSON(http.StatusOK, gin.H{"clientID": req.ClientID, "results": results})
}
