package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"branch-chat-service/internal/websearch"
)

// Searcher runs a query through the configured provider chain.
type Searcher interface {
	Search(ctx context.Context, query string) (websearch.Response, error)
}

// SearchHandler exposes the web-search endpoint.
type SearchHandler struct {
	chain Searcher
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(chain Searcher) *SearchHandler {
	return &SearchHandler{chain: chain}
}

// Search validates the query and delegates to the provider chain. An empty
// query is rejected before any outbound call happens.
func (h *SearchHandler) Search(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	resp, err := h.chain.Search(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
