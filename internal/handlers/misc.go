package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"branch-chat-service/internal/llm"
)

const serviceVersion = "1.0.0"

// Models returns the chat model catalog.
func Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": llm.ChatModels})
}

// ImageModels returns the image-generation model catalog.
func ImageModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": llm.ImageModels})
}

// Health reports service liveness and the feature surface.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "branch-chat-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   serviceVersion,
		"features": []string{
			"llm-chat",
			"image-generation",
			"file-upload",
			"web-search",
			"chat-sharing",
			"mutation-push",
		},
	})
}
