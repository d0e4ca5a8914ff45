package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"branch-chat-service/internal/llm"
	"branch-chat-service/internal/observability"
)

// CompletionHandler proxies chat-completion and image-generation requests to
// the configured upstream.
type CompletionHandler struct {
	client *llm.Client
}

// NewCompletionHandler builds a CompletionHandler.
func NewCompletionHandler(client *llm.Client) *CompletionHandler {
	return &CompletionHandler{client: client}
}

// Chat forwards {model, messages, stream?} upstream. Non-streaming requests
// answer with the upstream JSON body; streaming requests pass the event
// stream through untouched.
func (h *CompletionHandler) Chat(c *gin.Context) {
	h.chat(c, false)
}

// ChatStream behaves like Chat with streaming forced on.
func (h *CompletionHandler) ChatStream(c *gin.Context) {
	h.chat(c, true)
}

func (h *CompletionHandler) chat(c *gin.Context, forceStream bool) {
	var req llm.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Model) == "" || len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model and messages are required"})
		return
	}
	if req.Temperature == 0 {
		req.Temperature = 0.7
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 4000
	}

	if forceStream || req.Stream {
		body, err := h.client.StreamCompletion(c.Request.Context(), req)
		if err != nil {
			h.upstreamError(c, err)
			return
		}
		defer body.Close()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, body)
		return
	}

	data, err := h.client.Complete(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// GenerateImage forwards {prompt, model?} to the image-generation API.
func (h *CompletionHandler) GenerateImage(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
		Model  string `json:"model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}
	if req.Model == "" {
		req.Model = "openai/dall-e-3"
	}

	data, err := h.client.GenerateImage(c.Request.Context(), llm.ImageRequest{Model: req.Model, Prompt: req.Prompt})
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (h *CompletionHandler) upstreamError(c *gin.Context, err error) {
	observability.IncUpstreamError("openrouter")
	var ue *llm.UpstreamError
	if errors.As(err, &ue) {
		status := http.StatusBadGateway
		if ue.Status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": ue.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "completion request failed"})
}
