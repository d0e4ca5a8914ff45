package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/middleware"
	"branch-chat-service/internal/models"
	"branch-chat-service/internal/mutators"
)

var (
	errChatNotFound  = errors.New("chat not found")
	errShareNotFound = errors.New("share link not found")
)

// ShareHandler creates and resolves chat share links.
type ShareHandler struct {
	eng     engine.Engine
	reg     *mutators.Registry
	siteURL string
}

// NewShareHandler builds a ShareHandler.
func NewShareHandler(eng engine.Engine, reg *mutators.Registry, siteURL string) *ShareHandler {
	return &ShareHandler{eng: eng, reg: reg, siteURL: siteURL}
}

// Create mints a share link for a chat. The caller must be authenticated and
// the chat must exist.
func (h *ShareHandler) Create(c *gin.Context) {
	ident := middleware.IdentityFrom(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		ChatID             string `json:"chatID"`
		IsPublic           bool   `json:"isPublic"`
		AllowCollaboration bool   `json:"allowCollaboration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.ChatID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chatID is required"})
		return
	}

	link := models.ShareLink{
		ID:                 uuid.NewString(),
		ChatID:             req.ChatID,
		CreatedBy:          ident.Subject,
		CreatedAt:          time.Now().UnixMilli(),
		IsPublic:           req.IsPublic,
		AllowCollaboration: req.AllowCollaboration,
	}

	err := h.eng.Execute(c.Request.Context(), func(tx engine.Tx) error {
		if _, ok, err := tx.GetChat(c.Request.Context(), req.ChatID); err != nil {
			return err
		} else if !ok {
			return errChatNotFound
		}
		return h.reg.ShareLinkCreate(c.Request.Context(), tx, ident, link)
	})
	if errors.Is(err, errChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create share link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shareID":  link.ID,
		"shareUrl": h.siteURL + "/share/" + link.ID,
	})
}

// Resolve returns the shared chat and its messages. No authentication is
// required to view a share link.
func (h *ShareHandler) Resolve(c *gin.Context) {
	shareID := c.Param("shareID")

	var (
		link     models.ShareLink
		chat     models.Chat
		messages []models.Message
	)
	err := h.eng.Execute(c.Request.Context(), func(tx engine.Tx) error {
		l, ok, err := tx.GetShareLink(c.Request.Context(), shareID)
		if err != nil {
			return err
		}
		if !ok {
			return errShareNotFound
		}
		link = l

		ch, ok, err := tx.GetChat(c.Request.Context(), link.ChatID)
		if err != nil {
			return err
		}
		if !ok {
			return errChatNotFound
		}
		chat = ch

		msgs, err := tx.ListChatMessages(c.Request.Context(), chat.ID)
		if err != nil {
			return err
		}
		messages = msgs
		return nil
	})
	if errors.Is(err, errShareNotFound) || errors.Is(err, errChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "share link not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve share link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"share":    link,
		"chat":     chat,
		"messages": messages,
	})
}
