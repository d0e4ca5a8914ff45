package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branch-chat-service/internal/auth"
	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/middleware"
	"branch-chat-service/internal/models"
	"branch-chat-service/internal/mutators"
)

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

func setupShareRouter(t *testing.T) (*gin.Engine, *engine.MemoryEngine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eng := engine.NewMemoryEngine()
	handler := NewShareHandler(eng, mutators.NewRegistry(), "http://localhost:8080")

	r := gin.New()
	r.Use(middleware.BearerIdentity(auth.NewVerifier(testSecret)))
	r.POST("/share", handler.Create)
	r.GET("/share/:shareID", handler.Resolve)
	return r, eng
}

func seedChat(t *testing.T, eng *engine.MemoryEngine, chat models.Chat, messages ...models.Message) {
	t.Helper()
	require.NoError(t, eng.Execute(context.Background(), func(tx engine.Tx) error {
		if err := tx.InsertChat(context.Background(), chat); err != nil {
			return err
		}
		for _, m := range messages {
			if err := tx.InsertMessage(context.Background(), m); err != nil {
				return err
			}
		}
		return nil
	}))
}

func TestShareCreateRequiresIdentity(t *testing.T) {
	r, _ := setupShareRouter(t)

	w := postJSON(t, r, "/share", gin.H{"chatID": "c1"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShareCreateUnknownChat(t *testing.T) {
	r, _ := setupShareRouter(t)
	token := signToken(t, "user-alice")

	body := `{"chatID":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/share", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareRoundTrip(t *testing.T) {
	r, eng := setupShareRouter(t)
	token := signToken(t, "user-alice")

	seedChat(t, eng,
		models.Chat{ID: "c1", Title: "Trip planning", OwnerID: "user-alice", CreatedAt: 1},
		models.Message{ID: "m1", ChatID: "c1", SenderID: "user-alice", Body: "first", Timestamp: 1},
		models.Message{ID: "m2", ChatID: "c1", SenderID: "user-alice", Body: "second", Timestamp: 2, ParentID: "m1"},
	)

	req := httptest.NewRequest(http.MethodPost, "/share", jsonBody(`{"chatID":"c1","isPublic":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		ShareID  string `json:"shareID"`
		ShareURL string `json:"shareUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ShareID)
	assert.Equal(t, "http://localhost:8080/share/"+created.ShareID, created.ShareURL)

	// Resolving needs no credentials.
	getReq := httptest.NewRequest(http.MethodGet, "/share/"+created.ShareID, nil)
	getW := httptest.NewRecorder()
	r.ServeHTTP(getW, getReq)
	require.Equal(t, http.StatusOK, getW.Code)

	var resolved struct {
		Share    models.ShareLink `json:"share"`
		Chat     models.Chat      `json:"chat"`
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &resolved))
	assert.Equal(t, "c1", resolved.Share.ChatID)
	assert.Equal(t, "user-alice", resolved.Share.CreatedBy)
	assert.True(t, resolved.Share.IsPublic)
	assert.Equal(t, "Trip planning", resolved.Chat.Title)
	require.Len(t, resolved.Messages, 2)
	assert.Equal(t, "first", resolved.Messages[0].Body)
	assert.Equal(t, "m1", resolved.Messages[1].ParentID)
}

func TestShareResolveUnknown(t *testing.T) {
	r, _ := setupShareRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/share/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
