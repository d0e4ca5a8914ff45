package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branch-chat-service/internal/auth"
	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/middleware"
	"branch-chat-service/internal/models"
	"branch-chat-service/internal/mutators"
	"branch-chat-service/internal/push"
)

var testSecret = []byte("test-signing-secret")

func signToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func setupSyncRouter(t *testing.T) (*gin.Engine, *engine.MemoryEngine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eng := engine.NewMemoryEngine()
	processor := push.NewProcessor(eng, mutators.NewRegistry(), nil)

	r := gin.New()
	r.Use(middleware.BearerIdentity(auth.NewVerifier(testSecret)))
	r.POST("/push", NewSyncHandler(processor).Push)
	return r, eng
}

func pushBatch(t *testing.T, r *gin.Engine, token string, req push.Request) []push.Result {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	httpReq := httptest.NewRequest(http.MethodPost, "/push", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ClientID string        `json:"clientID"`
		Results  []push.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Results
}

func messageArgs(t *testing.T, msg models.Message) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	return raw
}

func findMessage(t *testing.T, eng *engine.MemoryEngine, id string) (models.Message, bool) {
	t.Helper()
	var msg models.Message
	var ok bool
	require.NoError(t, eng.Execute(context.Background(), func(tx engine.Tx) error {
		var err error
		msg, ok, err = tx.GetMessage(context.Background(), id)
		return err
	}))
	return msg, ok
}

func TestPushAppliesMutation(t *testing.T) {
	r, eng := setupSyncRouter(t)
	token := signToken(t, "user-alice")

	results := pushBatch(t, r, token, push.Request{
		ClientID: "client-1",
		Mutations: []push.Mutation{{
			ID:   1,
			Name: "message.create",
			Args: messageArgs(t, models.Message{ID: "m1", ChatID: "c1", SenderID: "user-alice", Body: "hi"}),
		}},
	})

	require.Len(t, results, 1)
	assert.Equal(t, push.StatusOK, results[0].Status)

	msg, ok := findMessage(t, eng, "m1")
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Body)
}

func TestPushReplayIsAcknowledgedWithoutReExecution(t *testing.T) {
	r, eng := setupSyncRouter(t)
	token := signToken(t, "user-alice")

	first := push.Request{
		ClientID: "client-1",
		Mutations: []push.Mutation{{
			ID:   7,
			Name: "message.create",
			Args: messageArgs(t, models.Message{ID: "m1", ChatID: "c1", SenderID: "user-alice", Body: "original"}),
		}},
	}
	results := pushBatch(t, r, token, first)
	require.Equal(t, push.StatusOK, results[0].Status)

	// Redelivery of the same mutation id must ack without touching state,
	// even if the payload differs.
	replay := first
	replay.Mutations[0].Args = messageArgs(t, models.Message{ID: "m1", ChatID: "c1", SenderID: "user-alice", Body: "changed"})
	results = pushBatch(t, r, token, replay)
	require.Equal(t, push.StatusOK, results[0].Status)

	msg, ok := findMessage(t, eng, "m1")
	require.True(t, ok)
	assert.Equal(t, "original", msg.Body)
}

func TestPushUnauthenticatedMutationRejected(t *testing.T) {
	r, eng := setupSyncRouter(t)

	results := pushBatch(t, r, "", push.Request{
		ClientID: "client-1",
		Mutations: []push.Mutation{{
			ID:   1,
			Name: "message.create",
			Args: messageArgs(t, models.Message{ID: "m1", ChatID: "c1", SenderID: "user-alice", Body: "hi"}),
		}},
	})

	require.Len(t, results, 1)
	assert.Equal(t, push.StatusError, results[0].Status)
	assert.Equal(t, push.ErrClassUnauthenticated, results[0].Error)

	_, ok := findMessage(t, eng, "m1")
	assert.False(t, ok)
}

func TestPushBatchContinuesPastRejection(t *testing.T) {
	r, eng := setupSyncRouter(t)
	token := signToken(t, "user-alice")

	results := pushBatch(t, r, token, push.Request{
		ClientID: "client-1",
		Mutations: []push.Mutation{
			{ID: 1, Name: "nonsense.op", Args: json.RawMessage(`{}`)},
			{ID: 2, Name: "message.create", Args: messageArgs(t, models.Message{ID: "m2", ChatID: "c1", SenderID: "user-alice"})},
		},
	})

	require.Len(t, results, 2)
	assert.Equal(t, push.StatusError, results[0].Status)
	assert.Equal(t, push.ErrClassInvalid, results[0].Error)
	assert.Equal(t, push.StatusOK, results[1].Status)

	_, ok := findMessage(t, eng, "m2")
	assert.True(t, ok)
}

func TestPushInvalidTokenTreatedAsAnonymous(t *testing.T) {
	r, _ := setupSyncRouter(t)

	results := pushBatch(t, r, "not-a-jwt", push.Request{
		ClientID: "client-1",
		Mutations: []push.Mutation{{
			ID:   1,
			Name: "message.create",
			Args: messageArgs(t, models.Message{ID: "m1", ChatID: "c1", SenderID: "user-alice"}),
		}},
	})

	require.Len(t, results, 1)
	assert.Equal(t, push.ErrClassUnauthenticated, results[0].Error)
}
