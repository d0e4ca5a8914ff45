package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"branch-chat-service/internal/mocks"
	"branch-chat-service/internal/websearch"
)

func setupSearchRouter(handler *SearchHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/search", handler.Search)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchEmptyQueryRejected(t *testing.T) {
	searcher := new(mocks.SearcherMock)
	r := setupSearchRouter(NewSearchHandler(searcher))

	w := postJSON(t, r, "/search", gin.H{"query": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Search query is required")
	searcher.AssertNotCalled(t, "Search")
}

func TestSearchReturnsChainResponse(t *testing.T) {
	searcher := new(mocks.SearcherMock)
	searcher.On("Search", mock.Anything, "golang").Return(websearch.Response{
		Query: "golang",
		Results: []websearch.Result{
			{Title: "The Go Programming Language", URL: "https://go.dev", DisplayURL: "go.dev"},
		},
		Timestamp: 1700000000000,
	}, nil)
	r := setupSearchRouter(NewSearchHandler(searcher))

	w := postJSON(t, r, "/search", gin.H{"query": "golang"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp websearch.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "golang", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "go.dev", resp.Results[0].DisplayURL)
	searcher.AssertExpectations(t)
}

func TestSearchChainExhausted(t *testing.T) {
	searcher := new(mocks.SearcherMock)
	searcher.On("Search", mock.Anything, "golang").Return(nil, errors.New("no search provider available"))
	r := setupSearchRouter(NewSearchHandler(searcher))

	w := postJSON(t, r, "/search", gin.H{"query": "golang"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
