package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/japasea/japasea-server/internal/app/middleware"
	"github.com/japasea/japasea-server/internal/app/models"
)

func setupChatRouter(t *testing.T, client *MockGenerativeClient, catalog *MockCatalog, repo *MockChatRepo, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestService(client, catalog, repo)
	handlers := NewHandlers(svc, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(string(middleware.UserIDKey), userID)
		}
		c.Next()
	})
	r.POST("/chat", handlers.HandleChat)
	r.GET("/api/v1/chat/history/:sessionID", handlers.HandleHistory)
	return r
}

func TestHandleChatOK(t *testing.T) {
	client := new(MockGenerativeClient)
	catalog := new(MockCatalog)
	repo := new(MockChatRepo)

	catalog.On("CatalogSample", mock.Anything, catalogSampleLimit).Return([]models.PlaceRecord{}, nil)
	client.On("Generate", mock.Anything, mock.Anything).Return(`{"message": "hola!"}`, nil)

	r := setupChatRouter(t, client, catalog, repo, uuid.Nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hola"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hola!", resp.Message)
	assert.NotEmpty(t, resp.SessionID)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestHandleChatMissingMessage(t *testing.T) {
	r := setupChatRouter(t, new(MockGenerativeClient), new(MockCatalog), new(MockChatRepo), uuid.Nil)

	for _, body := range []string{`{}`, `{"message": "  "}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp["status"])
		assert.NotEmpty(t, resp["message"])
	}
}

func TestHandleChatUpstreamError(t *testing.T) {
	client := new(MockGenerativeClient)
	catalog := new(MockCatalog)

	catalog.On("CatalogSample", mock.Anything, catalogSampleLimit).Return([]models.PlaceRecord{}, nil)
	client.On("Generate", mock.Anything, mock.Anything).Return("", models.ErrUpstreamUnavailable)

	r := setupChatRouter(t, client, catalog, new(MockChatRepo), uuid.Nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hola"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	// The body never leaks the upstream error detail.
	assert.Equal(t, "internal server error", resp["error"])
}

func TestHandleHistory(t *testing.T) {
	repo := new(MockChatRepo)
	userID := uuid.New()
	repo.On("GetSessionMessages", mock.Anything, userID, "s-1").Return([]models.ChatMessage{
		{SessionID: "s-1", Sender: models.SenderUser, Text: "hola"},
	}, nil)

	r := setupChatRouter(t, new(MockGenerativeClient), new(MockCatalog), repo, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history/s-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string               `json:"session_id"`
		Messages  []models.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s-1", resp.SessionID)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "hola", resp.Messages[0].Text)
}

func TestHandleHistoryUnauthenticated(t *testing.T) {
	r := setupChatRouter(t, new(MockGenerativeClient), new(MockCatalog), new(MockChatRepo), uuid.Nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history/s-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
