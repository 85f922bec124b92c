package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/japasea/japasea-server/internal/app/middleware"
	"github.com/japasea/japasea-server/internal/app/models"
)

// Handlers exposes the chat pipeline over HTTP.
type Handlers struct {
	service *Service
	logger  *zap.Logger
}

func NewHandlers(service *Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// HandleChat handles POST /chat and POST /api/v1/chat.
func (h *Handlers) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid chat request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "El mensaje es requerido",
		})
		return
	}

	userID := middleware.GetUserIDFromContext(c)

	resp, err := h.service.Respond(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "El mensaje es requerido",
			})
		default:
			h.logger.Error("Chat pipeline failed",
				zap.String("session_id", req.SessionID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Error al procesar el mensaje",
				"error":   "internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleHistory handles GET /api/v1/chat/history/:sessionID.
func (h *Handlers) HandleHistory(c *gin.Context) {
	sessionID := c.Param("sessionID")
	userID := middleware.GetUserIDFromContext(c)

	messages, err := h.service.History(c.Request.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "authentication required",
			})
			return
		}
		h.logger.Error("Failed to load session history",
			zap.String("session_id", sessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Error al cargar el historial",
			"error":   "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"messages":   messages,
	})
}
