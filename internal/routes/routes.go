package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/japasea/japasea-server/internal/app/domain/chat"
	"github.com/japasea/japasea-server/internal/app/domain/places"
	"github.com/japasea/japasea-server/internal/app/middleware"
	"github.com/japasea/japasea-server/internal/pkg/config"
)

// Setup wires repositories, services and handlers onto the router.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) {
	client, err := chat.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		// The pipeline degrades to per-request upstream errors rather than
		// refusing to serve.
		logger.Warn("Generative client unavailable", zap.Error(err))
		client, _ = chat.NewGeminiClient(context.Background(), "", cfg.Gemini.Model, logger)
	}

	placesRepo := places.NewRepository(dbPool, logger)
	placesService := places.NewService(placesRepo, logger)

	chatRepo := chat.NewRepository(dbPool, logger)
	chatService := chat.NewService(client, placesService, chatRepo, logger)
	chatHandlers := chat.NewHandlers(chatService, logger)

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Legacy unversioned endpoint kept for existing clients.
	r.POST("/chat", chatHandlers.HandleChat)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/chat", chatHandlers.HandleChat)

		authed := v1.Group("/")
		authed.Use(middleware.RequireAuth())
		authed.GET("/chat/history/:sessionID", chatHandlers.HandleHistory)
	}
}
