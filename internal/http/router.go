package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"donation_hub/internal/config"
	"donation_hub/internal/http/controller"
	"donation_hub/internal/http/middleware"
	"donation_hub/internal/metrics"
)

func NewRouter(cfg *config.Config, handler *controller.Handler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.ZapLogger(logger),
		middleware.ZapRecovery(logger),
		otelgin.Middleware(cfg.OTELServiceName),
	)

	router.GET("/health", func(c *gin.Context) {
		c.Status(200)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	authed := router.Group("/", middleware.Auth(cfg.JWTSecret))
	authed.GET("/ws", handler.WS)

	api := authed.Group("/api")
	{
		api.GET("/notifications", handler.ListNotifications)
		api.PUT("/notifications/:id/read", handler.MarkNotificationRead)
		api.PUT("/notifications/read-by-items", handler.MarkNotificationsReadByItems)

		api.GET("/items/:id/comments", handler.ListComments)
		api.POST("/items/:id/comments", handler.CreateComment)
		api.PUT("/comments/:id", handler.UpdateComment)
		api.DELETE("/comments/:id", handler.DeleteComment)

		api.GET("/conversations", handler.ListConversations)
		api.GET("/conversations/:id/messages", handler.ListMessages)
		api.POST("/messages", handler.SendMessage)
		api.PUT("/messages/read", handler.MarkMessagesRead)

		admin := api.Group("/", middleware.RequireAdmin())
		admin.GET("/admin/notifications", handler.ListAdminNotifications)
		admin.POST("/events", handler.CreateEvent)
		admin.POST("/events/publish", handler.PublishEvent)
	}

	return router
}
