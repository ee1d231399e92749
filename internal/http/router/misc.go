package router

import (
	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/handler"
)

func NotificationRouter(rg *gin.RouterGroup, h *handler.NotificationHandler) {
	rg.GET("", h.List)
	rg.GET("/unread", h.UnreadCount)
	rg.POST("/read-all", h.MarkAllRead)
	rg.POST("/:id/read", h.MarkRead)
}

// AdminRouter mounts the moderation console. The group is expected to
// carry middleware.RequireAdmin already.
func AdminRouter(rg *gin.RouterGroup, h *handler.AdminHandler) {
	rg.GET("/stats", h.Totals)
	rg.GET("/reports", h.OpenReports)
	rg.POST("/reports/:id/resolve", h.ResolveReport)
	rg.POST("/reports/:id/dismiss", h.DismissReport)
	rg.DELETE("/posts/:id", h.RemovePost)
	rg.DELETE("/users/:id", h.RemoveUser)
}
