package router

import (
	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/handler"
)

func ConversationRouter(rg *gin.RouterGroup, h *handler.ConversationHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/participants", h.Participants)

	rg.POST("/:id/messages", h.SendMessage)
	rg.GET("/:id/messages", h.ListMessages)
	rg.POST("/:id/read", h.MarkRead)
	rg.GET("/:id/unread", h.UnreadCount)
}

func CallRouter(rg *gin.RouterGroup, h *handler.CallHandler) {
	rg.POST("", h.Place)
	rg.POST("/signal", h.Signal)
	rg.POST("/accept", h.Accept)
	rg.POST("/reject", h.Reject)
	rg.GET("/incoming", h.Incoming)
	rg.GET("/pending", h.Pending)
}
