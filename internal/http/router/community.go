package router

import (
	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/handler"
)

func GroupRouter(rg *gin.RouterGroup, h *handler.GroupHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/mine", h.Mine)
	rg.GET("/slug/:slug", h.GetBySlug)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.POST("/:id/join", h.Join)
	rg.POST("/:id/leave", h.Leave)
	rg.GET("/:id/members", h.Members)
	rg.GET("/:id/posts", h.Posts)
}

func PageRouter(rg *gin.RouterGroup, h *handler.PageHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/mine", h.Mine)
	rg.GET("/slug/:slug", h.GetBySlug)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/posts", h.Posts)
}

func EventRouter(rg *gin.RouterGroup, h *handler.EventHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.ListUpcoming)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)

	rg.PUT("/:id/rsvp", h.RSVP)
	rg.GET("/:id/rsvps", h.ListRSVPs)
}
