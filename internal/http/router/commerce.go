package router

import (
	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/handler"
)

func CompanyRouter(rg *gin.RouterGroup, h *handler.CompanyHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/mine", h.Mine)
	rg.GET("/slug/:slug", h.GetBySlug)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/jobs", h.Jobs)
}

func JobRouter(rg *gin.RouterGroup, h *handler.JobHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.ListOpen)
	rg.GET("/search", h.Search)
	rg.GET("/applications/mine", h.MyApplications)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/close", h.Close)

	rg.POST("/:id/apply", h.Apply)
	rg.GET("/:id/applications", h.Applications)
	rg.PATCH("/applications/:applicationId", h.ReviewApplication)
}

func ResumeRouter(rg *gin.RouterGroup, h *handler.ResumeHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/file", h.UploadFile)
	rg.DELETE("/:id", h.Delete)
}

func ListingRouter(rg *gin.RouterGroup, h *handler.ListingHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/mine", h.Mine)
	rg.GET("/search", h.Search)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/media", h.UploadMedia)
	rg.PUT("/:id/status", h.SetStatus)
	rg.DELETE("/:id", h.Delete)
}

func ReelRouter(rg *gin.RouterGroup, h *handler.ReelHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.ListRecent)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
