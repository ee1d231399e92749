package router

import (
	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, h *handler.UserHandler) {
	rg.GET("/search", h.Search)
	rg.GET("/suggestions", h.Suggestions)
	rg.PATCH("/me", h.UpdateProfile)
	rg.POST("/me/avatar", h.UploadAvatar)
	rg.DELETE("/me", h.DeleteAccount)

	rg.GET("/:id", h.Get)
	rg.POST("/:id/follow", h.Follow)
	rg.DELETE("/:id/follow", h.Unfollow)
	rg.GET("/:id/followers", h.Followers)
	rg.GET("/:id/following", h.Following)
}

func PostRouter(posts *gin.RouterGroup, feed *gin.RouterGroup, h *handler.PostHandler) {
	feed.GET("", h.Feed)

	posts.POST("", h.Create)
	posts.GET("/search", h.Search)
	posts.GET("/:id", h.Get)
	posts.PATCH("/:id", h.Update)
	posts.DELETE("/:id", h.Delete)

	posts.POST("/:id/comments", h.AddComment)
	posts.GET("/:id/comments", h.ListComments)
	posts.DELETE("/:id/comments/:commentId", h.DeleteComment)

	posts.PUT("/:id/reaction", h.React)
	posts.DELETE("/:id/reaction", h.RemoveReaction)
	posts.GET("/:id/reactions", h.ListReactions)
}
