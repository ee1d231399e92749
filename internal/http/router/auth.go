package router

import (
	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/handler"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, requireAuth gin.HandlerFunc) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/password-reset", h.RequestPasswordReset)
	rg.POST("/password-reset/confirm", h.ResetPassword)

	rg.POST("/logout", requireAuth, h.Logout)
	rg.POST("/logout-all", requireAuth, h.LogoutAll)
	rg.GET("/me", requireAuth, h.Me)
}
