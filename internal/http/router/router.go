package router

import (
	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/handler"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/service"
)

type RouterConfig struct {
	WebURL       string
	IsProduction bool
	AdminAPIKey  string
	// MediaDir is served read-only under /media.
	MediaDir string
}

func SetupRoutes(router *gin.Engine, services *service.Services, hub *realtime.Hub, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if cfg.MediaDir != "" {
		router.Static("/media", cfg.MediaDir)
	}

	authService := services.Auth()
	requireAuth := middleware.RequireAuth(authService)

	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, requireAuth)

	realtimeHandler := handler.NewRealtimeHandler(hub, services.Calls(), services.Conversations(), cfg.WebURL)
	router.GET("/realtime", requireAuth, realtimeHandler.Connect)

	v1 := router.Group("/api/v1")
	v1.Use(requireAuth)
	{
		userHandler := handler.NewUserHandler(services.Users())
		UserRouter(v1.Group("/users"), userHandler)

		postHandler := handler.NewPostHandler(services.Posts(), services.Engagement())
		PostRouter(v1.Group("/posts"), v1.Group("/feed"), postHandler)
		v1.GET("/users/:id/posts", postHandler.ListByAuthor)

		conversationHandler := handler.NewConversationHandler(services.Conversations())
		ConversationRouter(v1.Group("/conversations"), conversationHandler)

		callHandler := handler.NewCallHandler(services.Calls())
		CallRouter(v1.Group("/calls"), callHandler)

		groupHandler := handler.NewGroupHandler(services.Groups(), services.Posts())
		GroupRouter(v1.Group("/groups"), groupHandler)

		pageHandler := handler.NewPageHandler(services.Pages(), services.Posts())
		PageRouter(v1.Group("/pages"), pageHandler)

		companyHandler := handler.NewCompanyHandler(services.Companies(), services.Jobs())
		CompanyRouter(v1.Group("/companies"), companyHandler)

		jobHandler := handler.NewJobHandler(services.Jobs())
		JobRouter(v1.Group("/jobs"), jobHandler)

		resumeHandler := handler.NewResumeHandler(services.Resumes())
		ResumeRouter(v1.Group("/resumes"), resumeHandler)

		listingHandler := handler.NewListingHandler(services.Listings())
		ListingRouter(v1.Group("/listings"), listingHandler)

		reelHandler := handler.NewReelHandler(services.Reels())
		ReelRouter(v1.Group("/reels"), reelHandler)
		v1.GET("/users/:id/reels", reelHandler.ListByAuthor)

		eventHandler := handler.NewEventHandler(services.Events())
		EventRouter(v1.Group("/events"), eventHandler)

		notificationHandler := handler.NewNotificationHandler(services.Notifications())
		NotificationRouter(v1.Group("/notifications"), notificationHandler)

		adminHandler := handler.NewAdminHandler(services.Admin(), services.Posts(), services.Users())
		v1.POST("/reports", adminHandler.FileReport)

		admin := router.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg.AdminAPIKey))
		AdminRouter(admin, adminHandler)
	}
}
