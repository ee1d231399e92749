package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

// AdminHandler backs the moderation console. Routes mount behind the
// admin key middleware; FileReport is the exception and mounts on the
// authenticated API.
type AdminHandler struct {
	adminService service.AdminService
	postService  service.PostService
	userService  service.UserService
}

func NewAdminHandler(adminService service.AdminService, postService service.PostService, userService service.UserService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		postService:  postService,
		userService:  userService,
	}
}

func (h *AdminHandler) Totals(c *gin.Context) {
	totals, err := h.adminService.Totals(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *AdminHandler) FileReport(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.adminService.FileReport(ctx, middleware.GetUser(ctx).ID, req.EntityType, req.EntityID, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *AdminHandler) OpenReports(c *gin.Context) {
	reports, err := h.adminService.OpenReports(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *AdminHandler) ResolveReport(c *gin.Context) {
	reportID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.ResolveReport(c.Request.Context(), reportID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) DismissReport(c *gin.Context) {
	reportID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DismissReport(c.Request.Context(), reportID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) RemovePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), 0, postID, true); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) RemoveUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
