package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

type PageHandler struct {
	pageService service.PageService
	postService service.PostService
}

func NewPageHandler(pageService service.PageService, postService service.PostService) *PageHandler {
	return &PageHandler{pageService: pageService, postService: postService}
}

func (h *PageHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Create(ctx, middleware.GetUser(ctx).ID, req.Name, req.Category, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

func (h *PageHandler) Get(c *gin.Context) {
	pageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, err := h.pageService.Get(c.Request.Context(), pageID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) GetBySlug(c *gin.Context) {
	page, err := h.pageService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	pageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.pageService.Update(ctx, middleware.GetUser(ctx).ID, pageID, service.UpdatePageParams{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PageHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	pageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.pageService.Delete(ctx, user.ID, pageID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PageHandler) List(c *gin.Context) {
	pages, err := h.pageService.List(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PageHandler) Mine(c *gin.Context) {
	ctx := c.Request.Context()

	pages, err := h.pageService.ListByOwner(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func (h *PageHandler) Posts(c *gin.Context) {
	pageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	posts, err := h.postService.ListByPage(c.Request.Context(), pageID, queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
