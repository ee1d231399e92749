package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

type GroupHandler struct {
	groupService service.GroupService
	postService  service.PostService
}

func NewGroupHandler(groupService service.GroupService, postService service.PostService) *GroupHandler {
	return &GroupHandler{groupService: groupService, postService: postService}
}

func (h *GroupHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Create(ctx, middleware.GetUser(ctx).ID, req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) Get(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.Get(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) GetBySlug(c *gin.Context) {
	group, err := h.groupService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Update(ctx, middleware.GetUser(ctx).ID, groupID, service.UpdateGroupParams{
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.groupService.Delete(ctx, user.ID, groupID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) Mine(c *gin.Context) {
	ctx := c.Request.Context()

	groups, err := h.groupService.ListByUser(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *GroupHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()

	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.Join(ctx, middleware.GetUser(ctx).ID, groupID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) Leave(c *gin.Context) {
	ctx := c.Request.Context()

	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.Leave(ctx, middleware.GetUser(ctx).ID, groupID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) Members(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.groupService.Members(c.Request.Context(), groupID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *GroupHandler) Posts(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	posts, err := h.postService.ListByGroup(c.Request.Context(), groupID, queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
