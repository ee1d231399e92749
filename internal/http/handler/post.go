package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

type PostHandler struct {
	postService       service.PostService
	engagementService service.EngagementService
}

func NewPostHandler(postService service.PostService, engagementService service.EngagementService) *PostHandler {
	return &PostHandler{postService: postService, engagementService: engagementService}
}

func (h *PostHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Create(ctx, middleware.GetUser(ctx).ID, service.CreatePostParams{
		Content:  req.Content,
		MediaURL: req.MediaURL,
		GroupID:  req.GroupID,
		PageID:   req.PageID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postService.Update(ctx, middleware.GetUser(ctx).ID, postID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.postService.Delete(ctx, user.ID, postID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()

	posts, err := h.postService.Feed(ctx, middleware.GetUser(ctx).ID, queryBefore(c), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	posts, err := h.postService.ListByAuthor(c.Request.Context(), authorID, queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	hits, err := h.postService.SearchPosts(c.Request.Context(), query, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

func (h *PostHandler) AddComment(c *gin.Context) {
	ctx := c.Request.Context()

	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.engagementService.AddComment(ctx, middleware.GetUser(ctx).ID, postID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *PostHandler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.engagementService.ListComments(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	ctx := c.Request.Context()

	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.engagementService.DeleteComment(ctx, user.ID, commentID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) React(c *gin.Context) {
	ctx := c.Request.Context()

	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reaction, err := h.engagementService.React(ctx, middleware.GetUser(ctx).ID, postID, req.Kind)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reaction)
}

func (h *PostHandler) RemoveReaction(c *gin.Context) {
	ctx := c.Request.Context()

	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.engagementService.RemoveReaction(ctx, middleware.GetUser(ctx).ID, postID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) ListReactions(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reactions, err := h.engagementService.ListReactions(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}

	count, err := h.engagementService.CountReactions(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": reactions, "count": count})
}
