package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
	"loopline.app/server/internal/storage"
)

type ReelHandler struct {
	reelService service.ReelService
}

func NewReelHandler(reelService service.ReelService) *ReelHandler {
	return &ReelHandler{reelService: reelService}
}

func (h *ReelHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video file is required"})
		return
	}
	if file.Size > storage.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer src.Close()

	reel, err := h.reelService.Create(ctx, middleware.GetUser(ctx).ID, c.PostForm("caption"), file.Filename, src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reel)
}

func (h *ReelHandler) Get(c *gin.Context) {
	reelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reel, err := h.reelService.Get(c.Request.Context(), reelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reel)
}

func (h *ReelHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	reelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.reelService.Delete(ctx, user.ID, reelID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReelHandler) ListRecent(c *gin.Context) {
	reels, err := h.reelService.ListRecent(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reels": reels})
}

func (h *ReelHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reels, err := h.reelService.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reels": reels})
}
