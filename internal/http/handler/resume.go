package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
	"loopline.app/server/internal/storage"
)

type ResumeHandler struct {
	resumeService service.ResumeService
}

func NewResumeHandler(resumeService service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

func (h *ResumeHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resume, err := h.resumeService.Create(ctx, middleware.GetUser(ctx).ID, req.Title, req.Summary)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resume)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	resumeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	resume, err := h.resumeService.Get(ctx, middleware.GetUser(ctx).ID, resumeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	resumeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resume, err := h.resumeService.Update(ctx, middleware.GetUser(ctx).ID, resumeID, req.Title, req.Summary)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()

	resumeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
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

	resume, err := h.resumeService.UploadFile(ctx, middleware.GetUser(ctx).ID, resumeID, file.Filename, src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	resumeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.resumeService.Delete(ctx, middleware.GetUser(ctx).ID, resumeID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ResumeHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	resumes, err := h.resumeService.ListByUser(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumes": resumes})
}
