package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

type JobHandler struct {
	jobService service.JobService
}

func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func (h *JobHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobService.Create(ctx, middleware.GetUser(ctx).ID, service.CreateJobParams{
		CompanyID:      req.CompanyID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Get(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Close(c *gin.Context) {
	ctx := c.Request.Context()

	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.Close(ctx, middleware.GetUser(ctx).ID, jobID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) ListOpen(c *gin.Context) {
	jobs, err := h.jobService.ListOpen(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	hits, err := h.jobService.SearchJobs(c.Request.Context(), query, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

func (h *JobHandler) Apply(c *gin.Context) {
	ctx := c.Request.Context()

	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ApplyJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.jobService.Apply(ctx, middleware.GetUser(ctx).ID, jobID, req.ResumeID, req.CoverLetter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *JobHandler) Applications(c *gin.Context) {
	ctx := c.Request.Context()

	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}

	apps, err := h.jobService.ListApplications(ctx, middleware.GetUser(ctx).ID, jobID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *JobHandler) MyApplications(c *gin.Context) {
	ctx := c.Request.Context()

	apps, err := h.jobService.MyApplications(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *JobHandler) ReviewApplication(c *gin.Context) {
	ctx := c.Request.Context()

	applicationID, ok := pathID(c, "applicationId")
	if !ok {
		return
	}

	var req dto.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.jobService.ReviewApplication(ctx, middleware.GetUser(ctx).ID, applicationID, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
