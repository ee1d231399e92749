package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

type CompanyHandler struct {
	companyService service.CompanyService
	jobService     service.JobService
}

func NewCompanyHandler(companyService service.CompanyService, jobService service.JobService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, jobService: jobService}
}

func (h *CompanyHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companyService.Create(ctx, middleware.GetUser(ctx).ID, req.Name, req.Industry, req.About)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), companyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) GetBySlug(c *gin.Context) {
	company, err := h.companyService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.companyService.Update(ctx, middleware.GetUser(ctx).ID, companyID, service.UpdateCompanyParams{
		Name:     req.Name,
		Industry: req.Industry,
		Website:  req.Website,
		About:    req.About,
		LogoURL:  req.LogoURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.companyService.Delete(ctx, user.ID, companyID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyService.List(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *CompanyHandler) Mine(c *gin.Context) {
	ctx := c.Request.Context()

	companies, err := h.companyService.ListByOwner(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *CompanyHandler) Jobs(c *gin.Context) {
	companyID, ok := pathID(c, "id")
	if !ok {
		return
	}

	jobs, err := h.jobService.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}
