package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
	"loopline.app/server/internal/storage"
)

type ListingHandler struct {
	listingService service.ListingService
}

func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func (h *ListingHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.Create(ctx, middleware.GetUser(ctx).ID, service.CreateListingParams{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Category:    req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *ListingHandler) Get(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.Get(c.Request.Context(), listingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.Update(ctx, middleware.GetUser(ctx).ID, listingID, service.CreateListingParams{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Category:    req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) UploadMedia(c *gin.Context) {
	ctx := c.Request.Context()

	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media file is required"})
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

	listing, err := h.listingService.UploadMedia(ctx, middleware.GetUser(ctx).ID, listingID, file.Filename, src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) SetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.listingService.SetStatus(ctx, middleware.GetUser(ctx).ID, listingID, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListingHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.listingService.Delete(ctx, user.ID, listingID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ListingHandler) List(c *gin.Context) {
	listings, err := h.listingService.List(c.Request.Context(), c.Query("category"), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *ListingHandler) Mine(c *gin.Context) {
	ctx := c.Request.Context()

	listings, err := h.listingService.ListBySeller(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *ListingHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	hits, err := h.listingService.SearchListings(c.Request.Context(), query, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}
