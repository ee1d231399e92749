package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Create(ctx, middleware.GetUser(ctx).ID, service.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Get(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Update(ctx, middleware.GetUser(ctx).ID, eventID, service.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user := middleware.GetUser(ctx)
	if err := h.eventService.Delete(ctx, user.ID, eventID, user.IsAdmin); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) ListUpcoming(c *gin.Context) {
	events, err := h.eventService.ListUpcoming(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) RSVP(c *gin.Context) {
	ctx := c.Request.Context()

	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rsvp, err := h.eventService.RSVP(ctx, middleware.GetUser(ctx).ID, eventID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rsvp)
}

func (h *EventHandler) ListRSVPs(c *gin.Context) {
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	rsvps, err := h.eventService.ListRSVPs(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}
