package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/calls"
	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/model"
)

type CallHandler struct {
	callService calls.Service
}

func NewCallHandler(callService calls.Service) *CallHandler {
	return &CallHandler{callService: callService}
}

func (h *CallHandler) Place(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PlaceCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signal, err := h.callService.PlaceCall(ctx, middleware.GetUser(ctx).ID, req.CalleeID, req.ConversationID, req.CallType, req.SDP)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, signal)
}

func (h *CallHandler) Signal(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SendSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signal, err := h.callService.SendSignal(ctx, middleware.GetUser(ctx).ID, req.RecipientID, req.ConversationID, model.SignalType(req.SignalType), req.Data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, signal)
}

func (h *CallHandler) Accept(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.callService.Accept(ctx, middleware.GetUser(ctx).ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CallHandler) Reject(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.callService.Reject(ctx, middleware.GetUser(ctx).ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Pending reports the offer currently ringing for the caller's websocket
// connection, including the resolved caller name.
func (h *CallHandler) Pending(c *gin.Context) {
	ctx := c.Request.Context()

	pending := h.callService.Pending(middleware.GetUser(ctx).ID)
	if pending == nil {
		writeError(c, calls.ErrNotRinging)
		return
	}
	c.JSON(http.StatusOK, pending)
}

func (h *CallHandler) Incoming(c *gin.Context) {
	ctx := c.Request.Context()

	var since time.Time
	if raw := c.Query("since"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			since = t
		}
	}

	signals, err := h.callService.ListIncoming(ctx, middleware.GetUser(ctx).ID, since, queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": signals})
}
