package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"loopline.app/server/internal/http/dto"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/service"
)

type ConversationHandler struct {
	conversationService service.ConversationService
}

func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

func (h *ConversationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.conversationService.Create(ctx, middleware.GetUser(ctx).ID, req.ParticipantIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	conv, err := h.conversationService.Get(ctx, middleware.GetUser(ctx).ID, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ConversationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	convs, err := h.conversationService.List(ctx, middleware.GetUser(ctx).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (h *ConversationHandler) Participants(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	participants, err := h.conversationService.Participants(ctx, middleware.GetUser(ctx).ID, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants})
}

func (h *ConversationHandler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.conversationService.SendMessage(ctx, middleware.GetUser(ctx).ID, conversationID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ConversationHandler) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.conversationService.ListMessages(ctx, middleware.GetUser(ctx).ID, conversationID, queryBefore(c), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ConversationHandler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.conversationService.MarkRead(ctx, middleware.GetUser(ctx).ID, conversationID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	ctx := c.Request.Context()

	conversationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	count, err := h.conversationService.CountUnread(ctx, middleware.GetUser(ctx).ID, conversationID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
