package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"loopline.app/server/internal/calls"
	"loopline.app/server/internal/http/middleware"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/service"
)

// RealtimeHandler upgrades authenticated clients to a websocket and scopes
// their channel subscriptions to rows they are allowed to see.
type RealtimeHandler struct {
	hub                 *realtime.Hub
	callService         calls.Service
	conversationService service.ConversationService
	upgrader            websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, callService calls.Service, conversationService service.ConversationService, webURL string) *RealtimeHandler {
	return &RealtimeHandler{
		hub:                 hub,
		callService:         callService,
		conversationService: conversationService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == webURL
			},
		},
	}
}

func (h *RealtimeHandler) Connect(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade failed", "error", err, "user_id", user.ID)
		return
	}

	client := realtime.NewClient(h.hub, user.ID, conn, h.authorize)

	// The ringer lives for exactly as long as the socket.
	h.callService.AttachRinger(user.ID)
	defer h.callService.DetachRinger(user.ID)

	slog.InfoContext(ctx, "realtime client connected", "user_id", user.ID)
	client.Run(ctx)
	slog.InfoContext(ctx, "realtime client disconnected", "user_id", user.ID)
}

// authorize decides whether a user may subscribe to a channel. Personal
// channels require an exact user match; conversation channels require
// membership; public feed channels are open.
func (h *RealtimeHandler) authorize(ctx context.Context, userID int64, channel string) (bool, error) {
	if !realtime.ValidChannel(channel) {
		return false, nil
	}

	parts := strings.SplitN(channel, ":", 3)
	table := parts[0]
	kv := strings.SplitN(parts[2], "=", 2)
	filterKey := kv[0]
	filterValue, err := strconv.ParseInt(kv[1], 10, 64)
	if err != nil {
		return false, nil
	}

	switch table {
	case "messages":
		if filterKey != "conversation_id" {
			return false, nil
		}
		_, err := h.conversationService.Get(ctx, userID, filterValue)
		if err != nil {
			if errors.Is(err, service.ErrNotConvParticipant) || errors.Is(err, service.ErrConversationNotFound) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	case "call_signals":
		return filterKey == "callee_id" && filterValue == userID, nil
	case "notifications":
		return filterKey == "user_id" && filterValue == userID, nil
	case "posts":
		return filterKey == "author_id", nil
	default:
		return false, nil
	}
}
