package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"loopline.app/server/common/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

// Authorizer decides whether a user may subscribe to a channel. The
// gateway supplies one backed by participant and ownership checks.
type Authorizer func(ctx context.Context, userID int64, channel string) (bool, error)

// Client is one websocket connection. The read pump handles
// subscribe/unsubscribe frames; everything outbound goes through the
// buffered send channel drained by the write pump.
type Client struct {
	conn      *websocket.Conn
	hub       *Hub
	userID    int64
	authorize Authorizer
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

type controlFrame struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

func NewClient(hub *Hub, userID int64, conn *websocket.Conn, authorize Authorizer) *Client {
	return &Client{
		conn:      conn,
		hub:       hub,
		userID:    userID,
		authorize: authorize,
		send:      make(chan []byte, 256),
		done:      make(chan struct{}),
	}
}

func (c *Client) UserID() int64 {
	return c.userID
}

// Run starts both pumps and blocks until the connection drops.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer c.Close()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.realtime.client",
		UserID:    &c.userID,
	})

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "websocket closed unexpectedly", "error", err)
			}
			return
		}

		var frame controlFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.WarnContext(ctx, "ignoring malformed client frame", "error", err)
			continue
		}

		c.handleFrame(ctx, frame)
	}
}

func (c *Client) handleFrame(ctx context.Context, frame controlFrame) {
	if !ValidChannel(frame.Channel) {
		slog.WarnContext(ctx, "rejecting invalid channel name", "channel", frame.Channel)
		return
	}

	switch frame.Action {
	case "subscribe":
		ok, err := c.authorize(ctx, c.userID, frame.Channel)
		if err != nil {
			slog.ErrorContext(ctx, "channel authorization failed", "channel", frame.Channel, "error", err)
			return
		}
		if !ok {
			slog.WarnContext(ctx, "subscription denied", "channel", frame.Channel)
			return
		}
		c.hub.Subscribe(frame.Channel, c)
		slog.DebugContext(ctx, "client subscribed", "channel", frame.Channel)
	case "unsubscribe":
		c.hub.Unsubscribe(frame.Channel, c)
	default:
		slog.WarnContext(ctx, "unknown client action", "action", frame.Action)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close detaches the client and signals both pumps. The send channel is
// never closed: broadcasters may still hold a reference to it, so
// shutdown is signalled through the done channel instead.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.Detach(c)
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}
