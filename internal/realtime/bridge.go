package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"loopline.app/server/common/logger"
)

// Publisher is what services use to emit realtime events. Events go
// through redis so every server instance sees them, including the one
// that published.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type redisPublisher struct {
	client    *redis.Client
	broadcast string
}

func NewRedisPublisher(client *redis.Client, broadcastChannel string) Publisher {
	return &redisPublisher{client: client, broadcast: broadcastChannel}
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	event, err := NewEvent(channel, payload)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.broadcast, data).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.DebugContext(ctx, "realtime event published", "channel", channel)
	return nil
}

// EventHook observes every bridged event before it reaches the hub.
// Hooks let server-side consumers (the call ringer, for one) react to
// events regardless of which instance published them.
type EventHook func(ctx context.Context, event Event)

// Bridge subscribes to the shared redis channel and fans incoming
// events into the local hub.
type Bridge struct {
	client    *redis.Client
	hub       *Hub
	broadcast string
	hooks     []EventHook
}

func NewBridge(client *redis.Client, hub *Hub, broadcastChannel string, hooks ...EventHook) *Bridge {
	return &Bridge{client: client, hub: hub, broadcast: broadcastChannel, hooks: hooks}
}

// Run blocks until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.realtime.bridge",
	})

	pubsub := b.client.Subscribe(ctx, b.broadcast)
	defer pubsub.Close()

	// Force the subscription before we report ready.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.broadcast, err)
	}

	slog.InfoContext(ctx, "realtime bridge started", "redis_channel", b.broadcast)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "realtime bridge stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(ctx, "failed to decode bridged event", "error", err)
				continue
			}
			for _, hook := range b.hooks {
				hook(ctx, event)
			}
			b.hub.Broadcast(ctx, event)
		}
	}
}
