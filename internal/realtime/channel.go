package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Channels follow the "table:event:filter" convention, e.g.
// "messages:insert:conversation_id=123". Clients subscribe by channel
// name; publishers derive names with the helpers below so the two
// sides can never drift.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

func Channel(table, event, filterKey string, filterValue int64) string {
	return fmt.Sprintf("%s:%s:%s=%d", table, event, filterKey, filterValue)
}

func MessagesInsert(conversationID int64) string {
	return Channel("messages", EventInsert, "conversation_id", conversationID)
}

func MessagesUpdate(conversationID int64) string {
	return Channel("messages", EventUpdate, "conversation_id", conversationID)
}

func CallSignalsInsert(calleeID int64) string {
	return Channel("call_signals", EventInsert, "callee_id", calleeID)
}

func NotificationsInsert(userID int64) string {
	return Channel("notifications", EventInsert, "user_id", userID)
}

func PostsInsert(authorID int64) string {
	return Channel("posts", EventInsert, "author_id", authorID)
}

// ValidChannel rejects anything that does not look like table:event:filter.
func ValidChannel(name string) bool {
	parts := strings.Split(name, ":")
	if len(parts) != 3 {
		return false
	}
	if parts[0] == "" || parts[2] == "" {
		return false
	}
	switch parts[1] {
	case EventInsert, EventUpdate, EventDelete:
	default:
		return false
	}
	key, value, ok := strings.Cut(parts[2], "=")
	return ok && key != "" && value != ""
}

// Event is the envelope every subscriber receives.
type Event struct {
	Channel string          `json:"channel"`
	Payload json.RawMessage `json:"payload"`
}

func NewEvent(channel string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event payload: %w", err)
	}
	return Event{Channel: channel, Payload: data}, nil
}
