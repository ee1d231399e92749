package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Fields flow through context enrichment, enabling zero-touch logging where business
// context (user_id, conversation_id, etc.) is automatically included in all log statements.
type LogFields struct {
	UserID         *int64  // Authenticated user ID
	ConversationID *int64  // Conversation scoping a message or call flow
	PostID         *int64  // Feed post ID
	Channel        *string // Realtime channel name
	TaskType       *string // Queue task type (e.g. "notify", "index")
	MessageID      *string // Redis stream message ID
	Component      string  // Component name (OTel semantic convention style, e.g. "loopline.realtime.hub")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.ConversationID != nil {
		result.ConversationID = next.ConversationID
	}
	if next.PostID != nil {
		result.PostID = next.PostID
	}
	if next.Channel != nil {
		result.Channel = next.Channel
	}
	if next.TaskType != nil {
		result.TaskType = next.TaskType
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}
