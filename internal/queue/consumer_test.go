package queue

import (
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestParseMessage_Notify(t *testing.T) {
	msg := redis.XMessage{
		ID: "1-0",
		Values: map[string]any{
			"task_type":   "notify",
			"user_id":     "42",
			"actor_id":    "7",
			"kind":        "post_comment",
			"entity_type": "post",
			"entity_id":   "900",
			"attempt":     "2",
		},
	}

	parsed, err := ParseMessage(msg)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if parsed.Task.TaskType != TaskTypeNotify {
		t.Errorf("task_type = %s", parsed.Task.TaskType)
	}
	if *parsed.Task.UserID != 42 || *parsed.Task.ActorID != 7 || *parsed.Task.EntityID != 900 {
		t.Errorf("ids = %v %v %v", parsed.Task.UserID, parsed.Task.ActorID, parsed.Task.EntityID)
	}
	if parsed.Task.Attempt != 2 {
		t.Errorf("attempt = %d", parsed.Task.Attempt)
	}
}

func TestParseMessage_Index(t *testing.T) {
	msg := redis.XMessage{
		ID: "2-0",
		Values: map[string]any{
			"task_type":  "index",
			"collection": "posts",
			"index_op":   "upsert",
			"doc_id":     "900",
		},
	}

	parsed, err := ParseMessage(msg)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if parsed.Task.Collection != "posts" || parsed.Task.IndexOp != IndexOpUpsert || parsed.Task.DocID != "900" {
		t.Errorf("parsed index task = %+v", parsed.Task)
	}
	if parsed.Task.Attempt != 1 {
		t.Errorf("default attempt = %d", parsed.Task.Attempt)
	}
}

func TestParseMessage_Invalid(t *testing.T) {
	cases := []map[string]any{
		{},
		{"task_type": "teleport"},
		{"task_type": "notify", "user_id": "42"},
		{"task_type": "index", "collection": "posts", "doc_id": "1", "index_op": "merge"},
		{"task_type": "index", "index_op": "upsert"},
	}

	for _, values := range cases {
		if _, err := ParseMessage(redis.XMessage{ID: "x", Values: values}); err == nil {
			t.Errorf("expected error for %v", values)
		}
	}
}

func TestTaskValuesRoundTrip(t *testing.T) {
	userID, actorID, entityID := int64(1), int64(2), int64(3)
	trace := "abc123"
	task := Task{
		TaskType:   TaskTypeNotify,
		UserID:     &userID,
		ActorID:    &actorID,
		EntityID:   &entityID,
		Kind:       "new_message",
		EntityType: "message",
		TraceID:    &trace,
	}

	parsed, err := ParseMessage(redis.XMessage{ID: "3-0", Values: taskValues(task, 1)})
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if parsed.Task.Kind != "new_message" || *parsed.Task.UserID != 1 || *parsed.Task.TraceID != "abc123" {
		t.Errorf("round trip = %+v", parsed.Task)
	}
}
