package queue

type TaskType string

const (
	// TaskTypeNotify fans a domain event out into notification rows.
	TaskTypeNotify TaskType = "notify"
	// TaskTypeIndex upserts or deletes a document in the search engine.
	TaskTypeIndex TaskType = "index"
)

// Index operations.
const (
	IndexOpUpsert = "upsert"
	IndexOpDelete = "delete"
)

type Task struct {
	TaskType TaskType
	TraceID  *string
	Attempt  int

	// Notify fields.
	UserID     *int64
	ActorID    *int64
	Kind       string
	EntityType string
	EntityID   *int64

	// Index fields.
	Collection string
	IndexOp    string
	DocID      string
}
