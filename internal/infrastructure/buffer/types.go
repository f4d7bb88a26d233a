package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntityAccount = "account"
	EntityTask    = "task"

	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Replay priorities per entity. Lower values drain first: account updates
// carry credentials-adjacent state and go before task mutations.
const (
	priorityAccount = 3
	priorityTask    = 4
	priorityDefault = 3
)

// DefaultPriority returns the drain priority for a buffered entity.
func DefaultPriority(entity string) int {
	switch entity {
	case EntityAccount:
		return priorityAccount
	case EntityTask:
		return priorityTask
	}
	return priorityDefault
}

// Item is one deferred write waiting for primary storage to come back.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = priorityDefault
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
