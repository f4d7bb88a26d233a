package domain

import "time"

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// Task represents a user-owned activity item. OwnerID is assigned on creation
// and never changes afterwards.
type Task struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ApplyDefaults fills priority and status when the caller left them unset.
func (t *Task) ApplyDefaults() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
}

// Validate checks the field constraints shared by create and update paths.
func (t *Task) Validate() error {
	if t.Title == "" || len(t.Title) > TitleMaxLength {
		return NewError(ErrCodeInvalid, "title must be between 1 and 100 characters")
	}
	if len(t.Description) > DescriptionMaxLength {
		return NewError(ErrCodeInvalid, "description must be at most 500 characters")
	}
	if !t.Priority.Valid() {
		return NewError(ErrCodeInvalid, "unknown task priority")
	}
	if !t.Status.Valid() {
		return NewError(ErrCodeInvalid, "unknown task status")
	}
	return nil
}
