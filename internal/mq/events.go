package mq

import "time"

// Routing keys for task lifecycle events.
const (
	TaskCreatedKey   = "task.created"
	TaskCompletedKey = "task.completed"
	TaskDeletedKey   = "task.deleted"
)

// TaskEvent is the payload published for task lifecycle events. Downstream
// consumers (reminder schedulers, notification senders) key off the routing
// key, not the payload shape.
type TaskEvent struct {
	TaskID  int        `json:"taskId"`
	UserID  int        `json:"userId"`
	Title   string     `json:"title"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}
