package model

import "time"

const (
	PriorityLow    = 0
	PriorityNormal = 1
	PriorityHigh   = 2
)

type Task struct {
	ID          int         `json:"id"`
	UserID      int         `json:"userId"`
	Title       string      `json:"title"`
	Note        string      `json:"note"`
	DueDate     *time.Time  `json:"dueDate"`
	IsDone      bool        `json:"isDone"`
	CompletedAt *time.Time  `json:"completedAt"`
	Progress    int         `json:"progress"`
	Priority    int         `json:"priority"`
	ProjectID   *int        `json:"projectId"`
	Category    string      `json:"category"`
	Project     *ProjectRef `json:"project,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ClampProgress keeps task progress inside [0,100]. Out-of-range input is
// clamped, never rejected.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

type PriorityBreakdown struct {
	Low    int `json:"low"`
	Normal int `json:"normal"`
	High   int `json:"high"`
}

type TaskStats struct {
	Total      int               `json:"total"`
	Completed  int               `json:"completed"`
	Pending    int               `json:"pending"`
	Overdue    int               `json:"overdue"`
	ByPriority PriorityBreakdown `json:"byPriority"`
}
