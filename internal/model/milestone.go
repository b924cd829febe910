package model

import "time"

type Milestone struct {
	ID          int         `json:"id"`
	UserID      int         `json:"userId"`
	ProjectID   int         `json:"projectId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Date        *time.Time  `json:"date"`
	Project     *ProjectRef `json:"project,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
