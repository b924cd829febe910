package model

import "time"

// DefaultProjectColors is applied when a project is created without colors.
var DefaultProjectColors = []string{"#2196F3"}

type Project struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Name        string    `json:"name"`
	Colors      []string  `json:"colors"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectRef is the reduced project view embedded in tasks and milestones.
type ProjectRef struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}
