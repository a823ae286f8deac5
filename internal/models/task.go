package models

import "time"

// Task is a to-do item attached to an event.
type Task struct {
	ID          int64      `json:"id"`
	EventID     int64      `json:"event_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
}
