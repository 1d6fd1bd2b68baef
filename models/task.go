package models

import "time"

// Task is one unresolved entry on the staff task board. Rows carry a stable
// id for persistence, but the board addresses tasks by current position.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
