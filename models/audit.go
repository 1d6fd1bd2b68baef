package models

import "time"

// AuditLog is one append-only line in the moderation audit trail.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Entry     string    `gorm:"type:text;not null" json:"entry"`
	Author    string    `gorm:"size:255" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
