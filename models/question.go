package models

import (
	"time"

	"gorm.io/gorm"
)

// Question represents a discussion-board question.
type Question struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Author     string    `gorm:"size:255;not null" json:"author"`
	Category   string    `gorm:"size:100" json:"category"`
	IsAnswered bool      `gorm:"default:false" json:"is_answered"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Answers    []Answer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"answers,omitempty"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (q *Question) BeforeUpdate(tx *gorm.DB) error {
	q.UpdatedAt = time.Now()
	return nil
}
